// Package console writes one human-readable line per log entry. It is the
// CLI default because it keeps diagnostics on stderr, away from the run
// summary printed on stdout.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// Level orders log severities.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if l < LevelTrace || l > LevelFatal {
		return levelNames[LevelInfo]
	}
	return levelNames[l]
}

// ParseLevel maps a configured level name onto a Level. An empty name is
// info; unknown names report false.
func ParseLevel(name string) (Level, bool) {
	switch name = strings.ToUpper(strings.TrimSpace(name)); name {
	case "":
		return LevelInfo, true
	case "WARNING":
		return LevelWarn, true
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// Options configures a Provider. A nil Writer means stderr and a nil Clock
// means time.Now.
type Options struct {
	Writer   io.Writer
	Clock    func() time.Time
	MinLevel Level
}

// Provider hands out loggers that share one writer.
type Provider struct {
	mu    sync.Mutex
	w     io.Writer
	clock func() time.Time
	min   Level
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds a console provider.
func NewProvider(opts Options) *Provider {
	p := &Provider{w: opts.Writer, clock: opts.Clock, min: opts.MinLevel}
	if p.w == nil {
		p.w = os.Stderr
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	return p
}

// GetLogger returns a logger that tags every line with name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	return &logger{p: p, name: strings.TrimSpace(name)}
}

func (p *Provider) write(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// diagnostics are best effort
	_, _ = io.WriteString(p.w, line)
}

type field struct {
	key   string
	value any
}

type logger struct {
	p      *Provider
	name   string
	fields []field
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

// WithFields returns a logger that appends fields, sorted by key, to every
// line.
func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := *l
	next.fields = append(slices.Clone(l.fields), sortedFields(fields)...)
	return &next
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	next := *l
	next.ctx = ctx
	return &next
}

// log renders `time LEVEL msg logger=name fields... context... args...`.
// Args are key/value pairs; a pair without a string key is written under
// !BADKEY, as log/slog does.
func (l *logger) log(level Level, msg string, args []any) {
	if level < l.p.min {
		return
	}
	var b strings.Builder
	b.WriteString(l.p.clock().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, " %-5s %s", level, msg)
	if l.name != "" {
		writeField(&b, "logger", l.name)
	}
	for _, f := range l.fields {
		writeField(&b, f.key, f.value)
	}
	for _, f := range sortedFields(logging.ContextFields(l.ctx)) {
		writeField(&b, f.key, f.value)
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" || i+1 == len(args) {
			writeField(&b, "!BADKEY", args[i])
			i--
			continue
		}
		writeField(&b, key, args[i+1])
	}
	b.WriteByte('\n')
	l.p.write(b.String())
}

func sortedFields(m map[string]any) []field {
	out := make([]field, 0, len(m))
	for k, v := range m {
		out = append(out, field{key: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func writeField(b *strings.Builder, key string, value any) {
	var s string
	switch v := value.(type) {
	case nil:
		s = "<nil>"
	case string:
		s = v
	case error:
		s = v.Error()
	case time.Time:
		s = v.UTC().Format(time.RFC3339)
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\r\n") {
		s = strconv.Quote(s)
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(s)
}
