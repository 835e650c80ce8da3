package richtext

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-qti2tex/internal/tex"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// GraphicsOptions is the optional argument passed to \includegraphics.
const GraphicsOptions = `width=0.8\linewidth,height=0.3\textheight,keepaspectratio`

// NativeConverter renders HTML fragments to LaTeX without external tools.
// Unknown elements contribute their children; script and style are dropped.
type NativeConverter struct{}

var _ interfaces.RichTextConverter = NativeConverter{}

// NewNativeConverter returns the in-process converter.
func NewNativeConverter() NativeConverter {
	return NativeConverter{}
}

// Convert parses fragment as the body of an HTML document and renders it.
func (NativeConverter) Convert(ctx context.Context, fragment string) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("parse html fragment: %w", err)
	}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(renderNode(n))
	}
	return tidy(b.String()), nil
}

var (
	spaceRun = regexp.MustCompile(`[ \t\r\n\f]+`)
	blankRun = regexp.MustCompile(`[ \t]*\n(?:[ \t]*\n)+[ \t]*`)
	lineEnd  = regexp.MustCompile(`[ \t]+\n`)
)

func tidy(s string) string {
	s = blankRun.ReplaceAllString(s, "\n\n")
	s = lineEnd.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

func renderNode(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return renderText(n.Data)
	case html.ElementNode:
		return renderElement(n)
	case html.DocumentNode:
		return renderChildren(n)
	default:
		return ""
	}
}

func renderChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(renderNode(c))
	}
	return b.String()
}

func block(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	return "\n\n" + content + "\n\n"
}

func command(name, content string) string {
	if strings.TrimSpace(content) == "" {
		return content
	}
	return `\` + name + "{" + content + "}"
}

func environment(name, content string) string {
	return "\n\\begin{" + name + "}\n" + strings.TrimSpace(content) + "\n\\end{" + name + "}\n"
}

func renderElement(n *html.Node) string {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Template, atom.Noscript:
		return ""
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Figure, atom.Figcaption:
		return block(renderChildren(n))
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return block(command("textbf", strings.TrimSpace(renderChildren(n))))
	case atom.Br:
		return "\\\\\n"
	case atom.Hr:
		return "\n\n\\noindent\\rule{\\linewidth}{0.4pt}\n\n"
	case atom.B, atom.Strong:
		return command("textbf", renderChildren(n))
	case atom.I, atom.Em, atom.Cite, atom.Var:
		return command("emph", renderChildren(n))
	case atom.U, atom.Ins:
		return command("underline", renderChildren(n))
	case atom.Sup:
		return command("textsuperscript", renderChildren(n))
	case atom.Sub:
		return command("textsubscript", renderChildren(n))
	case atom.Code, atom.Tt, atom.Kbd, atom.Samp:
		return command("texttt", renderChildren(n))
	case atom.Ul:
		return environment("itemize", renderChildren(n))
	case atom.Ol:
		return environment("enumerate", renderChildren(n))
	case atom.Li:
		return "\\item " + strings.TrimSpace(renderChildren(n)) + "\n"
	case atom.Blockquote:
		return environment("quote", renderChildren(n))
	case atom.Pre:
		return "\n\\begin{verbatim}\n" + strings.Trim(rawText(n), "\n") + "\n\\end{verbatim}\n"
	case atom.Img:
		return renderImage(n)
	case atom.Table:
		return renderTable(n)
	default:
		return renderChildren(n)
	}
}

// renderText escapes literal text. Spans already delimited as inline or
// display math are passed through untouched unless they reach for file or
// catcode primitives, in which case they are escaped like any other text.
func renderText(data string) string {
	data = spaceRun.ReplaceAllString(data, " ")
	var b strings.Builder
	for data != "" {
		start, opening, closing := nextMath(data)
		if start < 0 {
			b.WriteString(escapeText(data))
			break
		}
		end := strings.Index(data[start+len(opening):], closing)
		if end < 0 {
			b.WriteString(escapeText(data))
			break
		}
		end += start + len(opening) + len(closing)
		b.WriteString(escapeText(data[:start]))
		if span := data[start:end]; safeMath(span) {
			b.WriteString(span)
		} else {
			b.WriteString(escapeText(span))
		}
		data = data[end:]
	}
	return b.String()
}

var textSymbols = strings.NewReplacer(
	"\u00a0", "~",
	"<", `\textless{}`,
	">", `\textgreater{}`,
)

func escapeText(s string) string {
	return textSymbols.Replace(tex.Escape(s))
}

var mathDelimiters = [][2]string{{`\(`, `\)`}, {`\[`, `\]`}}

var unsafeMath = regexp.MustCompile(`\\(?:input|include|includeonly|write|openin|openout|read|immediate|catcode|special|csname)(?:[^A-Za-z]|$)`)

// safeMath reports whether a math source can be copied into the document
// verbatim.
func safeMath(src string) bool {
	return !unsafeMath.MatchString(src)
}

func nextMath(s string) (int, string, string) {
	best, opening, closing := -1, "", ""
	for _, d := range mathDelimiters {
		if i := strings.Index(s, d[0]); i >= 0 && (best < 0 || i < best) {
			best, opening, closing = i, d[0], d[1]
		}
	}
	return best, opening, closing
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		if node.Type == html.ElementNode && node.DataAtom == atom.Br {
			b.WriteString("\n")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.ReplaceAll(b.String(), `\end{verbatim}`, `\end {verbatim}`)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func renderImage(n *html.Node) string {
	if eq := equationSource(n); eq != "" {
		if !safeMath(eq) {
			return `\emph{[equation: ` + tex.Escape(eq) + `]}`
		}
		return `\(` + eq + `\)`
	}
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" {
		return ""
	}
	if strings.Contains(src, "://") || strings.HasPrefix(src, "data:") {
		label := strings.TrimSpace(attr(n, "alt"))
		if label == "" {
			label = src
		}
		return `\emph{[image: ` + tex.Escape(label) + `]}`
	}
	if strings.ContainsAny(src, unsafeFileChars) {
		return `\emph{[image: ` + tex.Escape(src) + `]}`
	}
	return `\includegraphics[` + GraphicsOptions + `]{` + src + `}`
}

// unsafeFileChars cannot appear in an \includegraphics file name without
// breaking the argument or changing the name LaTeX looks up.
const unsafeFileChars = `%{}#\~^&$`

// equationSource returns the LaTeX source carried by an equation image, as
// exported by Canvas.
func equationSource(n *html.Node) string {
	if eq := strings.TrimSpace(attr(n, "data-equation-content")); eq != "" {
		return eq
	}
	if !hasClass(n, "equation_image") {
		return ""
	}
	for _, key := range []string{"alt", "title"} {
		v := strings.TrimSpace(attr(n, key))
		v = strings.TrimSpace(strings.TrimPrefix(v, "LaTeX:"))
		if v != "" {
			return v
		}
	}
	return ""
}

func renderTable(n *html.Node) string {
	var rows [][]string
	columns := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				row := renderRow(c)
				if len(row) > columns {
					columns = len(row)
				}
				rows = append(rows, row)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(n)
	if columns == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\\begin{tabular}{|" + strings.Repeat("l|", columns) + "}\n\\hline\n")
	for _, row := range rows {
		for len(row) < columns {
			row = append(row, "")
		}
		b.WriteString(strings.Join(row, " & "))
		b.WriteString(" \\\\\n\\hline\n")
	}
	b.WriteString("\\end{tabular}\n")
	return block(b.String())
}

func renderRow(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		cell := renderChildren(c)
		cell = strings.ReplaceAll(cell, "\\\\\n", " ")
		cell = strings.TrimSpace(spaceRun.ReplaceAllString(cell, " "))
		if c.DataAtom == atom.Th {
			cell = command("textbf", cell)
		}
		cells = append(cells, cell)
	}
	return cells
}
