// Package tex escapes literal text for embedding in LaTeX source.
package tex

import "strings"

// LineBreak is the forced line break emitted for a double backslash that
// ends a source line.
const LineBreak = `\\`

var replacements = map[byte]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'#':  `\#`,
	'$':  `\$`,
	'%':  `\%`,
	'&':  `\&`,
	'_':  `\_`,
	'^':  `\^{}`,
	'~':  `\~{}`,
}

// Escape returns s with every LaTeX-reserved character escaped. The input is
// treated as literal text and scanned once, so replacements never see each
// other's output. A double backslash immediately followed by a newline is
// kept as a LaTeX line break; every other backslash is escaped.
func Escape(s string) string {
	if !strings.ContainsAny(s, `\{}#$%&_^~`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/4)

	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], LineBreak+"\n") {
			b.WriteString(LineBreak + "\n")
			i += len(LineBreak) + 1
			continue
		}
		if repl, ok := replacements[s[i]]; ok {
			b.WriteString(repl)
		} else {
			b.WriteByte(s[i])
		}
		i++
	}
	return b.String()
}
