package tex

import (
	"strings"
	"testing"
)

func TestEscapeReservedCharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"50% off", `50\% off`},
		{"a_b", `a\_b`},
		{"#1 & $2", `\#1 \& \$2`},
		{"{x}", `\{x\}`},
		{"x^2", `x\^{}2`},
		{"~home", `\~{}home`},
		{`C:\temp`, `C:\textbackslash{}temp`},
		{"naïve café", "naïve café"},
	}
	for _, tc := range cases {
		if got := Escape(tc.in); got != tc.want {
			t.Fatalf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeKeepsLineBreaks(t *testing.T) {
	in := "first line\\\\\nsecond line"
	got := Escape(in)
	if got != in {
		t.Fatalf("expected line break to survive, got %q", got)
	}

	got = Escape("a\\\\b")
	if got != `a\textbackslash{}\textbackslash{}b` {
		t.Fatalf("expected mid-line double backslash to be escaped, got %q", got)
	}
}

func TestEscapeKeepsBackslashBeforeReservedCharacter(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`C:\_data`, `C:\textbackslash{}\_data`},
		{`use \% for percent`, `use \textbackslash{}\% for percent`},
		{`regex \{n\}`, `regex \textbackslash{}\{n\textbackslash{}\}`},
		{`\textbackslash{}`, `\textbackslash{}textbackslash\{\}`},
	}
	for _, tc := range cases {
		if got := Escape(tc.in); got != tc.want {
			t.Fatalf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeLeavesNoBareReservedCharacters(t *testing.T) {
	sequences := []string{
		`\textbackslash{}`,
		`\^{}`,
		`\~{}`,
		`\{`,
		`\}`,
		`\#`,
		`\$`,
		`\%`,
		`\&`,
		`\_`,
	}
	out := Escape(`# $ % & _ ^ ~ \ { } \% \textbackslash{}`)
	stripped := out
	for _, seq := range sequences {
		stripped = strings.ReplaceAll(stripped, seq, "")
	}
	if strings.ContainsAny(stripped, `#$%&_^~\{}`) {
		t.Fatalf("found unescaped reserved characters in %q", out)
	}
}
