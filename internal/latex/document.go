package latex

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-qti2tex/internal/tex"
)

// DefaultMediaDir is the directory, relative to the output file, that image
// references resolve against.
const DefaultMediaDir = "media"

// Header carries the values placed in the document preamble and title block.
// Title and Author are literal text; Description and Instructions are LaTeX.
type Header struct {
	Title        string
	Author       string
	Description  string
	Instructions string
	MediaDir     string
	PrintAnswers bool
}

const preamble = `\documentclass[10pt,addpoints]{exam}
\usepackage{graphicx}
\usepackage{amsmath,amssymb}
\usepackage{enumitem}
\usepackage{longtable}
\usepackage{booktabs}
\usepackage[margin=1in]{geometry}
`

// WriteHeader writes everything up to and including \begin{questions}.
func WriteHeader(w io.Writer, h Header) error {
	mediaDir := strings.Trim(strings.TrimSpace(h.MediaDir), "/")
	if mediaDir == "" {
		mediaDir = DefaultMediaDir
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString(`\graphicspath{{` + mediaDir + `/}}` + "\n")
	if h.PrintAnswers {
		b.WriteString(`\printanswers` + "\n")
	}
	b.WriteString(`
\providecommand{\tightlist}{%
    \setlength{\itemsep}{0pt}\setlength{\parskip}{0pt}}
\date{}
\begin{document}
\begin{center}
  Name:\ \rule{1.5in}{0.4pt}\hfill ID:\ \rule{1.5in}{0.4pt}

`)
	b.WriteString(`  {\Large ` + tex.Escape(strings.TrimSpace(h.Title)) + `}\\[4pt]` + "\n")
	if author := strings.TrimSpace(h.Author); author != "" {
		b.WriteString(`  ` + tex.Escape(author) + `\\[4pt]` + "\n")
	}
	b.WriteString(`\end{center}
\vspace{0.5cm}
`)
	b.WriteString(strings.TrimSpace(h.Description) + "\n")
	if instructions := strings.TrimSpace(h.Instructions); instructions != "" {
		b.WriteString("\n" + instructions + "\n")
	}
	b.WriteString("\n" + `\begin{questions}` + "\n\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// WriteFooter closes the question list and the document.
func WriteFooter(w io.Writer) error {
	if _, err := io.WriteString(w, `\end{questions}`+"\n"+`\end{document}`+"\n"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}
