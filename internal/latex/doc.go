// Package latex renders classified items as exam-class questions and writes
// the surrounding document preamble and closing.
package latex
