// Package exam assembles an exam-class LaTeX document from a directory of
// QTI item banks.
//
// A conversion discovers item documents, copies media next to the output,
// parses every document, renders each item in file order and commits the
// finished document in one write.
package exam
