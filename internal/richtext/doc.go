// Package richtext converts HTML item material into LaTeX.
//
// Two converters satisfy interfaces.RichTextConverter: NativeConverter walks
// the parsed HTML tree in process, PandocConverter shells out to pandoc.
// Materials routes a fragment to the escaper, the Markdown renderer or a
// converter based on its declared texttype.
package richtext
