// Package markdown renders Markdown item bodies and exam header files to HTML
// with goldmark, and reads the YAML front matter of header files.
package markdown
