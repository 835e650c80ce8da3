package interfaces

import "context"

// RichTextConverter turns an HTML fragment into typeset markup. Converters
// may cross a process boundary, so failures are returned rather than
// swallowed and callers decide how to degrade.
type RichTextConverter interface {
	Convert(ctx context.Context, html string) (string, error)
}
