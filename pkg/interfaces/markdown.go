package interfaces

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Markdown reaches the converter through item materials declared as
// markdown and through the optional exam header file.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// FrontMatter models the metadata block at the top of an exam header file.
// Custom keeps any additional keys so schema validation can report them.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Author      string         `yaml:"author" json:"author"`
	Custom      map[string]any `yaml:",inline" json:"custom"`
	Raw         map[string]any `yaml:"-" json:"raw"`
}
