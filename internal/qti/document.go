package qti

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ErrNoRoot is returned for documents without a root element.
var ErrNoRoot = errors.New("qti: document has no root element")

// Skipped describes a section child that is not converted.
type Skipped struct {
	Tag    string
	Ident  string
	Reason string
}

// Document is the parsed view of one item-bank file.
type Document struct {
	Path string

	Title          string
	HasTitle       bool
	Description    string
	HasDescription bool

	Items   []*etree.Element
	Skipped []Skipped
}

// ReadDocument parses raw bytes into an element tree. Declared encodings other than
// UTF-8 are transcoded and HTML entity names are accepted.
func ReadDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Entity = xml.HTMLEntity
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, ErrNoRoot
	}
	return doc, nil
}

// ParseDocument reads a document and collects its title, description and
// items. Items are taken from every section of every assessment; the root
// may itself be the assessment.
func ParseDocument(path string, data []byte) (*Document, error) {
	tree, err := ReadDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	root := tree.Root()
	out := &Document{Path: path}

	if el := FirstChildAnyNamespace(root, "title"); el != nil {
		out.Title, out.HasTitle = TextOf(el), true
	}
	if el := FirstChildAnyNamespace(root, "description"); el != nil {
		out.Description, out.HasDescription = TextOf(el), true
	}

	assessments := []*etree.Element{root}
	if LocalName(root) != "assessment" {
		assessments = ChildrenAnyNamespace(root, "assessment")
	}
	for _, assessment := range assessments {
		out.collectSections(assessment)
	}
	return out, nil
}

func (d *Document) collectSections(assessment *etree.Element) {
	for _, section := range ChildrenAnyNamespace(assessment, "section") {
		for _, child := range section.ChildElements() {
			switch LocalName(child) {
			case "item":
				d.Items = append(d.Items, child)
			case "section":
				d.Skipped = append(d.Skipped, Skipped{
					Tag:    "section",
					Ident:  AttrAnyNamespace(child, "ident"),
					Reason: "nested section",
				})
			default:
				d.Skipped = append(d.Skipped, Skipped{
					Tag:    LocalName(child),
					Ident:  AttrAnyNamespace(child, "ident"),
					Reason: "unrecognized section child",
				})
			}
		}
	}
}
