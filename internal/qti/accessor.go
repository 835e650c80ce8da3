package qti

import (
	"strings"

	"github.com/beevik/etree"
)

// LocalName returns the element tag without any namespace prefix.
func LocalName(el *etree.Element) string {
	if el == nil {
		return ""
	}
	tag := el.Tag
	if i := strings.LastIndexAny(tag, ":}"); i >= 0 {
		tag = tag[i+1:]
	}
	return tag
}

// FindAnyNamespace returns every descendant of el whose local name equals
// name, in document order. el itself is not considered.
func FindAnyNamespace(el *etree.Element, name string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(parent *etree.Element) {
		for _, child := range parent.ChildElements() {
			if LocalName(child) == name {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(el)
	return out
}

// FirstAnyNamespace returns the first descendant matching name, or nil.
func FirstAnyNamespace(el *etree.Element, name string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		if LocalName(child) == name {
			return child
		}
		if found := FirstAnyNamespace(child, name); found != nil {
			return found
		}
	}
	return nil
}

// ChildrenAnyNamespace returns the direct children of el whose local name
// equals name, in document order.
func ChildrenAnyNamespace(el *etree.Element, name string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if LocalName(child) == name {
			out = append(out, child)
		}
	}
	return out
}

// FirstChildAnyNamespace returns the first direct child matching name, or nil.
func FirstChildAnyNamespace(el *etree.Element, name string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		if LocalName(child) == name {
			return child
		}
	}
	return nil
}

// TextOf returns the trimmed content of el. Character data (including CDATA
// sections) is copied verbatim; inline child elements, as found in XHTML
// material, are serialised back to markup so no content is dropped.
func TextOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var b strings.Builder
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			b.WriteString(serialize(t))
		}
	}
	return strings.TrimSpace(b.String())
}

// AttrAnyNamespace returns the value of the attribute whose key equals name
// regardless of prefix, or "" when absent.
func AttrAnyNamespace(el *etree.Element, name string) string {
	if el == nil {
		return ""
	}
	for _, attr := range el.Attr {
		if attr.Key == name {
			return attr.Value
		}
	}
	return ""
}

func serialize(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}
