package qti

import (
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Texttype values recognised on mattext elements.
const (
	TextTypePlain = "text/plain"
	TextTypeHTML  = "text/html"
)

// Material is a rich-text fragment together with its declared texttype.
type Material struct {
	Text string
	Type string
}

// IsEmpty reports whether the material carries no text.
func (m Material) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == ""
}

// Choice is a selectable answer option.
type Choice struct {
	Ident string
	Material
}

// Metadata maps item metadata labels to values.
type Metadata map[string]string

// Lookup returns the value for label. Exact matches win; otherwise labels are
// compared case-insensitively in sorted order so the result is stable.
func (m Metadata) Lookup(label string) (string, bool) {
	if v, ok := m[label]; ok {
		return v, true
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, label) {
			return m[k], true
		}
	}
	return "", false
}

// CorrectSet holds the identifiers of the choices that award credit.
type CorrectSet map[string]struct{}

// Has reports whether ident is marked correct.
func (s CorrectSet) Has(ident string) bool {
	_, ok := s[ident]
	return ok
}

// Len returns the number of correct identifiers.
func (s CorrectSet) Len() int { return len(s) }

// Idents returns the identifiers sorted.
func (s CorrectSet) Idents() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Responses records which response declarations an item carries.
type Responses struct {
	Choice  bool
	Text    bool
	Numeric bool
}

// Item is the extracted view of one assessment item.
type Item struct {
	Ident     string
	Title     string
	Metadata  Metadata
	Stem      Material
	Choices   []Choice
	Correct   CorrectSet
	Responses Responses
}

// ParseItem extracts every field of an item element. It never fails; missing
// structure yields zero values.
func ParseItem(el *etree.Element) *Item {
	return &Item{
		Ident:    AttrAnyNamespace(el, "ident"),
		Title:    AttrAnyNamespace(el, "title"),
		Metadata: ExtractMetadata(el),
		Stem:     ExtractStem(el),
		Choices:  ExtractChoices(el),
		Correct:  ExtractCorrectIdentifiers(el),
		Responses: Responses{
			Choice:  len(FindAnyNamespace(el, "response_lid")) > 0,
			Text:    len(FindAnyNamespace(el, "response_str")) > 0,
			Numeric: len(FindAnyNamespace(el, "response_num")) > 0,
		},
	}
}

// ExtractMetadata collects label/value pairs from qtimetadatafield entries.
// Fields without a label are skipped and later labels overwrite earlier ones.
func ExtractMetadata(item *etree.Element) Metadata {
	meta := Metadata{}
	for _, field := range FindAnyNamespace(item, "qtimetadatafield") {
		label := TextOf(FirstAnyNamespace(field, "fieldlabel"))
		if label == "" {
			continue
		}
		meta[label] = TextOf(FirstAnyNamespace(field, "fieldentry"))
	}
	return meta
}

// ExtractStem returns the question text. Inside presentation the first
// material directly under it wins, then a material one grouping level down.
// Items without presentation fall back to the first mattext anywhere.
func ExtractStem(item *etree.Element) Material {
	pres := FirstAnyNamespace(item, "presentation")
	if pres == nil {
		return materialOf(FirstAnyNamespace(item, "mattext"))
	}
	if m, ok := firstMaterial(pres); ok {
		return m
	}
	for _, group := range pres.ChildElements() {
		if isResponse(group) {
			continue
		}
		if m, ok := firstMaterial(group); ok {
			return m
		}
	}
	return Material{}
}

func firstMaterial(parent *etree.Element) (Material, bool) {
	for _, mat := range ChildrenAnyNamespace(parent, "material") {
		if mt := FirstAnyNamespace(mat, "mattext"); mt != nil {
			return materialOf(mt), true
		}
	}
	return Material{}, false
}

func isResponse(el *etree.Element) bool {
	return strings.HasPrefix(LocalName(el), "response_")
}

// ExtractChoices returns the response labels of every choice interaction in
// document order.
func ExtractChoices(item *etree.Element) []Choice {
	var out []Choice
	for _, lid := range FindAnyNamespace(item, "response_lid") {
		for _, render := range FindAnyNamespace(lid, "render_choice") {
			for _, label := range FindAnyNamespace(render, "response_label") {
				out = append(out, Choice{
					Ident:    AttrAnyNamespace(label, "ident"),
					Material: materialOf(FirstAnyNamespace(label, "mattext")),
				})
			}
		}
	}
	return out
}

// ExtractCorrectIdentifiers returns the identifiers tested for equality by
// response conditions that award credit. Negated tests and feedback-only
// conditions do not mark a choice correct.
func ExtractCorrectIdentifiers(item *etree.Element) CorrectSet {
	set := CorrectSet{}
	for _, proc := range FindAnyNamespace(item, "resprocessing") {
		for _, cond := range FindAnyNamespace(proc, "respcondition") {
			if !awardsCredit(cond) {
				continue
			}
			for _, vars := range ChildrenAnyNamespace(cond, "conditionvar") {
				collectVarEqual(vars, set)
			}
		}
	}
	return set
}

func collectVarEqual(el *etree.Element, set CorrectSet) {
	for _, child := range el.ChildElements() {
		switch LocalName(child) {
		case "not":
		case "varequal":
			if v := TextOf(child); v != "" {
				set[v] = struct{}{}
			}
		default:
			collectVarEqual(child, set)
		}
	}
}

// awardsCredit is false for conditions that only display feedback and for
// conditions whose score assignments are all zero or negative.
func awardsCredit(cond *etree.Element) bool {
	setvars := FindAnyNamespace(cond, "setvar")
	if len(setvars) == 0 {
		return len(FindAnyNamespace(cond, "displayfeedback")) == 0
	}
	for _, sv := range setvars {
		v, err := strconv.ParseFloat(TextOf(sv), 64)
		if err != nil || v > 0 {
			return true
		}
	}
	return false
}

func materialOf(mattext *etree.Element) Material {
	if mattext == nil {
		return Material{}
	}
	return Material{
		Text: TextOf(mattext),
		Type: strings.ToLower(strings.TrimSpace(AttrAnyNamespace(mattext, "texttype"))),
	}
}
