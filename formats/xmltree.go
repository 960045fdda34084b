package formats

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// element is a parsed XML element addressed by local name only. Agencies
// nest and prefix the same elements differently, so lookups search all
// descendants instead of following a fixed path. Methods are nil-safe so
// optional elements can be chained.
type element struct {
	name     string
	text     strings.Builder
	children []*element
}

func parseXML(content []byte) (*element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	// agencies declare ISO-8859-1, windows-1252 and the like
	decoder.CharsetReader = charset.NewReaderLabel

	document := &element{name: "#document"}
	stack := []*element{document}
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse XML")
		}

		switch t := token.(type) {
		case xml.StartElement:
			child := &element{name: t.Name.Local}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, child)
			stack = append(stack, child)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		}
	}
	if len(document.children) == 0 {
		return nil, errors.New("parse XML: no root element")
	}
	return document, nil
}

// first returns the first descendant with the given local name, depth first
func (e *element) first(name string) *element {
	if e == nil {
		return nil
	}
	for _, child := range e.children {
		if child.name == name {
			return child
		}
		if found := child.first(name); found != nil {
			return found
		}
	}
	return nil
}

// all returns every descendant with the given local name, in document order
func (e *element) all(name string) []*element {
	if e == nil {
		return nil
	}
	var found []*element
	for _, child := range e.children {
		if child.name == name {
			found = append(found, child)
		}
		found = append(found, child.all(name)...)
	}
	return found
}

// path follows first() through successive local names
func (e *element) path(names ...string) *element {
	for _, name := range names {
		e = e.first(name)
	}
	return e
}

// value returns the trimmed text content of the element and its descendants
func (e *element) value() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	e.collectText(&b)
	return strings.TrimSpace(b.String())
}

func (e *element) collectText(b *strings.Builder) {
	b.WriteString(e.text.String())
	for _, child := range e.children {
		child.collectText(b)
	}
}

// optionalValue returns nil when the element is absent
func (e *element) optionalValue() *string {
	if e == nil {
		return nil
	}
	v := e.value()
	return &v
}
