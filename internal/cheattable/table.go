// Package cheattable reads and writes Cheat Engine table documents.
//
// A table is arbitrary XML as far as this package is concerned: it is parsed
// into a generic ordered element tree so that unknown elements and their
// order survive a read/modify/write cycle untouched. The only structure the
// package knows about is the CheatEntry/ID/AssemblerScript convention used
// to locate scripts.
package cheattable

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// Element is one node of the document tree. Children keep document order;
// Text carries the character data of leaf elements.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Element `xml:",any"`
}

// Document is a parsed cheat table plus the path it came from.
type Document struct {
	Path string
	Root *Element
}

// ParseError reports a malformed table document with its file identity and
// location. Fatal to the whole run; there is no partial document processing.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a table document from raw bytes. path is used only for
// error reporting.
func Parse(path string, data []byte) (*Document, error) {
	var root Element
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		pe := &ParseError{Path: path, Err: err}
		if syn, ok := err.(*xml.SyntaxError); ok {
			pe.Line = syn.Line
		}
		return nil, pe
	}
	stripContainerText(&root)
	return &Document{Path: path, Root: &root}, nil
}

// ParseFile reads and decodes a table document from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// stripContainerText drops the indentation whitespace that the decoder
// accumulates as chardata on elements that have children. Leaving it in
// place would duplicate whitespace on every re-serialization.
func stripContainerText(el *Element) {
	if len(el.Children) > 0 && strings.TrimSpace(el.Text) == "" {
		el.Text = ""
	}
	for _, child := range el.Children {
		stripContainerText(child)
	}
}

// WriteFile serializes the document to path with an XML declaration,
// indented when pretty is set.
func WriteFile(doc *Document, path string, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = xml.MarshalIndent(doc.Root, "", "  ")
	} else {
		data, err = xml.Marshal(doc.Root)
	}
	if err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(data)
	buf.WriteByte('\n')

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ScriptEntry pairs a cheat entry ID with its AssemblerScript element.
type ScriptEntry struct {
	ID     string
	Script *Element
}

// ScriptEntries walks the document and collects, in document order, every
// CheatEntry that has both an ID and an AssemblerScript element. An empty
// (self-closing) AssemblerScript is eligible and carries the empty string.
func ScriptEntries(doc *Document) []ScriptEntry {
	var entries []ScriptEntry
	walk(doc.Root, func(el *Element) {
		if el.XMLName.Local != "CheatEntry" {
			return
		}
		id := childText(el, "ID")
		if id == "" {
			return
		}
		if script := findChild(el, "AssemblerScript"); script != nil {
			entries = append(entries, ScriptEntry{ID: id, Script: script})
		}
	})
	return entries
}

// ScriptIndex builds the ID-to-script map used for cross-document lookup.
// IDs are unique within a document; a duplicate keeps the first occurrence.
func ScriptIndex(doc *Document) map[string]*Element {
	index := make(map[string]*Element)
	for _, entry := range ScriptEntries(doc) {
		if _, ok := index[entry.ID]; !ok {
			index[entry.ID] = entry.Script
		}
	}
	return index
}

func walk(el *Element, visit func(*Element)) {
	visit(el)
	for _, child := range el.Children {
		walk(child, visit)
	}
}

func findChild(el *Element, name string) *Element {
	for _, child := range el.Children {
		if child.XMLName.Local == name {
			return child
		}
	}
	return nil
}

func childText(el *Element, name string) string {
	if child := findChild(el, name); child != nil {
		return strings.TrimSpace(child.Text)
	}
	return ""
}
