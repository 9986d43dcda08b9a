package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlNode is a generic element tree. Project files carry far more elements
// and attributes than the converter understands, and every one of them has
// to be visited so unknown names can be reported.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

// Name returns the local element name.
func (n *xmlNode) Name() string {
	return n.XMLName.Local
}

// Attr returns the value of the named attribute.
func (n *xmlNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// Value returns the trimmed character data of the element.
func (n *xmlNode) Value() string {
	return strings.TrimSpace(n.Text)
}

// Attributes returns the attributes except namespace declarations.
func (n *xmlNode) Attributes() []xml.Attr {
	out := make([]xml.Attr, 0, len(n.Attrs))
	for _, a := range n.Attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// decodeXML reads a whole document. Visual Studio 2003-2008 write
// Windows-1252 encoded files, hence the charset reader.
func decodeXML(r io.Reader) (*xmlNode, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var root xmlNode
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// readXMLFile decodes path, converting syntax errors into a ParseError.
func readXMLFile(path string) (*xmlNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{File: path, Message: fmt.Sprintf("cannot open file: %v", err)}
	}
	defer f.Close()

	root, err := decodeXML(f)
	if err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{
				File:    path,
				Line:    syntaxErr.Line,
				Message: fmt.Sprintf("XML syntax error: %v", syntaxErr.Msg),
			}
		}
		return nil, &ParseError{File: path, Message: fmt.Sprintf("failed to parse XML: %v", err)}
	}
	return root, nil
}

// boolValue interprets Visual Studio boolean spellings.
func boolValue(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// splitList splits s at any of the separator characters, trimming entries
// and dropping empty ones.
func splitList(s, seps string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
