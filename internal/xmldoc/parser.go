package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
)

// attrPrefix marks attribute keys when attributes are looked up like children
const attrPrefix = "@_"

// legacy single-byte encodings seen in vendor exports
var charsets = map[string]encoding.Encoding{
	"windows-1254": charmap.Windows1254,
	"cp1254":       charmap.Windows1254,
	"iso-8859-9":   charmap.ISO8859_9,
	"latin5":       charmap.ISO8859_9,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	// already transcoded by the byte-order-mark reader
	"utf-16":       encoding.Nop,
	"utf-16le":     encoding.Nop,
	"utf-16be":     encoding.Nop,
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, ok := charsets[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// ParseString parses XML text into a node tree rooted at the document element
func ParseString(text string) (*Node, error) {
	return Parse(strings.NewReader(text))
}

// ParseBytes parses raw XML bytes
func ParseBytes(data []byte) (*Node, error) {
	return Parse(bytes.NewReader(data))
}

// stripBOM drops a leading byte-order mark. UTF-16 input with a mark is
// transcoded to UTF-8; anything else passes through byte for byte so legacy
// charsets still reach charsetReader untouched.
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))
}

// Parse reads a well-formed XML document and returns its root element. Any
// syntax error, a missing root or a second root element yields a *domain.ParseError.
// A leading byte-order mark is accepted.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(stripBOM(r))
	dec.Strict = true
	dec.CharsetReader = charsetReader

	var (
		root  *Node
		stack []*Node
		text  []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.ParseError{Msg: "invalid XML", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, &domain.ParseError{Msg: "invalid XML: multiple root elements"}
			}
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[attrPrefix+a.Name.Local] = a.Value
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			if len(stack) > 0 {
				text[len(text)-1].Write(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return nil, &domain.ParseError{Msg: "invalid XML: text outside root element"}
			}
		}
	}

	if root == nil {
		return nil, &domain.ParseError{Msg: "invalid XML: no root element"}
	}
	if len(stack) > 0 {
		return nil, &domain.ParseError{Msg: "invalid XML: unexpected end of document"}
	}
	return root, nil
}

// Attr returns an attribute value of n
func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[attrPrefix+name]
	return v, ok
}
