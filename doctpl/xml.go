package doctpl

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmptyTemplate is returned when the source holds no root element.
var ErrEmptyTemplate = errors.New("doctpl: template has no root element")

// ParseXML reads an XML template and returns its root node.
func ParseXML(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("doctpl: parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Kind: ElementNode, Name: strings.ToLower(t.Name.Local)}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: strings.ToLower(a.Name.Local), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("doctpl: parsing XML: more than one root element")
				}
				root = n
			} else {
				stack[len(stack)-1].appendChild(n)
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		case xml.EndElement:
			n := stack[len(stack)-1]
			n.collapse()
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, ErrEmptyTemplate
	}
	return root, nil
}

// ParseXMLBytes is ParseXML over a byte slice.
func ParseXMLBytes(data []byte) (*Node, error) {
	return ParseXML(bytes.NewReader(data))
}

// LoadFile reads a template file. Files ending in .json are read as JSON,
// everything else as XML.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("doctpl: %w", err)
	}
	if strings.EqualFold(extension(path), ".json") {
		return ParseJSON(data)
	}
	return ParseXMLBytes(data)
}

func extension(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || strings.ContainsAny(path[i:], `/\`) {
		return ""
	}
	return path[i:]
}
