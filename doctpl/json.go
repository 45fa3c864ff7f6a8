package doctpl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON reads a JSON template. The document is an object with a single
// key naming the root element:
//
//	{"pdf": {
//	  "default": {"@format": "A4"},
//	  "section": [{"@id": "rows", "print_content": "row"}]
//	}}
//
// Keys starting with '@' are attributes, "#text" is the element text,
// arrays repeat the element and strings or numbers are scalars.
func ParseJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("doctpl: parsing JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("doctpl: parsing JSON: document must be an object")
	}

	var root *Node
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if root != nil {
			return nil, fmt.Errorf("doctpl: parsing JSON: more than one root element")
		}
		holder := &Node{Kind: ElementNode}
		if err := readValue(dec, holder, strings.ToLower(key)); err != nil {
			return nil, err
		}
		if len(holder.Children) != 1 || holder.Children[0].Kind != ElementNode {
			return nil, fmt.Errorf("doctpl: parsing JSON: root %q must be a single object", key)
		}
		root = holder.Children[0]
	}
	if root == nil {
		return nil, ErrEmptyTemplate
	}
	return root, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("doctpl: parsing JSON: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("doctpl: parsing JSON: unexpected token %v", tok)
	}
	return key, nil
}

// readValue reads the next value and attaches it to parent as name.
func readValue(dec *json.Decoder, parent *Node, name string) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("doctpl: parsing JSON: %w", err)
	}
	return attach(dec, tok, parent, name)
}

func attach(dec *json.Decoder, tok json.Token, parent *Node, name string) error {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := &Node{Kind: ElementNode, Name: name}
			parent.appendChild(n)
			if err := readObject(dec, n); err != nil {
				return err
			}
			n.collapse()
		case '[':
			for dec.More() {
				item, err := dec.Token()
				if err != nil {
					return fmt.Errorf("doctpl: parsing JSON: %w", err)
				}
				if err := attach(dec, item, parent, name); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil { // ']'
				return fmt.Errorf("doctpl: parsing JSON: %w", err)
			}
		default:
			return fmt.Errorf("doctpl: parsing JSON: unexpected %v", t)
		}
	case nil:
		// null adds nothing
	default:
		parent.appendChild(&Node{Kind: ScalarNode, Name: name, Text: scalarText(t)})
	}
	return nil
}

func readObject(dec *json.Decoder, n *Node) error {
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		switch {
		case strings.HasPrefix(key, "@"):
			tok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("doctpl: parsing JSON: %w", err)
			}
			if _, ok := tok.(json.Delim); ok {
				return fmt.Errorf("doctpl: parsing JSON: attribute %q of %s must be a scalar", key, n.Name)
			}
			n.Attrs = append(n.Attrs, Attr{Name: strings.ToLower(key[1:]), Value: scalarText(tok)})
		case key == "#text":
			tok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("doctpl: parsing JSON: %w", err)
			}
			if _, ok := tok.(json.Delim); ok {
				return fmt.Errorf("doctpl: parsing JSON: text of %s must be a scalar", n.Name)
			}
			n.Text = scalarText(tok)
		default:
			if err := readValue(dec, n, strings.ToLower(key)); err != nil {
				return err
			}
		}
	}
	if _, err := dec.Token(); err != nil { // '}'
		return fmt.Errorf("doctpl: parsing JSON: %w", err)
	}
	return nil
}

func scalarText(tok json.Token) string {
	switch v := tok.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "1"
		}
		return "0"
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
