// Package doctpl loads report templates into a generic ordered tree.
//
// A template is authored in XML or JSON. Both load into the same Node tree:
//
//	<pdf>
//	  <default format="A4" orientation="P" unit="mm"/>
//	  <content id="row">
//	    <box x1="10" y1="20" x2="100" y2="26">{name}</box>
//	  </content>
//	  <section id="rows" y_start="20" row_height="6" y_end="270">
//	    <print_content>row</print_content>
//	  </section>
//	</pdf>
//
// Element and attribute names are lowercased on load. An element with no
// attributes and no children but some text collapses to a scalar, so
// <x>v</x> and x="v" read the same through Node.Value.
package doctpl

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tells scalars from elements.
type Kind int

const (
	// ScalarNode is a leaf holding only Text.
	ScalarNode Kind = iota
	// ElementNode has attributes, children or both.
	ElementNode
)

func (k Kind) String() string {
	if k == ScalarNode {
		return "scalar"
	}
	return "element"
}

// Attr is one attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is a template tree node.
type Node struct {
	Kind     Kind
	Name     string
	Index    int // ordinal among same-named siblings, starting at 0
	Text     string
	Attrs    []Attr
	Children []*Node
}

// Key returns the ordinal key "name.N" used in error messages.
func (n *Node) Key() string {
	return fmt.Sprintf("%s.%d", n.Name, n.Index)
}

// IsScalar reports whether n is a collapsed leaf.
func (n *Node) IsScalar() bool { return n.Kind == ScalarNode }

// Attr returns the attribute called name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Value looks up keys, a pipe-separated list of aliases such as
// "align|textalign". For each alias in turn it checks the attributes, then
// scalar children, and for "value" the node's own text.
func (n *Node) Value(keys string) (string, bool) {
	for _, key := range strings.Split(keys, "|") {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if v, ok := n.Attr(key); ok {
			return v, true
		}
		for _, c := range n.Children {
			if c.Name == key && c.Kind == ScalarNode {
				return c.Text, true
			}
		}
		if key == "value" && n.Text != "" {
			return n.Text, true
		}
	}
	return "", false
}

// Has reports whether any alias in keys is present.
func (n *Node) Has(keys string) bool {
	_, ok := n.Value(keys)
	return ok
}

// String returns Value(keys) or def when absent.
func (n *Node) String(keys, def string) string {
	if v, ok := n.Value(keys); ok {
		return v
	}
	return def
}

// Float returns Value(keys) parsed as a number, or def when absent or
// not numeric.
func (n *Node) Float(keys string, def float64) float64 {
	v, ok := n.Value(keys)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Int is Float truncated to an int.
func (n *Node) Int(keys string, def int) int {
	return int(n.Float(keys, float64(def)))
}

// Bool returns Value(keys) read as a flag. "1", "true", "yes" and "on"
// are true.
func (n *Node) Bool(keys string, def bool) bool {
	v, ok := n.Value(keys)
	if !ok {
		return def
	}
	return ParseBool(v)
}

// ParseBool reads a template flag.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// Child returns the first child called name, element or scalar.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child called name, in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// AttrNames lists the attribute names and the names of scalar children.
// The engine checks them against the names an element accepts.
func (n *Node) AttrNames() []string {
	out := make([]string, 0, len(n.Attrs))
	for _, a := range n.Attrs {
		out = append(out, a.Name)
	}
	for _, c := range n.Children {
		if c.Kind == ScalarNode {
			out = append(out, c.Name)
		}
	}
	return out
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// appendChild sets the sibling ordinal and links c under n.
func (n *Node) appendChild(c *Node) {
	idx := 0
	for _, s := range n.Children {
		if s.Name == c.Name {
			idx++
		}
	}
	c.Index = idx
	n.Children = append(n.Children, c)
}

// collapse turns a bare text element into a scalar.
func (n *Node) collapse() {
	n.Text = strings.TrimSpace(n.Text)
	if n.Kind == ElementNode && len(n.Attrs) == 0 && len(n.Children) == 0 && n.Text != "" {
		n.Kind = ScalarNode
	}
}
