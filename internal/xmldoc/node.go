package xmldoc

import (
	"strconv"
	"strings"
)

// Node is one element of a parsed document. Leaves carry Text; repeated child
// elements stay in document order inside Children.
type Node struct {
	Name     string            `json:"name"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Child returns the first child with the given name, or nil
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every child with the given name in document order. An absent
// element yields an empty sequence and a single element a sequence of one.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return []*Node{}
	}
	out := make([]*Node, 0, 1)
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Value returns the trimmed text of the named child and whether it was present
func (n *Node) Value(name string) (string, bool) {
	c := n.Child(name)
	if c == nil {
		return "", false
	}
	return c.Text, true
}

// String returns the named child's text, or "" when absent
func (n *Node) String(name string) string {
	v, _ := n.Value(name)
	return v
}

// Number reports the node text as a number when it is one
func (n *Node) Number() (float64, bool) {
	if n == nil || n.Text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(n.Text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Float returns the named child as a number, or def when absent or not numeric
func (n *Node) Float(name string, def float64) float64 {
	if f, ok := n.Child(name).Number(); ok {
		return f
	}
	return def
}

// Int returns the named child as an integer, or def when absent or not numeric.
// Fractional values are truncated.
func (n *Node) Int(name string, def int) int {
	v, ok := n.Value(name)
	if !ok || v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return def
}

// Repeatable normalizes an optional repeated element into a sequence: nil
// becomes empty, a bare node becomes a sequence of one and a sequence is
// returned unchanged. Nil entries inside a sequence are dropped.
func Repeatable(v any) []*Node {
	switch t := v.(type) {
	case nil:
		return []*Node{}
	case *Node:
		if t == nil {
			return []*Node{}
		}
		return []*Node{t}
	case []*Node:
		out := make([]*Node, 0, len(t))
		for _, n := range t {
			if n != nil {
				out = append(out, n)
			}
		}
		return out
	}
	return []*Node{}
}
