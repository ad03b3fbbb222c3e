package vkxml

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/teranos/vkdoc/errors"
)

// element is a generic XML element that keeps mixed content in order.
// vk.xml interleaves text and markup inside <type>, <member> and <param>,
// so struct-tag unmarshalling would lose the spacing and pointer text.
type element struct {
	name  string
	attrs map[string]string
	nodes []node
}

// node is either text or a child element
type node struct {
	text string
	elem *element
}

func parseTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	root := &element{name: "#document"}
	stack := []*element{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "malformed registry XML")
		}

		parent := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				e.attrs[a.Name.Local] = a.Value
			}
			parent.nodes = append(parent.nodes, node{elem: e})
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			parent.nodes = append(parent.nodes, node{text: string(t)})
		}
	}

	if len(stack) != 1 {
		return nil, errors.New("unterminated element in registry XML")
	}
	return root, nil
}

func (e *element) attr(key string) string {
	return e.attrs[key]
}

func (e *element) children(name string) []*element {
	var out []*element
	for _, n := range e.nodes {
		if n.elem != nil && (name == "" || n.elem.name == name) {
			out = append(out, n.elem)
		}
	}
	return out
}

func (e *element) child(name string) *element {
	for _, n := range e.nodes {
		if n.elem != nil && n.elem.name == name {
			return n.elem
		}
	}
	return nil
}

// text returns all descendant text in document order
func (e *element) text() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *element) writeText(sb *strings.Builder) {
	for _, n := range e.nodes {
		if n.elem != nil {
			n.elem.writeText(sb)
		} else {
			sb.WriteString(n.text)
		}
	}
}
