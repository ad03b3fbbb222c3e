// Package frontmatter reads and extends the YAML header of a documentation page.
//
// A page starts with a header delimited by "---" lines:
//
//	---
//	title: vkCmdDraw
//	type: protos
//	---
//
// Inject splices new "key: value" lines directly after the opening delimiter and
// leaves every existing line where it was.
package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/vkdoc/errors"
)

// Delimiter opens and closes the header
const Delimiter = "---"

// Well-known header keys
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyType        = "type"
	KeyParent      = "parent"
)

// ErrMalformed marks a header that is not a YAML mapping
var ErrMalformed = errors.New("malformed front-matter")

// Entry is one header line to inject
type Entry struct {
	Key   string
	Value string
}

// Split separates the header from the body. The header excludes both delimiter
// lines; ok is false when text has no complete header.
func Split(text string) (header, body string, ok bool) {
	rest, found := cutDelimiterLine(text)
	if !found {
		return "", text, false
	}

	offset := 0
	for offset <= len(rest) {
		end := strings.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if strings.TrimRight(line, " \t\r") == Delimiter {
			header = rest[:offset]
			if end < 0 {
				return header, "", true
			}
			return header, rest[offset+end+1:], true
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return "", text, false
}

// cutDelimiterLine strips an opening "---" line
func cutDelimiterLine(text string) (string, bool) {
	line, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimRight(line, " \t\r") != Delimiter {
		return text, false
	}
	return rest, true
}

// Header is a parsed page header. Keys keeps the document order.
type Header struct {
	Keys   []string
	Values map[string]string
}

// Get returns the scalar value of key
func (h *Header) Get(key string) (string, bool) {
	v, ok := h.Values[key]
	return v, ok
}

// List returns a comma-separated value of key as trimmed, non-empty items
func (h *Header) List(key string) []string {
	var items []string
	for _, item := range strings.Split(h.Values[key], ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Has reports whether key is present
func (h *Header) Has(key string) bool {
	_, ok := h.Values[key]
	return ok
}

// Parse decodes the header of text. A page without a header yields an empty Header.
// Non-scalar values (lists, maps) are kept as their YAML text.
func Parse(text string) (*Header, error) {
	h := &Header{Values: map[string]string{}}
	raw, _, ok := Split(text)
	if !ok || strings.TrimSpace(raw) == "" {
		return h, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to parse front-matter"), ErrMalformed)
	}
	if len(doc.Content) == 0 {
		return h, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Mark(errors.Newf("front-matter is a %s, not a mapping", kindName(root.Kind)), ErrMalformed)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			out, err := yaml.Marshal(value)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to re-encode front-matter key %q", key)
			}
			h.Values[key] = strings.TrimSpace(string(out))
		} else {
			h.Values[key] = value.Value
		}
		h.Keys = append(h.Keys, key)
	}
	return h, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "document"
}

// Title returns the page's title field
func Title(text string) (string, bool) {
	h, err := Parse(text)
	if err != nil {
		return "", false
	}
	title, ok := h.Get(KeyTitle)
	return title, ok && title != ""
}

// Line encodes one "key: value" header line, quoting the value when YAML needs it
func Line(e Entry) (string, error) {
	node := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: e.Key},
			{Kind: yaml.ScalarNode, Value: e.Value},
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", errors.Wrapf(err, "failed to encode front-matter key %q", e.Key)
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to encode front-matter key %q", e.Key)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Inject adds entries to the header of text and reports whether text changed.
// Keys already in the header, and repeats within entries, are skipped. A page
// without a header gets a new one.
func Inject(text string, entries []Entry) (string, bool, error) {
	h, err := Parse(text)
	if err != nil {
		return text, false, err
	}

	seen := make(map[string]bool, len(entries))
	var lines []string
	for _, e := range entries {
		if e.Key == "" || h.Has(e.Key) || seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		line, err := Line(e)
		if err != nil {
			return text, false, err
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return text, false, nil
	}

	block := strings.Join(lines, "\n") + "\n"
	if rest, ok := cutDelimiterLine(text); ok {
		if _, _, complete := Split(text); complete {
			return Delimiter + "\n" + block + rest, true, nil
		}
	}
	return Delimiter + "\n" + block + Delimiter + "\n" + text, true, nil
}
