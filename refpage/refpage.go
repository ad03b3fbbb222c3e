// Package refpage finds the reference pages embedded in the specification
// sources of a Vulkan-Docs checkout.
//
// A reference page is an open block introduced by an attribute line and
// delimited by "--" lines:
//
//	[open,refpage='vkCmdDraw',desc='Draw primitives',type='protos',xrefs='vkCmdDrawIndexed']
//	--
//	...
//	--
package refpage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/vkdoc/convert"
	"github.com/teranos/vkdoc/errors"
)

// SourceDirs are the checkout directories searched for reference pages
var SourceDirs = []string{"chapters", "appendices"}

// Extension marks specification source files
const Extension = ".adoc"

// unterminatedOK names the one page that may run to the end of its file
// without being reported.
const unterminatedOK = "provisional-headers"

// Refpage is one reference page block
type Refpage struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Desc    string   `json:"desc"`
	Alias   string   `json:"alias,omitempty"`
	Anchor  string   `json:"anchor,omitempty"`
	Xrefs   []string `json:"xrefs"`
	Content string   `json:"-"`
	Source  string   `json:"source"`
	Line    int      `json:"line"`
}

var openPattern = regexp.MustCompile(`^\[open *,(.+)\]$`)

// ParseOpenLine reads the attribute line of a reference page. ok is false for
// lines that do not open a block.
func ParseOpenLine(line string) (page Refpage, ok bool, err error) {
	m := openPattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return Refpage{}, false, nil
	}
	attrs, err := parseAttrs(m[1])
	if err != nil {
		return Refpage{}, false, err
	}
	for _, key := range []string{"refpage", "desc", "type"} {
		if attrs[key] == "" {
			return Refpage{}, false, errors.Wrapf(errors.ErrUnexpectedShape, "refpage block without %s", key)
		}
	}
	return Refpage{
		Name:   attrs["refpage"],
		Type:   attrs["type"],
		Desc:   attrs["desc"],
		Alias:  attrs["alias"],
		Anchor: attrs["anchor"],
		Xrefs:  strings.Fields(attrs["xrefs"]),
	}, true, nil
}

// parseAttrs splits key=value pairs. Values may be single-quoted, in which
// case they may contain commas.
func parseAttrs(s string) (map[string]string, error) {
	attrs := make(map[string]string)
	for s = strings.TrimSpace(s); s != ""; s = strings.TrimSpace(s) {
		key, rest, found := strings.Cut(s, "=")
		if !found {
			return nil, errors.Wrapf(errors.ErrUnexpectedShape, "attribute %q has no value", s)
		}
		key = strings.TrimSpace(key)
		rest = strings.TrimLeft(rest, " ")

		var value string
		if strings.HasPrefix(rest, "'") {
			end := strings.IndexByte(rest[1:], '\'')
			if end < 0 {
				return nil, errors.Wrapf(errors.ErrUnexpectedShape, "unterminated quote in attribute %s", key)
			}
			value, rest = rest[1:1+end], rest[2+end:]
			rest = strings.TrimLeft(rest, " ")
			if rest != "" && !strings.HasPrefix(rest, ",") {
				return nil, errors.Wrapf(errors.ErrUnexpectedShape, "unexpected text after attribute %s", key)
			}
		} else {
			value, rest, _ = strings.Cut(rest, ",")
			value = strings.TrimSpace(value)
			rest = "," + rest
		}
		attrs[key] = value
		s = strings.TrimPrefix(rest, ",")
	}
	return attrs, nil
}

// Parse extracts the reference pages of one source file. A block still open
// at the end of the file is returned as is.
func Parse(text, source string) ([]Refpage, error) {
	var (
		pages   []Refpage
		current *Refpage
		body    strings.Builder
		inBody  bool
	)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if current == nil {
			page, ok, err := ParseOpenLine(line)
			if err != nil {
				return nil, errors.Wrapf(err, "%s:%d", source, i+1)
			}
			if ok {
				page.Source, page.Line = source, i+1
				current = &page
			}
			continue
		}

		if line == "--" {
			if !inBody {
				inBody = true
				continue
			}
			current.Content = body.String()
			pages = append(pages, *current)
			current, inBody = nil, false
			body.Reset()
			continue
		}
		if inBody {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	if current != nil && current.Name != unterminatedOK {
		current.Content = body.String()
		pages = append(pages, *current)
	}
	return pages, nil
}

// Discover parses every source file under the reference page directories of
// a checkout, in lexical order. When a name repeats, the first page is kept.
func Discover(root string, log *zap.SugaredLogger) ([]Refpage, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var pages []Refpage
	seen := make(map[string]string)
	for _, sub := range SourceDirs {
		dir := filepath.Join(root, sub)
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.WithHint(errors.Wrapf(errors.ErrNotFound, "specification sources %s", dir),
				"run 'vkdoc fetch' or set source.dir to a Vulkan-Docs checkout")
		}
		files, err := convert.ListPages(dir, Extension)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", path)
			}
			found, err := Parse(string(data), path)
			if err != nil {
				return nil, err
			}
			for _, p := range found {
				if first, dup := seen[p.Name]; dup {
					log.Warnw("duplicate reference page; keeping the first", "name", p.Name, "first", first, "duplicate", p.Source)
					continue
				}
				seen[p.Name] = p.Source
				pages = append(pages, p)
			}
		}
	}
	log.Debugw("reference pages discovered", "root", root, "count", len(pages))
	return pages, nil
}
