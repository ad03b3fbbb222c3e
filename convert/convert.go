// Package convert replaces generation markers in documentation pages with
// rendered declaration blocks.
//
// A marker is a self-referencing link whose two halves carry the same path:
//
//	[{generated}/api/structs/VkExtent2D.adoc]({generated}/api/structs/VkExtent2D.adoc)
//
// The path's second segment selects the rendering rule and the last segment,
// minus the source extension, names the symbol.
package convert

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/frontmatter"
	"github.com/teranos/vkdoc/logger"
	"github.com/teranos/vkdoc/typegen"
	"github.com/teranos/vkdoc/typegen/markdown"
)

// DefaultSourceExtension is stripped from marker paths
const DefaultSourceExtension = ".adoc"

// markerPattern matches one generation marker; the groups are the two paths
var markerPattern = regexp.MustCompile(`\[\{generated\}([^\]]*)\]\(\{generated\}([^)]*)\)`)

const apiPrefix = "/api/"

// Marker is one parsed generation marker
type Marker struct {
	Text     string // literal marker text as it appears in the page
	Path     string // normalized path
	Category typegen.Category
	Symbol   string
}

// Result describes one conversion
type Result struct {
	Text    string
	Changed bool
	Title   string
	// Rendered counts distinct markers replaced
	Rendered int
	// Skipped lists the paths of markers left in place
	Skipped []string
	// Entries are the front-matter lines offered for injection
	Entries []frontmatter.Entry
}

// Converter applies the substitution to one page at a time. It keeps no
// per-page state and may be shared.
type Converter struct {
	synth     *typegen.Synthesizer
	extension string
	log       *zap.SugaredLogger
	warn      *rate.Sometimes
}

// Option configures a Converter
type Option func(*Converter)

// WithSourceExtension sets the extension stripped from marker paths
func WithSourceExtension(ext string) Option {
	return func(c *Converter) { c.extension = ext }
}

// WithLogger sets the logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Converter) { c.log = log }
}

// New returns a Converter rendering through synth
func New(synth *typegen.Synthesizer, opts ...Option) *Converter {
	c := &Converter{
		synth:     synth,
		extension: DefaultSourceExtension,
		log:       zap.NewNop().Sugar(),
		warn:      &rate.Sometimes{First: 5, Interval: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseMarker splits a marker match into category and symbol. Both paths are
// compared after turning "\_" into "_"; a difference is fatal. ok is false for
// a path outside the known categories.
func (c *Converter) ParseMarker(text, first, second string) (Marker, bool, error) {
	path := unescape(first)
	if other := unescape(second); other != path {
		return Marker{}, false, errors.Wrapf(errors.ErrMarkerMismatch, "%q and %q", path, other)
	}
	m := Marker{Text: text, Path: path}

	rest, found := strings.CutPrefix(path, apiPrefix)
	if !found {
		return m, false, nil
	}
	segment, file, found := strings.Cut(rest, "/")
	if !found || file == "" {
		return m, false, nil
	}
	category, known := typegen.ParseCategory(segment)
	if !known {
		return m, false, nil
	}
	m.Category = category
	m.Symbol = strings.TrimSuffix(file, c.extension)
	return m, true, nil
}

func unescape(path string) string {
	return strings.ReplaceAll(path, `\_`, "_")
}

// Markers returns the markers in text in order of first appearance, without repeats
func (c *Converter) Markers(text string) ([]Marker, []Marker, error) {
	var known, unknown []Marker
	seen := make(map[string]bool)
	for _, match := range markerPattern.FindAllStringSubmatch(text, -1) {
		if seen[match[0]] {
			continue
		}
		seen[match[0]] = true

		m, ok, err := c.ParseMarker(match[0], match[1], match[2])
		if err != nil {
			return nil, nil, err
		}
		if ok {
			known = append(known, m)
		} else {
			unknown = append(unknown, m)
		}
	}
	return known, unknown, nil
}

// Convert renders every marker in text. Unknown marker paths are logged and
// left in place; any other failure aborts the page and is returned.
func (c *Converter) Convert(text string) (*Result, error) {
	res := &Result{Text: text}
	known, unknown, err := c.Markers(text)
	if err != nil {
		return nil, err
	}

	for _, m := range unknown {
		res.Skipped = append(res.Skipped, m.Path)
		c.warn.Do(func() {
			c.log.Warnw("skipping marker with unknown path", logger.FieldMarker, m.Path)
		})
	}

	replacements := make([]string, 0, 2*len(known))
	for _, m := range known {
		block, err := c.synth.Render(m.Category, m.Symbol)
		if err != nil {
			return nil, errors.Wrapf(err, "marker %s", m.Path)
		}
		replacements = append(replacements, m.Text, markdown.Render(block))
		for _, a := range block.Attrs {
			res.Entries = append(res.Entries, frontmatter.Entry{Key: a.Key, Value: a.Value})
		}
		c.log.Debugw("rendered marker",
			logger.FieldMarker, m.Path,
			logger.FieldCategory, string(m.Category),
			logger.FieldSymbol, m.Symbol)
	}
	res.Rendered = len(known)

	if title, ok := frontmatter.Title(text); ok {
		res.Title = title
		if parents, ok := c.synth.Index().Parents(title); ok {
			res.Entries = append(res.Entries, frontmatter.Entry{Key: frontmatter.KeyParent, Value: parents})
		}
	} else {
		c.log.Debugw("page has no title; no parent metadata")
	}

	if len(replacements) > 0 {
		res.Text = strings.NewReplacer(replacements...).Replace(res.Text)
	}
	if len(res.Entries) > 0 {
		injected, _, err := frontmatter.Inject(res.Text, res.Entries)
		switch {
		case errors.Is(err, frontmatter.ErrMalformed):
			c.log.Warnw("front-matter does not parse; header left as is", "error", err)
		case err != nil:
			return nil, errors.Wrap(err, "front-matter")
		default:
			res.Text = injected
		}
	}
	res.Changed = res.Text != text
	return res, nil
}
