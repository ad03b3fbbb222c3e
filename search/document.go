// Package search indexes converted reference pages in SQLite.
//
// Every page becomes one document per top-level block: paragraphs, headings and
// code groups. Directive lines ("::code-group", "::") are dropped so the stored
// content is plain markdown.
package search

import (
	"strconv"
	"strings"

	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/frontmatter"
	"github.com/teranos/vkdoc/typegen"
)

// CommandKeys are the front-matter keys copied into Document.Command
var CommandKeys = []string{
	typegen.AttrCmdBufLevel,
	typegen.AttrRenderPassScope,
	typegen.AttrSupportedQueueType,
	typegen.AttrTasks,
	typegen.AttrVideoCodingScope,
}

// Document is one searchable block of a page
type Document struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type,omitempty"`
	Parents     []string          `json:"parent,omitempty"`
	Command     map[string]string `json:"command,omitempty"`
	Content     string            `json:"content"`
	Position    int               `json:"position"`
}

// ErrUntitled is returned by Split for a page without a title
var ErrUntitled = errors.New("page has no title")

// Split turns a page into documents with IDs "<title>-<position>"
func Split(page string) ([]Document, error) {
	header, err := frontmatter.Parse(page)
	if err != nil {
		return nil, err
	}
	title, _ := header.Get(frontmatter.KeyTitle)
	if title == "" {
		return nil, ErrUntitled
	}

	base := Document{Title: title}
	base.Description, _ = header.Get(frontmatter.KeyDescription)
	base.Type, _ = header.Get(frontmatter.KeyType)
	base.Parents = header.List(frontmatter.KeyParent)
	for _, key := range CommandKeys {
		if v, ok := header.Get(key); ok && v != "" {
			if base.Command == nil {
				base.Command = map[string]string{}
			}
			base.Command[key] = v
		}
	}

	_, body, ok := frontmatter.Split(page)
	if !ok {
		body = page
	}

	var docs []Document
	for i, block := range Blocks(body) {
		doc := base
		doc.ID = title + "-" + strconv.Itoa(i)
		doc.Position = i
		doc.Content = block
		docs = append(docs, doc)
	}
	return docs, nil
}

// Blocks splits markdown into top-level blocks on blank lines. Fenced code is
// kept whole; directive lines outside fences are removed.
func Blocks(body string) []string {
	var (
		blocks  []string
		current []string
		inFence bool
	)
	flush := func() {
		if text := strings.TrimSpace(strings.Join(current, "\n")); text != "" {
			blocks = append(blocks, text)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			current = append(current, line)
			continue
		}
		if inFence {
			current = append(current, line)
			continue
		}
		if trimmed == "" {
			flush()
			continue
		}
		if strings.HasPrefix(trimmed, "::") {
			continue
		}
		if strings.HasSuffix(trimmed, "::") {
			line = strings.TrimSuffix(strings.TrimRight(line, " \t"), "::")
		}
		current = append(current, line)
	}
	flush()
	return blocks
}
