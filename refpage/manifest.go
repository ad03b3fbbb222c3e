package refpage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/frontmatter"
)

// ManifestName is the file the manifest is written to, next to the pages
const ManifestName = "index.json"

// Entry describes one converted page
type Entry struct {
	ID     string   `json:"id"`
	Parent []string `json:"parent,omitempty"`
	Type   string   `json:"type,omitempty"`
}

// BuildManifest reads the pages directly inside dir. Every page must carry a
// header whose title equals its file name without extension.
func BuildManifest(dir, extension string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(errors.Wrapf(errors.ErrNotFound, "docs directory %s", dir),
				"set docs.dir or pass the directory as an argument")
		}
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), extension) {
			continue
		}
		path := filepath.Join(dir, f.Name())
		entry, err := readEntry(path, strings.TrimSuffix(f.Name(), extension))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readEntry(path, id string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "failed to read %s", path)
	}
	text := string(data)
	if _, _, ok := frontmatter.Split(text); !ok {
		return Entry{}, errors.Wrapf(errors.ErrUnexpectedShape, "%s has no front-matter", path)
	}
	header, err := frontmatter.Parse(text)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "%s", path)
	}

	title, _ := header.Get(frontmatter.KeyTitle)
	if title != id {
		return Entry{}, errors.WithHint(
			errors.Wrapf(errors.ErrUnexpectedShape, "%s: title %q does not match file name", path, title),
			"pages are named after the symbol in their title")
	}
	typ, _ := header.Get(frontmatter.KeyType)
	return Entry{ID: id, Parent: header.List(frontmatter.KeyParent), Type: typ}, nil
}

// WriteManifest writes entries as compact JSON to ManifestName in dir and
// returns the path written
func WriteManifest(dir string, entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode manifest")
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}
