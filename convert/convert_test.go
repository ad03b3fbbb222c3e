package convert

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/tools/txtar"

	"github.com/teranos/vkdoc/errors"
	vktest "github.com/teranos/vkdoc/internal/testing"
	"github.com/teranos/vkdoc/typegen"
	"github.com/teranos/vkdoc/typegen/c"
	"github.com/teranos/vkdoc/typegen/ident"
	"github.com/teranos/vkdoc/typegen/rust"
)

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	idx := vktest.CreateTestIndex(t)
	synth := typegen.NewSynthesizer(idx,
		ident.New(ident.WithVendorTags(idx.Tags()...)),
		typegen.WithPrinters(c.NewPrinter(), rust.NewPrinter()))
	return New(synth, WithLogger(zaptest.NewLogger(t).Sugar()))
}

func archiveFile(a *txtar.Archive, name string) (string, bool) {
	for _, f := range a.Files {
		if f.Name == name {
			return string(f.Data), true
		}
	}
	return "", false
}

func TestConvertGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	conv := newTestConverter(t)
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			a, err := txtar.ParseFile(file)
			require.NoError(t, err)
			input, ok := archiveFile(a, "input.md")
			require.True(t, ok, "archive needs input.md")
			want, ok := archiveFile(a, "output.md")
			require.True(t, ok, "archive needs output.md")

			res, err := conv.Convert(input)
			require.NoError(t, err)
			assert.Equal(t, want, res.Text)
			assert.True(t, res.Changed)

			skipped, _ := archiveFile(a, "skipped")
			assert.Equal(t, strings.Fields(skipped), nonNil(res.Skipped))

			// a converted page has nothing left to do
			again, err := conv.Convert(res.Text)
			require.NoError(t, err)
			assert.False(t, again.Changed)
			assert.Equal(t, res.Text, again.Text)
		})
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func TestConvertNoMarkers(t *testing.T) {
	conv := newTestConverter(t)
	page := "---\ntitle: VkNotIndexed\n---\n\nPlain text.\n"

	res, err := conv.Convert(page)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, page, res.Text)
	assert.Equal(t, "VkNotIndexed", res.Title)
	assert.Zero(t, res.Rendered)
}

func TestConvertMalformedHeader(t *testing.T) {
	conv := newTestConverter(t)
	header := "---\ntitle: vkCmdDraw\ndescription: Draw primitives: the basics\n---\n"
	page := header + "\n[{generated}/api/protos/vkCmdDraw.adoc]({generated}/api/protos/vkCmdDraw.adoc)\n"

	res, err := conv.Convert(page)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.Rendered)
	assert.NotEmpty(t, res.Entries)
	assert.True(t, strings.HasPrefix(res.Text, header))
	assert.Contains(t, res.Text, "pub fn cmd_draw(")
	assert.NotContains(t, res.Text, "cmd_buf_level:")
}

func TestConvertMarkerMismatch(t *testing.T) {
	conv := newTestConverter(t)
	page := "[{generated}/api/structs/VkExtent2D.adoc]({generated}/api/structs/VkOffset2D.adoc)\n"

	_, err := conv.Convert(page)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMarkerMismatch))
	assert.True(t, errors.IsFatal(err))
}

func TestConvertMissingSymbol(t *testing.T) {
	conv := newTestConverter(t)
	page := "[{generated}/api/structs/VkMissing.adoc]({generated}/api/structs/VkMissing.adoc)\n"

	_, err := conv.Convert(page)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "/api/structs/VkMissing.adoc")
}

func TestParseMarker(t *testing.T) {
	conv := newTestConverter(t)

	tests := []struct {
		name     string
		first    string
		second   string
		known    bool
		category typegen.Category
		symbol   string
	}{
		{"struct", "/api/structs/VkExtent2D.adoc", "/api/structs/VkExtent2D.adoc", true, typegen.CategoryStructs, "VkExtent2D"},
		{"escaped", `/api/enums/VK\_WHOLE\_SIZE.adoc`, "/api/enums/VK_WHOLE_SIZE.adoc", true, typegen.CategoryEnums, "VK_WHOLE_SIZE"},
		{"both escaped", `/api/enums/VK\_TRUE.adoc`, `/api/enums/VK\_TRUE.adoc`, true, typegen.CategoryEnums, "VK_TRUE"},
		{"funcpointer", "/api/funcpointers/PFN_vkVoidFunction.adoc", "/api/funcpointers/PFN_vkVoidFunction.adoc", true, typegen.CategoryFuncPointers, "PFN_vkVoidFunction"},
		{"no extension", "/api/handles/VkInstance", "/api/handles/VkInstance", true, typegen.CategoryHandles, "VkInstance"},
		{"unknown category", "/api/validity/vkCmdDraw.adoc", "/api/validity/vkCmdDraw.adoc", false, "", ""},
		{"outside api", "/validity/protos/vkCmdDraw.adoc", "/validity/protos/vkCmdDraw.adoc", false, "", ""},
		{"no symbol", "/api/structs/", "/api/structs/", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok, err := conv.ParseMarker("text", tt.first, tt.second)
			require.NoError(t, err)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.category, m.Category)
			assert.Equal(t, tt.symbol, m.Symbol)
		})
	}
}

func TestMarkersDeduplicates(t *testing.T) {
	conv := newTestConverter(t)
	marker := "[{generated}/api/flags/VkAccessFlags.adoc]({generated}/api/flags/VkAccessFlags.adoc)"
	other := "[{generated}/api/other/X.adoc]({generated}/api/other/X.adoc)"

	known, unknown, err := conv.Markers(marker + "\n" + other + "\n" + marker + "\n" + other)
	require.NoError(t, err)
	require.Len(t, known, 1)
	assert.Equal(t, marker, known[0].Text)
	require.Len(t, unknown, 1)
	assert.Equal(t, "/api/other/X.adoc", unknown[0].Path)
}

func TestWithSourceExtension(t *testing.T) {
	idx := vktest.CreateTestIndex(t)
	conv := New(typegen.NewSynthesizer(idx, ident.New()), WithSourceExtension(".txt"))

	m, ok, err := conv.ParseMarker("text", "/api/protos/vkCmdDraw.txt", "/api/protos/vkCmdDraw.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "vkCmdDraw", m.Symbol)
}
