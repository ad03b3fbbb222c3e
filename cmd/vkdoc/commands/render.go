package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/display"
	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/frontmatter"
	"github.com/teranos/vkdoc/typegen"
	"github.com/teranos/vkdoc/typegen/markdown"
)

// RenderCmd prints the block one marker would be replaced with
var RenderCmd = &cobra.Command{
	Use:   "render <category> <name>",
	Short: "Print the rendered block for one symbol",
	Long: `Print the C and Rust code group that a marker for name would be replaced with.

category is a marker path segment: structs, flags, enums, protos, basetypes,
handles, defines or funcpointers.

Examples:
  vkdoc render structs VkExtent2D
  vkdoc render protos vkCmdDraw --attrs
  vkdoc render enums VkResult --json`,
	Args: cobra.ExactArgs(2),
	RunE: runRender,
}

func init() {
	RenderCmd.Flags().Bool("attrs", false, "Also print the front-matter lines the symbol contributes")
}

// renderResult is the JSON form of a rendered block
type renderResult struct {
	Category string              `json:"category"`
	Name     string              `json:"name"`
	Kind     string              `json:"kind"`
	Parent   string              `json:"parent,omitempty"`
	Sections map[string][]string `json:"sections"`
	Attrs    map[string]string   `json:"attrs,omitempty"`
	Markdown string              `json:"markdown"`
}

func runRender(cmd *cobra.Command, args []string) error {
	category, ok := typegen.ParseCategory(args[0])
	if !ok {
		names := make([]string, len(typegen.Categories))
		for i, c := range typegen.Categories {
			names[i] = string(c)
		}
		return errors.WithHint(errors.Newf("unknown category %q", args[0]),
			"use one of: "+strings.Join(names, ", "))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := loadIndex(cmd, cfg)
	if err != nil {
		return err
	}
	block, err := newSynthesizer(cfg, idx).Render(category, args[1])
	if err != nil {
		return err
	}
	text := markdown.Render(block)
	parent, _ := idx.Parents(args[1])

	if display.ShouldOutputJSON(cmd) {
		res := renderResult{
			Category: string(category),
			Name:     block.Name,
			Kind:     string(block.Decl.Kind),
			Parent:   parent,
			Sections: make(map[string][]string, len(block.Sections)),
			Markdown: text,
		}
		for _, s := range block.Sections {
			res.Sections[s.Language] = s.Lines
		}
		for _, a := range block.Attrs {
			if res.Attrs == nil {
				res.Attrs = make(map[string]string)
			}
			res.Attrs[a.Key] = a.Value
		}
		return display.WriteJSON(cmd.OutOrStdout(), res)
	}

	out := cmd.OutOrStdout()
	if attrs, _ := cmd.Flags().GetBool("attrs"); attrs {
		entries := make([]frontmatter.Entry, 0, len(block.Attrs)+1)
		for _, a := range block.Attrs {
			entries = append(entries, frontmatter.Entry{Key: a.Key, Value: a.Value})
		}
		if parent != "" {
			entries = append(entries, frontmatter.Entry{Key: frontmatter.KeyParent, Value: parent})
		}
		fmt.Fprintln(out, frontmatter.Delimiter)
		for _, e := range entries {
			line, err := frontmatter.Line(e)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, frontmatter.Delimiter)
	}
	fmt.Fprintln(out, text)
	return nil
}
