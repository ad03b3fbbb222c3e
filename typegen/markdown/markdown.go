// Package markdown embeds rendered blocks in documentation pages as a
// `::code-group` container with one fenced section per syntax.
package markdown

import (
	"strings"

	"github.com/teranos/vkdoc/typegen"
)

const (
	groupOpen  = "::code-group"
	groupClose = "::"
	fence      = "```"
)

// Render returns the markdown for b:
//
//	::code-group
//	```c [C]
//	...
//	```
//	```rs [Rust]
//	...
//	```
//	::
func Render(b *typegen.Block) string {
	var sb strings.Builder
	sb.WriteString(groupOpen + "\n")
	for _, s := range b.Sections {
		sb.WriteString(fence + s.Language + " [" + s.Label + "]\n")
		for _, line := range s.Lines {
			sb.WriteString(line + "\n")
		}
		sb.WriteString(fence + "\n")
	}
	sb.WriteString(groupClose)
	return sb.String()
}
