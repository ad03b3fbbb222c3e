// Package registry holds the in-memory model of an API registry (types, commands,
// enumeration groups, features and extensions) and the read-only Index built from it.
//
// A Registry is produced once by a loader such as registry/vkxml and never mutated.
// Build derives lookup tables and the membership map from it; every renderer
// afterwards works against the Index only.
package registry

import "strings"

// Category is the category attribute of a <type> element
type Category string

const (
	CategoryNone        Category = ""
	CategoryStruct      Category = "struct"
	CategoryUnion       Category = "union"
	CategoryBitmask     Category = "bitmask"
	CategoryHandle      Category = "handle"
	CategoryEnum        Category = "enum"
	CategoryFuncPointer Category = "funcpointer"
	CategoryBaseType    Category = "basetype"
	CategoryDefine      Category = "define"
	CategoryInclude     Category = "include"
)

// Registry is a parsed API registry in document order
type Registry struct {
	Tags       []Tag
	Types      []Type
	Enums      []EnumGroup
	Commands   []Command
	Features   []Feature
	Extensions []Extension
}

// Tag is a registered vendor/author tag such as KHR or NVX
type Tag struct {
	Name    string
	Author  string
	Contact string
}

// Decl is one C declarator: the raw type spelling plus the declared name.
//
//	const char* const* ppEnabledLayerNames
//	RawType = "const char* const*", BaseType = "char", Name = "ppEnabledLayerNames"
type Decl struct {
	RawType  string   // full type text with qualifiers and pointers, whitespace normalized
	BaseType string   // text of the <type> markup
	Name     string   // text of the <name> markup
	Dims     []string // array lengths, outermost first: "4", "VK_UUID_SIZE"
	Bitfield string   // bit width for bitfield members, without ':'
}

// Suffix returns the declarator text that follows the name, e.g. "[3][4]" or ":24"
func (d Decl) Suffix() string {
	var sb strings.Builder
	for _, dim := range d.Dims {
		sb.WriteString("[" + dim + "]")
	}
	if d.Bitfield != "" {
		sb.WriteString(":" + d.Bitfield)
	}
	return sb.String()
}

// Member is one entry of a struct or union body: either a comment line or a declaration
type Member struct {
	Decl
	Comment         string // set for comment-only entries, Decl is empty
	TrailingComment string // <comment> inside the member
	API             string
	Values          string // e.g. VK_STRUCTURE_TYPE_APPLICATION_INFO
	Optional        string
	Len             string
}

// IsComment reports whether the member is a standalone comment line
func (m Member) IsComment() bool {
	return m.Name == "" && m.Comment != ""
}

// Param is a command or function-pointer parameter
type Param struct {
	Decl
	API      string
	Optional string
	Len      string
}

// Markup is one piece of a textual type body (basetype, bitmask, handle, define)
type Markup struct {
	Kind MarkupKind
	Text string
}

// MarkupKind discriminates Markup pieces
type MarkupKind int

const (
	MarkupText MarkupKind = iota
	MarkupType
	MarkupName
	MarkupEnum
	MarkupComment
)

// Code is a textual type body with its markup pieces in order
type Code struct {
	Markup []Markup
}

// Text returns the C text of the body, markup included
func (c *Code) Text() string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	for _, m := range c.Markup {
		if m.Kind == MarkupComment {
			continue
		}
		sb.WriteString(m.Text)
	}
	return sb.String()
}

// First returns the text of the first markup piece of the given kind
func (c *Code) First(kind MarkupKind) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, m := range c.Markup {
		if m.Kind == kind {
			return m.Text, true
		}
	}
	return "", false
}

// Count returns how many markup pieces of the given kind the body has
func (c *Code) Count(kind MarkupKind) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, m := range c.Markup {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Type is a <type> element
type Type struct {
	Name      string
	Category  Category
	Alias     string // set for alias-only types
	API       string
	Requires  string
	BitValues string // bitmask: the FlagBits group providing values
	Parent    string // handle: parent handle
	Comment   string

	Members []Member // struct, union
	Code    *Code    // textual body: bitmask, handle, basetype, define, legacy funcpointer

	// funcpointer in <proto>/<param> form
	Proto  *Decl
	Params []Param
}

// IsAlias reports whether the type is a pure alias
func (t *Type) IsAlias() bool { return t.Alias != "" }

// EnumGroupKind is the type attribute of an <enums> element
type EnumGroupKind string

const (
	EnumGroupEnum      EnumGroupKind = "enum"
	EnumGroupBitmask   EnumGroupKind = "bitmask"
	EnumGroupConstants EnumGroupKind = "constants"
)

// ConstantsGroup is the name of the group listing manifest constants
const ConstantsGroup = "API Constants"

// EnumGroup is an <enums> element
type EnumGroup struct {
	Name     string
	Kind     EnumGroupKind
	BitWidth int // 0 means the default 32
	Comment  string
	Items    []EnumItem
}

// Width returns the underlying width in bits
func (g *EnumGroup) Width() int {
	if g.BitWidth == 0 {
		return 32
	}
	return g.BitWidth
}

// Variants returns the enum entries of the group, skipping comments and unused ranges
func (g *EnumGroup) Variants() []*Enum {
	var out []*Enum
	for i := range g.Items {
		if g.Items[i].Kind == ItemEnum {
			out = append(out, &g.Items[i].Enum)
		}
	}
	return out
}

// ItemKind discriminates EnumItem
type ItemKind int

const (
	ItemEnum ItemKind = iota
	ItemUnused
	ItemComment
)

// EnumItem is one child of an <enums> element
type EnumItem struct {
	Kind    ItemKind
	Enum    Enum   // ItemEnum
	Comment string // ItemComment text, or ItemUnused comment
	Start   string // ItemUnused range
	End     string
}

// ValueKind discriminates how an Enum gets its value
type ValueKind int

const (
	ValueNone   ValueKind = iota // reserved name, no value
	ValueLiteral
	ValueBitpos
	ValueAlias
	ValueOffset // extension addition: offset from the extension block base
)

// Enum is an <enum> element, either inside a group or inside a require block
type Enum struct {
	Name       string
	Value      string // ValueLiteral
	Bitpos     uint   // ValueBitpos
	Alias      string // ValueAlias
	Offset     int    // ValueOffset
	ExtNumber  int    // ValueOffset: explicit extnumber, 0 means the enclosing extension's number
	Negative   bool   // ValueOffset: dir="-"
	Kind       ValueKind
	Type       string // constants: C type
	Deprecated string
	Comment    string
	API        string
	Extends    string // require blocks: the group this enum adds to
}

// RequireBlock is a <require> or <remove> element
type RequireBlock struct {
	API      string
	Depends  string
	Comment  string
	Types    []string
	Commands []string
	Enums    []Enum
}

// Feature is a <feature> element, a versioned API baseline
type Feature struct {
	API      string
	Name     string
	Number   string
	Requires []RequireBlock
	Removes  []RequireBlock
}

// Extension is an <extension> element
type Extension struct {
	Name      string
	Number    int
	Type      string // instance, device
	Supported string
	Author    string
	Requires  []RequireBlock
	Removes   []RequireBlock
}

// Command is a <command> element, either a definition or an alias
type Command struct {
	Name   string
	Alias  string
	API    string
	Proto  Decl // RawType is the return type
	Params []Param

	CmdBufferLevel string
	RenderPass     string
	VideoCoding    string
	Queues         string
	Tasks          string
	SuccessCodes   string
	ErrorCodes     string
}

// IsAlias reports whether the command is a pure alias
func (c *Command) IsAlias() bool { return c.Alias != "" }

// ListIncludes reports whether a comma-separated attribute list names item.
// An empty list includes everything.
func ListIncludes(list, item string) bool {
	if list == "" {
		return true
	}
	for _, v := range strings.Split(list, ",") {
		if strings.TrimSpace(v) == item {
			return true
		}
	}
	return false
}
