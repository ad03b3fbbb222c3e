// Package typegen synthesizes paired declarations for registry symbols.
//
// The Synthesizer turns a symbol into a Decl, a syntax-neutral description of
// what to declare. Printers (typegen/c, typegen/rust) turn a Decl into lines of
// one concrete syntax, and a Block carries the printed sections together with
// any front-matter attributes the symbol contributes to its page.
package typegen

import "fmt"

// Category is the marker path segment selecting a rendering rule
type Category string

const (
	CategoryStructs      Category = "structs"
	CategoryFlags        Category = "flags"
	CategoryEnums        Category = "enums"
	CategoryProtos       Category = "protos"
	CategoryBaseTypes    Category = "basetypes"
	CategoryHandles      Category = "handles"
	CategoryDefines      Category = "defines"
	CategoryFuncPointers Category = "funcpointers"
)

// Categories lists every category in marker-table order
var Categories = []Category{
	CategoryStructs, CategoryFlags, CategoryEnums, CategoryProtos,
	CategoryBaseTypes, CategoryHandles, CategoryDefines, CategoryFuncPointers,
}

// ParseCategory reports whether s names a known category
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// DeclKind discriminates Decl
type DeclKind string

const (
	KindStruct      DeclKind = "struct"
	KindUnion       DeclKind = "union"
	KindAlias       DeclKind = "alias"
	KindBitmask     DeclKind = "bitmask"
	KindEnum        DeclKind = "enum"
	KindConstant    DeclKind = "constant"
	KindCommand     DeclKind = "command"
	KindHandle      DeclKind = "handle"
	KindBaseType    DeclKind = "basetype"
	KindDefine      DeclKind = "define"
	KindFuncPointer DeclKind = "funcpointer"
)

// Decl is one symbol ready for printing
type Decl struct {
	Kind DeclKind
	// Name is the requested name; for a command alias it is the alias, not the definition
	Name string
	// Target is the aliased name (KindAlias, aliased KindConstant)
	Target string

	// Fields are struct members or command/funcpointer parameters in declaration order
	Fields []Field
	// Return is the raw C return type (KindCommand, KindFuncPointer)
	Return string

	Variants []Variant // KindEnum
	Bitmask  bool      // KindEnum: the group is a set of bit flags
	Width    int       // KindBitmask, KindEnum: 32 or 64

	// Value is the literal value (KindConstant, simple KindDefine)
	Value string
	// Base is the raw C type a basetype is a typedef of; empty for opaque types
	Base string

	// Code is the C text reproduced verbatim (bitmask, handle, basetype, define, legacy funcpointer)
	Code string

	Dispatchable bool // KindHandle

	Attrs []Attr // KindCommand
}

// Field is a member or parameter, or a standalone comment line when Name is empty
type Field struct {
	Comment  string
	Type     string // raw C type, e.g. "const char* const*"
	Name     string
	Dims     []string
	Bitfield string
	Trailing string
}

// IsComment reports whether the field is only a comment line
func (f Field) IsComment() bool {
	return f.Name == ""
}

// Suffix returns the C declarator suffix: array lengths or bitfield width
func (f Field) Suffix() string {
	var s string
	for _, d := range f.Dims {
		s += "[" + d + "]"
	}
	if f.Bitfield != "" {
		s += ":" + f.Bitfield
	}
	return s
}

// ValueKind discriminates how a variant gets its value
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueLiteral
	ValueBitpos
	ValueAlias
)

// Variant is one enumeration entry, or a comment line when Name is empty
type Variant struct {
	Comment string

	Name  string // C name
	Ident string // normalized identifier, empty for deprecated and reserved entries

	Kind       ValueKind
	Value      string // ValueLiteral
	Bitpos     uint   // ValueBitpos
	Alias      string // ValueAlias: C name of the sibling
	AliasIdent string // ValueAlias: normalized identifier of the sibling

	Deprecated bool
	Note       string // registry comment attribute
}

// BitValue formats a ValueBitpos variant as 0x followed by at least eight hex digits
func (v Variant) BitValue() string {
	return fmt.Sprintf("0x%08x", uint64(1)<<v.Bitpos)
}

// IsComment reports whether the variant is only a comment line
func (v Variant) IsComment() bool {
	return v.Name == ""
}

// Attr is a front-matter key/value pair contributed by a symbol
type Attr struct {
	Key   string
	Value string
}

// Front-matter keys contributed by commands
const (
	AttrCmdBufLevel        = "cmd_buf_level"
	AttrRenderPassScope    = "render_pass_scope"
	AttrVideoCodingScope   = "video_coding_scope"
	AttrSupportedQueueType = "supported_queue_types"
	AttrTasks              = "tasks"
)

// Section is one printed syntax of a Block
type Section struct {
	Language string // fence info string: "c", "rs"
	Label    string // tab label: "C", "Rust"
	Lines    []string
}

// Block is a rendered symbol: one Section per printer plus front-matter attributes
type Block struct {
	Category Category
	Name     string
	Decl     *Decl
	Sections []Section
	Attrs    []Attr
}

// Printer renders a Decl in one syntax
type Printer interface {
	Language() string
	Label() string
	Print(d *Decl) ([]string, error)
}
