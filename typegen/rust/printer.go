// Package rust prints declarations in Rust syntax against a `vk` namespace.
package rust

import (
	"fmt"
	"strings"

	"github.com/teranos/vkdoc/registry"
	"github.com/teranos/vkdoc/typegen"
	"github.com/teranos/vkdoc/typegen/util"
)

// TypeMapping defines how C primitive types map to Rust types
var TypeMapping = map[string]string{
	"void":     "std::ffi::c_void",
	"char":     "std::ffi::c_char",
	"int":      "i32",
	"float":    "f32",
	"double":   "f64",
	"size_t":   "usize",
	"uint8_t":  "u8",
	"uint16_t": "u16",
	"uint32_t": "u32",
	"uint64_t": "u64",
	"int8_t":   "i8",
	"int16_t":  "i16",
	"int32_t":  "i32",
	"int64_t":  "i64",
}

// Rust keywords that need raw identifier prefix (r#)
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
}

// toRustIdent converts an identifier to a valid Rust identifier
// Adds r# prefix for Rust keywords
func toRustIdent(s string) string {
	if rustKeywords[s] {
		return "r#" + s
	}
	return s
}

// Printer implements typegen.Printer for Rust
type Printer struct {
	prefix      string // "Vk"
	fnPrefix    string // "vk"
	constPrefix string // "VK_"
	types       *util.TypeConverterConfig
}

// Option configures a Printer
type Option func(*Printer)

// WithAPIPrefix sets the API's type-name prefix; the namespace, command and
// constant prefixes are derived from it ("Vk" -> vk::, vk, VK_)
func WithAPIPrefix(prefix string) Option {
	return func(p *Printer) {
		p.prefix = prefix
		p.fnPrefix = strings.ToLower(prefix)
		p.constPrefix = strings.ToUpper(prefix) + "_"
	}
}

// NewPrinter creates a new Rust printer
func NewPrinter(opts ...Option) *Printer {
	p := &Printer{}
	WithAPIPrefix("Vk")(p)
	for _, opt := range opts {
		opt(p)
	}
	p.types = &util.TypeConverterConfig{
		TypeMapping: TypeMapping,
		Prefix:      p.prefix,
		Namespace:   p.fnPrefix + "::",
		ConstPrefix: p.constPrefix,
		PointerFormat: func(pointee string, constPointee bool) string {
			if constPointee {
				return "*const " + pointee
			}
			return "*mut " + pointee
		},
		ArrayFormat: func(elem, length string) string {
			return fmt.Sprintf("[%s; %s]", elem, length)
		},
	}
	return p
}

// Language returns "rs"
func (p *Printer) Language() string {
	return "rs"
}

// Label returns "Rust"
func (p *Printer) Label() string {
	return "Rust"
}

// ConvertType translates a raw C type and its array lengths
func (p *Printer) ConvertType(raw string, dims []string) string {
	return util.ConvertRaw(raw, dims, p.types)
}

// typeName strips the API prefix from a declared name ("VkInstance" -> "Instance")
func (p *Printer) typeName(name string) string {
	if strings.HasPrefix(name, p.prefix) && len(name) > len(p.prefix) {
		return name[len(p.prefix):]
	}
	return name
}

// constName strips the constant prefix ("VK_UUID_SIZE" -> "UUID_SIZE")
func (p *Printer) constName(name string) string {
	if strings.HasPrefix(name, p.constPrefix) && len(name) > len(p.constPrefix) {
		return name[len(p.constPrefix):]
	}
	return name
}

// fnName converts a command name ("vkCmdDraw" -> "cmd_draw")
func (p *Printer) fnName(name string) string {
	return toRustIdent(util.ToSnakeCase(strings.TrimPrefix(name, p.fnPrefix)))
}

func fieldName(name string) string {
	return toRustIdent(util.ToSnakeCase(name))
}

// Print renders d as Rust
func (p *Printer) Print(d *typegen.Decl) ([]string, error) {
	switch d.Kind {
	case typegen.KindAlias:
		return []string{fmt.Sprintf("pub type %s = %s;", p.typeName(d.Name), p.ConvertType(d.Target, nil))}, nil
	case typegen.KindStruct, typegen.KindUnion:
		return p.printAggregate(d), nil
	case typegen.KindBitmask:
		return []string{fmt.Sprintf("pub struct %s(%s);", p.typeName(d.Name), unsignedOf(d.Width))}, nil
	case typegen.KindEnum:
		return p.printEnum(d), nil
	case typegen.KindConstant:
		return p.printConstant(d), nil
	case typegen.KindCommand:
		return p.printCommand(d), nil
	case typegen.KindHandle:
		repr := "u64"
		if d.Dispatchable {
			repr = "*mut std::ffi::c_void"
		}
		return []string{fmt.Sprintf("pub struct %s(%s);", p.typeName(d.Name), repr)}, nil
	case typegen.KindBaseType:
		if d.Base != "" {
			return []string{fmt.Sprintf("pub type %s = %s;", p.typeName(d.Name), p.ConvertType(d.Base, nil))}, nil
		}
		return []string{fmt.Sprintf("pub struct %s {", p.typeName(d.Name)), "    _private: [u8; 0],", "}"}, nil
	case typegen.KindDefine:
		if d.Value == "" {
			return []string{fmt.Sprintf("// %s is a preprocessor macro with no Rust equivalent", d.Name)}, nil
		}
		typ, value := ConvertLiteral(d.Value)
		return []string{fmt.Sprintf("pub const %s: %s = %s;", p.constName(d.Name), typ, value)}, nil
	case typegen.KindFuncPointer:
		return p.printFuncPointer(d), nil
	}
	return nil, registry.UnexpectedShape(registry.KindType, d.Name, "no Rust rule for "+string(d.Kind))
}

func unsignedOf(width int) string {
	if width == 64 {
		return "u64"
	}
	return "u32"
}

func (p *Printer) printAggregate(d *typegen.Decl) []string {
	keyword := "struct"
	if d.Kind == typegen.KindUnion {
		keyword = "union"
	}

	lines := []string{fmt.Sprintf("pub %s %s {", keyword, p.typeName(d.Name))}
	for _, f := range d.Fields {
		if f.IsComment() {
			lines = append(lines, "    // "+f.Comment)
			continue
		}
		line := fmt.Sprintf("    pub %s: %s,", fieldName(f.Name), p.ConvertType(f.Type, f.Dims))
		var notes []string
		if f.Bitfield != "" {
			notes = append(notes, f.Bitfield+"-bit field")
		}
		if f.Trailing != "" {
			notes = append(notes, f.Trailing)
		}
		if len(notes) > 0 {
			line += " // " + strings.Join(notes, "; ")
		}
		lines = append(lines, line)
	}
	return append(lines, "}")
}

func (p *Printer) printEnum(d *typegen.Decl) []string {
	repr := "i32"
	if d.Bitmask {
		repr = unsignedOf(d.Width)
	}
	name := p.typeName(d.Name)

	lines := []string{
		fmt.Sprintf("pub struct %s(%s);", name, repr),
		fmt.Sprintf("impl %s {", name),
	}
	for _, v := range d.Variants {
		if v.IsComment() {
			lines = append(lines, "    // "+v.Comment)
			continue
		}
		if v.Deprecated {
			continue
		}
		switch v.Kind {
		case typegen.ValueNone:
			lines = append(lines, fmt.Sprintf("    // %s is reserved", v.Name))
		case typegen.ValueAlias:
			lines = append(lines, fmt.Sprintf("    pub const %s: Self = Self::%s;", v.Ident, v.AliasIdent))
		case typegen.ValueBitpos:
			lines = append(lines, fmt.Sprintf("    pub const %s: Self = Self(%s);", v.Ident, v.BitValue()))
		case typegen.ValueLiteral:
			lines = append(lines, fmt.Sprintf("    pub const %s: Self = Self(%s);", v.Ident, v.Value))
		}
	}
	return append(lines, "}")
}

func (p *Printer) printConstant(d *typegen.Decl) []string {
	typ, value := ConvertLiteral(d.Value)
	if d.Target != "" {
		value = p.constName(d.Target)
	}
	return []string{fmt.Sprintf("pub const %s: %s = %s;", p.constName(d.Name), typ, value)}
}

func (p *Printer) params(fields []typegen.Field, indent string) []string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s%s: %s,", indent, fieldName(f.Name), p.ConvertType(f.Type, f.Dims)))
	}
	return lines
}

// returnArrow returns " -> T", or "" for void
func (p *Printer) returnArrow(ret string) string {
	if ret == "void" {
		return ""
	}
	return " -> " + p.ConvertType(ret, nil)
}

func (p *Printer) printCommand(d *typegen.Decl) []string {
	name := p.fnName(d.Name)
	arrow := p.returnArrow(d.Return)
	if len(d.Fields) == 0 {
		return []string{fmt.Sprintf("pub fn %s()%s;", name, arrow)}
	}
	lines := []string{fmt.Sprintf("pub fn %s(", name)}
	lines = append(lines, p.params(d.Fields, "    ")...)
	return append(lines, ")"+arrow+";")
}

func (p *Printer) printFuncPointer(d *typegen.Decl) []string {
	arrow := p.returnArrow(d.Return)
	if len(d.Fields) == 0 {
		return []string{fmt.Sprintf(`pub type %s = Option<unsafe extern "system" fn()%s>;`, d.Name, arrow)}
	}
	lines := []string{
		fmt.Sprintf("pub type %s = Option<", d.Name),
		`    unsafe extern "system" fn(`,
	}
	lines = append(lines, p.params(d.Fields, "        ")...)
	return append(lines, "    )"+arrow+",", ">;")
}
