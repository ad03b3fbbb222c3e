package util

import (
	"strings"
)

// CType is a parsed C declarator type: a base name and, per pointer level,
// whether the pointed-to value is const.
//
//	"const char* const*" -> Base "char", Const true, Pointees [true, true]
//	"VkInstance*"        -> Base "VkInstance", Pointees [false]
type CType struct {
	Base  string
	Const bool
	// Pointees[i] reports whether the target of pointer level i+1 is const.
	// Level 1 points at the base type, level 2 at the level 1 pointer, and so on.
	Pointees []bool
	Dims     []string
}

// Pointers returns the pointer depth
func (t CType) Pointers() int {
	return len(t.Pointees)
}

// ParseCType parses the raw type text of a declaration.
// "struct" tags are dropped; qualifiers other than const are kept in Base.
func ParseCType(raw string, dims []string) CType {
	segments := strings.Split(raw, "*")
	t := CType{Dims: dims}

	var base []string
	for _, tok := range strings.Fields(segments[0]) {
		switch tok {
		case "const":
			t.Const = true
		case "struct", "union":
		default:
			base = append(base, tok)
		}
	}
	t.Base = strings.Join(base, " ")

	for level := 1; level < len(segments); level++ {
		if level == 1 {
			t.Pointees = append(t.Pointees, t.Const)
			continue
		}
		// text between two '*' qualifies the inner pointer
		t.Pointees = append(t.Pointees, strings.Contains(segments[level-1], "const"))
	}
	return t
}

// TypeConverterConfig configures how C types are converted to target language types.
type TypeConverterConfig struct {
	// TypeMapping maps C primitive names to target language types
	TypeMapping map[string]string

	// Prefix marks API-defined type names ("Vk"); such names are rewritten to
	// Namespace plus the rest of the name ("vk::Instance")
	Prefix    string
	Namespace string

	// ConstPrefix marks API constants used as array lengths ("VK_")
	ConstPrefix string

	// PointerFormat wraps a pointee type, e.g. Rust: "*const %s" / "*mut %s"
	PointerFormat func(pointee string, constPointee bool) string

	// ArrayFormat formats a fixed-size array, e.g. Rust: "[%s; %s]"
	ArrayFormat func(elem, length string) string
}

// MapName converts a bare type name. Unknown names pass through unchanged.
func (c *TypeConverterConfig) MapName(name string) string {
	if mapped, ok := c.TypeMapping[name]; ok {
		return mapped
	}
	if c.Prefix != "" && strings.HasPrefix(name, c.Prefix) && len(name) > len(c.Prefix) {
		return c.Namespace + name[len(c.Prefix):]
	}
	return name
}

// MapLength converts an array length
func (c *TypeConverterConfig) MapLength(dim string) string {
	if c.ConstPrefix != "" && strings.HasPrefix(dim, c.ConstPrefix) {
		return c.Namespace + dim[len(c.ConstPrefix):]
	}
	return dim
}

// ConvertCType converts a parsed C type to a target language type string.
// Arrays wrap pointers: "const char* names[4]" is an array of 4 pointers.
func ConvertCType(t CType, config *TypeConverterConfig) string {
	out := config.MapName(t.Base)
	if config.PointerFormat != nil {
		for level := 0; level < t.Pointers(); level++ {
			out = config.PointerFormat(out, t.Pointees[level])
		}
	}
	if config.ArrayFormat != nil {
		for i := len(t.Dims) - 1; i >= 0; i-- {
			out = config.ArrayFormat(out, config.MapLength(t.Dims[i]))
		}
	}
	return out
}

// ConvertRaw parses and converts in one step
func ConvertRaw(raw string, dims []string, config *TypeConverterConfig) string {
	return ConvertCType(ParseCType(raw, dims), config)
}
