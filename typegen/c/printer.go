// Package c prints declarations in C syntax, reproducing the registry text
// where one exists.
package c

import (
	"fmt"
	"strings"

	"github.com/teranos/vkdoc/registry"
	"github.com/teranos/vkdoc/typegen"
)

// columnGap separates the widest type from its name in aligned lists
const columnGap = 4

// Printer implements typegen.Printer for C
type Printer struct{}

// NewPrinter creates a new C printer
func NewPrinter() *Printer {
	return &Printer{}
}

// Language returns "c"
func (p *Printer) Language() string {
	return "c"
}

// Label returns "C"
func (p *Printer) Label() string {
	return "C"
}

// Print renders d as C
func (p *Printer) Print(d *typegen.Decl) ([]string, error) {
	switch d.Kind {
	case typegen.KindAlias:
		return []string{fmt.Sprintf("typedef %s %s;", d.Target, d.Name)}, nil
	case typegen.KindStruct, typegen.KindUnion:
		return printAggregate(d), nil
	case typegen.KindEnum:
		return printEnum(d), nil
	case typegen.KindConstant:
		value := d.Value
		if d.Target != "" {
			value = d.Target
		}
		return []string{fmt.Sprintf("#define %s %s", d.Name, value)}, nil
	case typegen.KindCommand:
		return printCommand(d), nil
	case typegen.KindFuncPointer:
		if d.Code != "" {
			return splitCode(d.Code), nil
		}
		return printFuncPointer(d), nil
	case typegen.KindBitmask, typegen.KindHandle, typegen.KindBaseType, typegen.KindDefine:
		return splitCode(d.Code), nil
	}
	return nil, registry.UnexpectedShape(registry.KindType, d.Name, "no C rule for "+string(d.Kind))
}

func splitCode(code string) []string {
	return strings.Split(strings.TrimSpace(code), "\n")
}

// alignFields renders "type<pad>name<suffix>" lines with names in one column
func alignFields(fields []typegen.Field, indent string) []string {
	width := 0
	for _, f := range fields {
		if !f.IsComment() && len(f.Type) > width {
			width = len(f.Type)
		}
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.IsComment() {
			lines = append(lines, indent+"// "+f.Comment)
			continue
		}
		pad := strings.Repeat(" ", width-len(f.Type)+columnGap)
		lines = append(lines, indent+f.Type+pad+f.Name+f.Suffix())
	}
	return lines
}

func printAggregate(d *typegen.Decl) []string {
	keyword := "struct"
	if d.Kind == typegen.KindUnion {
		keyword = "union"
	}

	lines := []string{fmt.Sprintf("typedef %s %s {", keyword, d.Name)}
	aligned := alignFields(d.Fields, "    ")
	for i, f := range d.Fields {
		line := aligned[i]
		if !f.IsComment() {
			line += ";"
			if f.Trailing != "" {
				line += " // " + f.Trailing
			}
		}
		lines = append(lines, line)
	}
	return append(lines, fmt.Sprintf("} %s;", d.Name))
}

func printEnum(d *typegen.Decl) []string {
	lines := []string{fmt.Sprintf("typedef enum %s {", d.Name)}
	for _, v := range d.Variants {
		if v.IsComment() {
			lines = append(lines, "    // "+v.Comment)
			continue
		}
		line := "    " + v.Name
		if value := variantValue(v, d.Width); value != "" {
			line += " = " + value
		}
		line += ","
		if v.Note != "" {
			line += " // " + v.Note
		}
		lines = append(lines, line)
	}
	return append(lines, fmt.Sprintf("} %s;", d.Name))
}

// variantValue returns the C initializer; 64-bit bit values need the ULL suffix
func variantValue(v typegen.Variant, width int) string {
	switch v.Kind {
	case typegen.ValueLiteral:
		return v.Value
	case typegen.ValueAlias:
		return v.Alias
	case typegen.ValueBitpos:
		value := v.BitValue()
		if width == 64 {
			value += "ULL"
		}
		return value
	}
	return ""
}

func printCommand(d *typegen.Decl) []string {
	if len(d.Fields) == 0 {
		return []string{fmt.Sprintf("%s %s(void);", d.Return, d.Name)}
	}
	lines := []string{fmt.Sprintf("%s %s(", d.Return, d.Name)}
	return append(lines, paramList(d.Fields)...)
}

func printFuncPointer(d *typegen.Decl) []string {
	head := fmt.Sprintf("typedef %s (VKAPI_PTR *%s)(", d.Return, d.Name)
	if len(d.Fields) == 0 {
		return []string{head + "void);"}
	}
	return append([]string{head}, paramList(d.Fields)...)
}

// paramList renders aligned parameters, the last one closing the call
func paramList(fields []typegen.Field) []string {
	lines := alignFields(fields, "    ")
	for i := range lines {
		if i == len(lines)-1 {
			lines[i] += ");"
		} else {
			lines[i] += ","
		}
	}
	return lines
}
