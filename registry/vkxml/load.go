// Package vkxml reads a Vulkan-style registry XML document into a registry.Registry.
package vkxml

import (
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/registry"
)

// LoadFile reads and parses the registry at path
func LoadFile(path string) (*registry.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrNotFound, "registry %s", path),
				"run 'vkdoc fetch' or set registry.path")
		}
		return nil, errors.Wrapf(err, "failed to open registry %s", path)
	}
	defer f.Close()

	reg, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", path)
	}
	return reg, nil
}

// Load parses a registry document
func Load(r io.Reader) (*registry.Registry, error) {
	doc, err := parseTree(r)
	if err != nil {
		return nil, err
	}
	root := doc.child("registry")
	if root == nil {
		return nil, errors.Wrap(errors.ErrUnexpectedShape, "missing <registry> root element")
	}

	reg := &registry.Registry{}
	for _, section := range root.children("") {
		switch section.name {
		case "tags":
			for _, t := range section.children("tag") {
				reg.Tags = append(reg.Tags, registry.Tag{
					Name:    t.attr("name"),
					Author:  t.attr("author"),
					Contact: t.attr("contact"),
				})
			}
		case "types":
			for _, t := range section.children("type") {
				typ, err := parseType(t)
				if err != nil {
					return nil, err
				}
				reg.Types = append(reg.Types, typ)
			}
		case "enums":
			group, err := parseEnumGroup(section)
			if err != nil {
				return nil, err
			}
			reg.Enums = append(reg.Enums, group)
		case "commands":
			for _, c := range section.children("command") {
				cmd, err := parseCommand(c)
				if err != nil {
					return nil, err
				}
				reg.Commands = append(reg.Commands, cmd)
			}
		case "feature":
			f := registry.Feature{
				API:    section.attr("api"),
				Name:   section.attr("name"),
				Number: section.attr("number"),
			}
			var err error
			if f.Requires, f.Removes, err = parseBlocks(section); err != nil {
				return nil, errors.Wrapf(err, "feature %s", f.Name)
			}
			reg.Features = append(reg.Features, f)
		case "extensions":
			for _, x := range section.children("extension") {
				ext, err := parseExtension(x)
				if err != nil {
					return nil, err
				}
				reg.Extensions = append(reg.Extensions, ext)
			}
		}
	}
	return reg, nil
}

func parseType(e *element) (registry.Type, error) {
	t := registry.Type{
		Name:      e.attr("name"),
		Category:  registry.Category(e.attr("category")),
		Alias:     e.attr("alias"),
		API:       e.attr("api"),
		Requires:  e.attr("requires"),
		BitValues: e.attr("bitvalues"),
		Parent:    e.attr("parent"),
		Comment:   e.attr("comment"),
	}
	if t.Name == "" {
		t.Name = typeName(e)
	}
	if t.Name == "" {
		return t, registry.UnexpectedShape(registry.KindType, "<unnamed>", "type without name")
	}
	if t.IsAlias() {
		return t, nil
	}

	switch t.Category {
	case registry.CategoryStruct, registry.CategoryUnion:
		for _, c := range e.children("") {
			switch c.name {
			case "member":
				decl, trailing := parseDecl(c)
				t.Members = append(t.Members, registry.Member{
					Decl:            decl,
					TrailingComment: trailing,
					API:             c.attr("api"),
					Values:          c.attr("values"),
					Optional:        c.attr("optional"),
					Len:             c.attr("len"),
				})
			case "comment":
				t.Members = append(t.Members, registry.Member{Comment: strings.TrimSpace(c.text())})
			}
		}
	case registry.CategoryFuncPointer:
		if proto := e.child("proto"); proto != nil {
			decl, _ := parseDecl(proto)
			// <proto><type>VkBool32</type> (VKAPI_PTR *<name>PFN_x</name>)</proto>
			if ret, _, found := strings.Cut(decl.RawType, "("); found {
				decl.RawType = strings.TrimSpace(ret)
				decl.Dims = nil
			}
			t.Proto = &decl
			for _, p := range e.children("param") {
				decl, _ := parseDecl(p)
				t.Params = append(t.Params, registry.Param{Decl: decl, API: p.attr("api")})
			}
			return t, nil
		}
		t.Code = parseCode(e)
	default:
		if len(e.nodes) > 0 {
			t.Code = parseCode(e)
		}
	}
	return t, nil
}

// typeName finds the <name> of a type declared in markup. Funcpointers
// written with <proto> keep it one level down.
func typeName(e *element) string {
	if n := e.child("name"); n != nil {
		return n.text()
	}
	if proto := e.child("proto"); proto != nil {
		if n := proto.child("name"); n != nil {
			return n.text()
		}
	}
	return ""
}

// parseCode flattens mixed content into markup pieces
func parseCode(e *element) *registry.Code {
	code := &registry.Code{}
	for _, n := range e.nodes {
		if n.elem == nil {
			code.Markup = append(code.Markup, registry.Markup{Kind: registry.MarkupText, Text: n.text})
			continue
		}
		kind := registry.MarkupText
		switch n.elem.name {
		case "type":
			kind = registry.MarkupType
		case "name":
			kind = registry.MarkupName
		case "enum":
			kind = registry.MarkupEnum
		case "comment":
			kind = registry.MarkupComment
		}
		code.Markup = append(code.Markup, registry.Markup{Kind: kind, Text: n.elem.text()})
	}
	return code
}

var (
	dimPattern      = regexp.MustCompile(`\[([^\]]*)\]`)
	bitfieldPattern = regexp.MustCompile(`:\s*(\d+)`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// parseDecl reads a <member>, <param> or <proto> element.
// Text before <name> belongs to the type, text after it to the declarator suffix.
func parseDecl(e *element) (registry.Decl, string) {
	var decl registry.Decl
	var typeText, suffix strings.Builder
	var trailing string
	seenName := false

	for _, n := range e.nodes {
		switch {
		case n.elem == nil:
			if seenName {
				suffix.WriteString(n.text)
			} else {
				typeText.WriteString(n.text)
			}
		case n.elem.name == "name":
			decl.Name = n.elem.text()
			seenName = true
		case n.elem.name == "type":
			decl.BaseType = n.elem.text()
			typeText.WriteString(decl.BaseType)
		case n.elem.name == "comment":
			trailing = strings.TrimSpace(n.elem.text())
		default:
			if seenName {
				suffix.WriteString(n.elem.text())
			} else {
				typeText.WriteString(n.elem.text())
			}
		}
	}

	decl.RawType = normalizeType(typeText.String())
	rest := suffix.String()
	for _, m := range dimPattern.FindAllStringSubmatch(rest, -1) {
		decl.Dims = append(decl.Dims, strings.TrimSpace(m[1]))
	}
	if m := bitfieldPattern.FindStringSubmatch(rest); m != nil {
		decl.Bitfield = m[1]
	}
	return decl, trailing
}

// normalizeType collapses whitespace and attaches '*' to the preceding token
func normalizeType(s string) string {
	s = strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
	for strings.Contains(s, " *") {
		s = strings.ReplaceAll(s, " *", "*")
	}
	return s
}

func parseEnumGroup(e *element) (registry.EnumGroup, error) {
	g := registry.EnumGroup{
		Name:    e.attr("name"),
		Kind:    registry.EnumGroupKind(e.attr("type")),
		Comment: e.attr("comment"),
	}
	if g.Name == registry.ConstantsGroup && g.Kind == "" {
		g.Kind = registry.EnumGroupConstants
	}
	if w := e.attr("bitwidth"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || (n != 32 && n != 64) {
			return g, registry.UnexpectedShape(registry.KindEnum, g.Name, "bitwidth "+strconv.Quote(w))
		}
		g.BitWidth = n
	}

	for _, c := range e.children("") {
		switch c.name {
		case "enum":
			en, err := parseEnum(c)
			if err != nil {
				return g, err
			}
			g.Items = append(g.Items, registry.EnumItem{Kind: registry.ItemEnum, Enum: en})
		case "unused":
			g.Items = append(g.Items, registry.EnumItem{
				Kind:    registry.ItemUnused,
				Start:   c.attr("start"),
				End:     c.attr("end"),
				Comment: c.attr("comment"),
			})
		case "comment":
			g.Items = append(g.Items, registry.EnumItem{Kind: registry.ItemComment, Comment: strings.TrimSpace(c.text())})
		}
	}
	return g, nil
}

func parseEnum(e *element) (registry.Enum, error) {
	en := registry.Enum{
		Name:       e.attr("name"),
		Type:       e.attr("type"),
		Deprecated: e.attr("deprecated"),
		Comment:    e.attr("comment"),
		API:        e.attr("api"),
		Extends:    e.attr("extends"),
	}

	var err error
	switch {
	case e.attr("value") != "":
		en.Kind = registry.ValueLiteral
		en.Value = e.attr("value")
	case e.attr("bitpos") != "":
		en.Kind = registry.ValueBitpos
		var pos uint64
		pos, err = strconv.ParseUint(e.attr("bitpos"), 10, 6)
		en.Bitpos = uint(pos)
	case e.attr("alias") != "":
		en.Kind = registry.ValueAlias
		en.Alias = e.attr("alias")
	case e.attr("offset") != "":
		en.Kind = registry.ValueOffset
		en.Offset, err = strconv.Atoi(e.attr("offset"))
		if err == nil && e.attr("extnumber") != "" {
			en.ExtNumber, err = strconv.Atoi(e.attr("extnumber"))
		}
		en.Negative = e.attr("dir") == "-"
	}
	if err != nil {
		return en, registry.UnexpectedShape(registry.KindVariant, en.Name, err.Error())
	}
	return en, nil
}

func parseCommand(e *element) (registry.Command, error) {
	cmd := registry.Command{
		Name:           e.attr("name"),
		Alias:          e.attr("alias"),
		API:            e.attr("api"),
		CmdBufferLevel: e.attr("cmdbufferlevel"),
		RenderPass:     e.attr("renderpass"),
		VideoCoding:    e.attr("videocoding"),
		Queues:         e.attr("queues"),
		Tasks:          e.attr("tasks"),
		SuccessCodes:   e.attr("successcodes"),
		ErrorCodes:     e.attr("errorcodes"),
	}
	if cmd.IsAlias() {
		return cmd, nil
	}

	proto := e.child("proto")
	if proto == nil {
		return cmd, registry.UnexpectedShape(registry.KindCommand, cmd.Name, "command without <proto>")
	}
	cmd.Proto, _ = parseDecl(proto)
	cmd.Name = cmd.Proto.Name
	for _, p := range e.children("param") {
		decl, _ := parseDecl(p)
		cmd.Params = append(cmd.Params, registry.Param{
			Decl:     decl,
			API:      p.attr("api"),
			Optional: p.attr("optional"),
			Len:      p.attr("len"),
		})
	}
	return cmd, nil
}

func parseExtension(e *element) (registry.Extension, error) {
	ext := registry.Extension{
		Name:      e.attr("name"),
		Type:      e.attr("type"),
		Supported: e.attr("supported"),
		Author:    e.attr("author"),
	}
	if n := e.attr("number"); n != "" {
		num, err := strconv.Atoi(n)
		if err != nil {
			return ext, registry.UnexpectedShape(registry.KindType, ext.Name, "extension number "+strconv.Quote(n))
		}
		ext.Number = num
	}
	var err error
	if ext.Requires, ext.Removes, err = parseBlocks(e); err != nil {
		return ext, errors.Wrapf(err, "extension %s", ext.Name)
	}
	return ext, nil
}

func parseBlocks(e *element) (requires, removes []registry.RequireBlock, err error) {
	for _, c := range e.children("") {
		if c.name != "require" && c.name != "remove" {
			continue
		}
		block := registry.RequireBlock{
			API:     c.attr("api"),
			Depends: c.attr("depends"),
			Comment: c.attr("comment"),
		}
		for _, item := range c.children("") {
			switch item.name {
			case "type":
				block.Types = append(block.Types, item.attr("name"))
			case "command":
				block.Commands = append(block.Commands, item.attr("name"))
			case "enum":
				en, err := parseEnum(item)
				if err != nil {
					return nil, nil, err
				}
				block.Enums = append(block.Enums, en)
			}
		}
		if c.name == "require" {
			requires = append(requires, block)
		} else {
			removes = append(removes, block)
		}
	}
	return requires, removes, nil
}
