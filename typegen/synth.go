package typegen

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
	"github.com/teranos/vkdoc/registry"
	"github.com/teranos/vkdoc/typegen/ident"
)

// Synthesizer builds Decls and Blocks from an Index. It holds no mutable state
// and may be shared across goroutines.
type Synthesizer struct {
	idx      *registry.Index
	norm     *ident.Normalizer
	printers []Printer
	log      *zap.SugaredLogger
}

// SynthOption configures a Synthesizer
type SynthOption func(*Synthesizer)

// WithPrinters sets the printers a Block is rendered with, in section order
func WithPrinters(printers ...Printer) SynthOption {
	return func(s *Synthesizer) { s.printers = printers }
}

// WithLogger sets the logger
func WithLogger(log *zap.SugaredLogger) SynthOption {
	return func(s *Synthesizer) { s.log = log }
}

// NewSynthesizer returns a Synthesizer over idx
func NewSynthesizer(idx *registry.Index, norm *ident.Normalizer, opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{
		idx:  idx,
		norm: norm,
		log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index returns the index the Synthesizer reads from
func (s *Synthesizer) Index() *registry.Index {
	return s.idx
}

// Render builds the Decl for name and prints it with every configured printer
func (s *Synthesizer) Render(category Category, name string) (*Block, error) {
	d, err := s.Declare(category, name)
	if err != nil {
		return nil, err
	}

	block := &Block{Category: category, Name: name, Decl: d, Attrs: d.Attrs}
	for _, p := range s.printers {
		lines, err := p.Print(d)
		if err != nil {
			return nil, errors.Wrapf(err, "%s printer", p.Language())
		}
		block.Sections = append(block.Sections, Section{Language: p.Language(), Label: p.Label(), Lines: lines})
	}

	s.log.Debugw("rendered symbol",
		logger.FieldCategory, string(category),
		logger.FieldSymbol, name,
		logger.FieldKind, string(d.Kind))
	return block, nil
}

// Declare builds the syntax-neutral declaration of name under category
func (s *Synthesizer) Declare(category Category, name string) (*Decl, error) {
	switch category {
	case CategoryStructs:
		return s.declareStruct(name)
	case CategoryFlags:
		return s.declareBitmask(name)
	case CategoryEnums:
		return s.declareEnum(name)
	case CategoryProtos:
		return s.declareCommand(name)
	case CategoryBaseTypes:
		return s.declareBaseType(name)
	case CategoryHandles:
		return s.declareHandle(name)
	case CategoryDefines:
		return s.declareDefine(name)
	case CategoryFuncPointers:
		return s.declareFuncPointer(name)
	}
	return nil, errors.Newf("unknown category %q", category)
}

// typeOf looks up name and returns an alias Decl when it is a pure alias
func (s *Synthesizer) typeOf(name string, want ...registry.Category) (*registry.Type, *Decl, error) {
	t, err := s.idx.Type(name)
	if err != nil {
		return nil, nil, err
	}
	if t.IsAlias() {
		// resolve to fail on dangling or cyclic chains before printing
		if _, err := s.idx.ResolveType(name); err != nil {
			return nil, nil, err
		}
		return t, &Decl{Kind: KindAlias, Name: name, Target: t.Alias}, nil
	}
	for _, c := range want {
		if t.Category == c {
			return t, nil, nil
		}
	}
	return nil, nil, registry.UnexpectedShape(registry.KindType, name, "category "+string(t.Category))
}

func (s *Synthesizer) declareStruct(name string) (*Decl, error) {
	t, alias, err := s.typeOf(name, registry.CategoryStruct, registry.CategoryUnion)
	if err != nil || alias != nil {
		return alias, err
	}

	d := &Decl{Kind: KindStruct, Name: name}
	if t.Category == registry.CategoryUnion {
		d.Kind = KindUnion
	}
	for _, m := range t.Members {
		if m.IsComment() {
			d.Fields = append(d.Fields, Field{Comment: m.Comment})
			continue
		}
		if !registry.ListIncludes(m.API, s.idx.API()) {
			continue
		}
		d.Fields = append(d.Fields, Field{
			Type:     m.RawType,
			Name:     m.Name,
			Dims:     m.Dims,
			Bitfield: m.Bitfield,
			Trailing: m.TrailingComment,
		})
	}
	if !hasDeclaration(d.Fields) {
		return nil, registry.UnexpectedShape(registry.KindType, name, "aggregate without members")
	}
	return d, nil
}

func hasDeclaration(fields []Field) bool {
	for _, f := range fields {
		if !f.IsComment() {
			return true
		}
	}
	return false
}

func (s *Synthesizer) declareBitmask(name string) (*Decl, error) {
	t, alias, err := s.typeOf(name, registry.CategoryBitmask)
	if err != nil || alias != nil {
		return alias, err
	}

	base, ok := t.Code.First(registry.MarkupType)
	if !ok {
		return nil, registry.UnexpectedShape(registry.KindType, name, "bitmask without base type")
	}
	d := &Decl{Kind: KindBitmask, Name: name, Code: t.Code.Text()}
	switch base {
	case "VkFlags":
		d.Width = 32
	case "VkFlags64":
		d.Width = 64
	default:
		return nil, registry.UnexpectedShape(registry.KindType, name, "bitmask base "+base)
	}
	return d, nil
}

// declareEnum looks the name up as an enumeration group, then as an alias type,
// then as a manifest constant
func (s *Synthesizer) declareEnum(name string) (*Decl, error) {
	if g, ok := s.idx.LookupEnumGroup(name); ok {
		return s.declareEnumGroup(g)
	}
	if t, ok := s.idx.LookupType(name); ok && t.IsAlias() {
		_, alias, err := s.typeOf(name)
		return alias, err
	}
	if _, ok := s.idx.LookupConstant(name); ok {
		return s.declareConstant(name)
	}
	return nil, registry.NotFound(registry.KindEnum, name)
}

func (s *Synthesizer) declareEnumGroup(g *registry.EnumGroup) (*Decl, error) {
	if g.Kind != registry.EnumGroupEnum && g.Kind != registry.EnumGroupBitmask {
		return nil, registry.UnexpectedShape(registry.KindEnum, g.Name, "group type "+string(g.Kind))
	}
	d := &Decl{
		Kind:    KindEnum,
		Name:    g.Name,
		Bitmask: g.Kind == registry.EnumGroupBitmask,
		Width:   g.Width(),
	}

	for _, item := range g.Items {
		switch item.Kind {
		case registry.ItemComment:
			d.Variants = append(d.Variants, Variant{Comment: item.Comment})
		case registry.ItemEnum:
			if !registry.ListIncludes(item.Enum.API, s.idx.API()) {
				continue
			}
			v, err := s.variant(g.Name, item.Enum)
			if err != nil {
				return nil, err
			}
			d.Variants = append(d.Variants, v)
		}
	}

	owner := ""
	for _, add := range s.idx.Additions(g.Name) {
		if add.Owner != owner {
			owner = add.Owner
			d.Variants = append(d.Variants, Variant{Comment: "Provided by " + owner})
		}
		v, err := s.variant(g.Name, add.Enum)
		if err != nil {
			return nil, errors.Wrapf(err, "addition from %s", add.Owner)
		}
		d.Variants = append(d.Variants, v)
	}
	return d, nil
}

func (s *Synthesizer) variant(group string, e registry.Enum) (Variant, error) {
	v := Variant{
		Name:       e.Name,
		Deprecated: e.Deprecated != "",
		Note:       e.Comment,
	}
	switch e.Kind {
	case registry.ValueLiteral:
		v.Kind, v.Value = ValueLiteral, e.Value
	case registry.ValueBitpos:
		v.Kind, v.Bitpos = ValueBitpos, e.Bitpos
	case registry.ValueAlias:
		v.Kind, v.Alias = ValueAlias, e.Alias
	case registry.ValueNone:
		return v, nil
	default:
		return v, registry.UnexpectedShape(registry.KindVariant, e.Name, "unnormalized offset value")
	}
	if v.Deprecated {
		return v, nil
	}

	var err error
	if v.Ident, err = s.norm.Normalize(group, e.Name); err != nil {
		return v, err
	}
	if v.Kind == ValueAlias {
		if v.AliasIdent, err = s.norm.Normalize(group, e.Alias); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (s *Synthesizer) declareConstant(name string) (*Decl, error) {
	res, err := s.idx.ResolveConstant(name)
	if err != nil {
		return nil, err
	}
	def := res.Definition
	if def.Kind != registry.ValueLiteral {
		return nil, registry.UnexpectedShape(registry.KindConstant, def.Name, "constant without value")
	}
	d := &Decl{Kind: KindConstant, Name: name, Value: def.Value}
	if res.Hops() > 0 {
		c, _ := s.idx.LookupConstant(name)
		d.Target = c.Alias
	}
	return d, nil
}

func (s *Synthesizer) declareCommand(name string) (*Decl, error) {
	res, err := s.idx.ResolveCommand(name)
	if err != nil {
		return nil, err
	}
	def := res.Definition
	if def.Proto.RawType == "" {
		return nil, registry.UnexpectedShape(registry.KindCommand, def.Name, "command without return type")
	}

	d := &Decl{Kind: KindCommand, Name: res.Requested, Return: def.Proto.RawType}
	for _, p := range def.Params {
		if !registry.ListIncludes(p.API, s.idx.API()) {
			continue
		}
		d.Fields = append(d.Fields, Field{Type: p.RawType, Name: p.Name, Dims: p.Dims})
	}
	d.Attrs = commandAttrs(def)
	return d, nil
}

func commandAttrs(c *registry.Command) []Attr {
	var attrs []Attr
	add := func(key, value string) {
		if value != "" {
			attrs = append(attrs, Attr{Key: key, Value: value})
		}
	}
	add(AttrCmdBufLevel, c.CmdBufferLevel)
	add(AttrRenderPassScope, c.RenderPass)
	add(AttrVideoCodingScope, c.VideoCoding)
	add(AttrSupportedQueueType, c.Queues)
	add(AttrTasks, c.Tasks)
	return attrs
}

func (s *Synthesizer) declareHandle(name string) (*Decl, error) {
	t, alias, err := s.typeOf(name, registry.CategoryHandle)
	if err != nil || alias != nil {
		return alias, err
	}

	macro, _ := t.Code.First(registry.MarkupType)
	d := &Decl{Kind: KindHandle, Name: name, Code: t.Code.Text()}
	switch macro {
	case "VK_DEFINE_HANDLE":
		d.Dispatchable = true
	case "VK_DEFINE_NON_DISPATCHABLE_HANDLE":
	default:
		return nil, registry.UnexpectedShape(registry.KindType, name, "handle macro "+macro)
	}
	return d, nil
}

func (s *Synthesizer) declareBaseType(name string) (*Decl, error) {
	t, alias, err := s.typeOf(name, registry.CategoryBaseType)
	if err != nil || alias != nil {
		return alias, err
	}

	code := t.Code.Text()
	if strings.TrimSpace(code) == "" {
		return nil, registry.UnexpectedShape(registry.KindType, name, "basetype without body")
	}
	d := &Decl{Kind: KindBaseType, Name: name, Code: strings.TrimSpace(code)}
	pattern := regexp.MustCompile(`typedef\s+([^;]+?)\s*\b` + regexp.QuoteMeta(name) + `\s*;`)
	if m := pattern.FindStringSubmatch(code); m != nil {
		d.Base = normalizeSpace(m[1])
	}
	return d, nil
}

var simpleLiteral = regexp.MustCompile(`^(0[xX][0-9a-fA-F]+|-?[0-9]+(\.[0-9]+)?)[uUlLfF]*$`)

func (s *Synthesizer) declareDefine(name string) (*Decl, error) {
	t, alias, err := s.typeOf(name, registry.CategoryDefine)
	if err != nil || alias != nil {
		return alias, err
	}

	code := strings.TrimSpace(t.Code.Text())
	if code == "" {
		return nil, registry.UnexpectedShape(registry.KindType, name, "define without body")
	}
	d := &Decl{Kind: KindDefine, Name: name, Code: code}
	pattern := regexp.MustCompile(`(?m)^#define\s+` + regexp.QuoteMeta(name) + `\s+(\S+)\s*$`)
	if m := pattern.FindStringSubmatch(code); m != nil && simpleLiteral.MatchString(m[1]) {
		d.Value = m[1]
	}
	return d, nil
}

func (s *Synthesizer) declareFuncPointer(name string) (*Decl, error) {
	t, alias, err := s.typeOf(name, registry.CategoryFuncPointer)
	if err != nil || alias != nil {
		return alias, err
	}

	d := &Decl{Kind: KindFuncPointer, Name: name}
	if t.Proto != nil {
		d.Return = t.Proto.RawType
		for _, p := range t.Params {
			if !registry.ListIncludes(p.API, s.idx.API()) {
				continue
			}
			d.Fields = append(d.Fields, Field{Type: p.RawType, Name: p.Name, Dims: p.Dims})
		}
		return d, nil
	}

	d.Code = strings.TrimSpace(t.Code.Text())
	ret, params, err := parseFuncPointer(d.Code)
	if err != nil {
		return nil, registry.UnexpectedShape(registry.KindType, name, err.Error())
	}
	d.Return, d.Fields = ret, params
	return d, nil
}
