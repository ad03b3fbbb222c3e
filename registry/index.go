package registry

import (
	"strconv"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/teranos/vkdoc/errors"
)

// extBase is the value of offset 0 in extension number 1
const extBase = 1000000000

// Options controls which parts of a registry are indexed
type Options struct {
	// API is the target API; types, commands, features and enums whose api
	// attribute excludes it are skipped. Defaults to "vulkan".
	API string

	// MaxVersion, when set, stops features numbered above it from being recorded as owners
	MaxVersion *semver.Version

	Logger *zap.SugaredLogger
}

// Addition is an enum added to a group by a feature or extension require block
type Addition struct {
	Enum  Enum // value normalized to ValueLiteral, ValueBitpos or ValueAlias
	Owner string
}

// Stats summarizes the size of an Index
type Stats struct {
	Types      int `json:"types"`
	Commands   int `json:"commands"`
	EnumGroups int `json:"enum_groups"`
	Constants  int `json:"constants"`
	Additions  int `json:"additions"`
	Owned      int `json:"owned_symbols"`
}

// Index is the immutable lookup context built once from a Registry.
// All methods are safe for concurrent readers.
type Index struct {
	api       string
	types     map[string]*Type
	commands  map[string]*Command
	enums     map[string]*EnumGroup
	constants map[string]*Enum
	additions map[string][]Addition
	members   *Membership
	tags      []string
}

// Build indexes reg. Duplicate names within a table are fatal.
func Build(reg *Registry, opts Options) (*Index, error) {
	if opts.API == "" {
		opts.API = "vulkan"
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	idx := &Index{
		api:       opts.API,
		types:     make(map[string]*Type),
		commands:  make(map[string]*Command),
		enums:     make(map[string]*EnumGroup),
		constants: make(map[string]*Enum),
		additions: make(map[string][]Addition),
		members:   NewMembership(),
	}

	for _, tag := range reg.Tags {
		idx.tags = append(idx.tags, tag.Name)
	}

	for i := range reg.Types {
		t := &reg.Types[i]
		if !ListIncludes(t.API, opts.API) {
			continue
		}
		if _, dup := idx.types[t.Name]; dup {
			return nil, Duplicate(KindType, t.Name)
		}
		idx.types[t.Name] = t
	}

	for i := range reg.Commands {
		c := &reg.Commands[i]
		if !ListIncludes(c.API, opts.API) {
			continue
		}
		if _, dup := idx.commands[c.Name]; dup {
			return nil, Duplicate(KindCommand, c.Name)
		}
		idx.commands[c.Name] = c
	}

	for i := range reg.Enums {
		g := &reg.Enums[i]
		if _, dup := idx.enums[g.Name]; dup {
			return nil, Duplicate(KindEnum, g.Name)
		}
		idx.enums[g.Name] = g

		if g.Name != ConstantsGroup {
			continue
		}
		for j := range g.Items {
			item := &g.Items[j]
			if item.Kind != ItemEnum {
				return nil, UnexpectedShape(KindEnum, g.Name, "constants group may only list enums")
			}
			if _, dup := idx.constants[item.Enum.Name]; dup {
				return nil, Duplicate(KindConstant, item.Enum.Name)
			}
			idx.constants[item.Enum.Name] = &item.Enum
		}
	}

	for _, f := range reg.Features {
		if !ListIncludes(f.API, opts.API) {
			log.Debugw("skipping feature for other api", "feature", f.Name, "api", f.API)
			continue
		}
		if opts.MaxVersion != nil {
			v, err := semver.NewVersion(f.Number)
			if err != nil {
				return nil, UnexpectedShape(KindType, f.Name, "feature number "+strconv.Quote(f.Number))
			}
			if v.GreaterThan(opts.MaxVersion) {
				log.Debugw("skipping feature above max version", "feature", f.Name, "number", f.Number)
				continue
			}
		}
		if err := idx.record(f.Name, 0, f.Requires); err != nil {
			return nil, errors.Wrapf(err, "feature %s", f.Name)
		}
	}

	for _, ext := range reg.Extensions {
		if !ListIncludes(ext.Supported, opts.API) {
			continue
		}
		if err := idx.record(ext.Name, ext.Number, ext.Requires); err != nil {
			return nil, errors.Wrapf(err, "extension %s", ext.Name)
		}
	}

	log.Debugw("registry indexed",
		"types", len(idx.types),
		"commands", len(idx.commands),
		"enum_groups", len(idx.enums),
		"constants", len(idx.constants),
		"owned_symbols", idx.members.Len())
	return idx, nil
}

// record adds every symbol named by the require blocks to the membership map.
// <remove> blocks are not modelled.
func (idx *Index) record(owner string, extNumber int, blocks []RequireBlock) error {
	for _, req := range blocks {
		if !ListIncludes(req.API, idx.api) {
			continue
		}
		for _, name := range req.Types {
			idx.members.Add(name, owner)
		}
		for _, e := range req.Enums {
			if !ListIncludes(e.API, idx.api) {
				continue
			}
			idx.members.Add(e.Name, owner)
			if e.Extends == "" {
				continue
			}
			add, err := normalizeAddition(e, extNumber)
			if err != nil {
				return err
			}
			idx.addAddition(e.Extends, Addition{Enum: add, Owner: owner})
		}
		for _, name := range req.Commands {
			idx.members.Add(name, owner)
		}
	}
	return nil
}

func (idx *Index) addAddition(group string, add Addition) {
	for _, existing := range idx.additions[group] {
		if existing.Enum.Name == add.Enum.Name {
			return
		}
	}
	idx.additions[group] = append(idx.additions[group], add)
}

// normalizeAddition turns an offset-valued enum into a literal
func normalizeAddition(e Enum, extNumber int) (Enum, error) {
	if e.Kind != ValueOffset {
		return e, nil
	}
	n := e.ExtNumber
	if n == 0 {
		n = extNumber
	}
	if n == 0 {
		return e, UnexpectedShape(KindVariant, e.Name, "offset without extension number")
	}
	v := extBase + (n-1)*1000 + e.Offset
	if e.Negative {
		v = -v
	}
	e.Kind = ValueLiteral
	e.Value = strconv.Itoa(v)
	return e, nil
}

// API returns the API this index was built for
func (idx *Index) API() string { return idx.api }

// LookupType returns the type named name
func (idx *Index) LookupType(name string) (*Type, bool) {
	t, ok := idx.types[name]
	return t, ok
}

// Type returns the type named name or a NotFound error
func (idx *Index) Type(name string) (*Type, error) {
	if t, ok := idx.types[name]; ok {
		return t, nil
	}
	return nil, NotFound(KindType, name)
}

// LookupCommand returns the command named name
func (idx *Index) LookupCommand(name string) (*Command, bool) {
	c, ok := idx.commands[name]
	return c, ok
}

// Command returns the command named name or a NotFound error
func (idx *Index) Command(name string) (*Command, error) {
	if c, ok := idx.commands[name]; ok {
		return c, nil
	}
	return nil, NotFound(KindCommand, name)
}

// LookupEnumGroup returns the enum group named name
func (idx *Index) LookupEnumGroup(name string) (*EnumGroup, bool) {
	g, ok := idx.enums[name]
	return g, ok
}

// EnumGroup returns the enum group named name or a NotFound error
func (idx *Index) EnumGroup(name string) (*EnumGroup, error) {
	if g, ok := idx.enums[name]; ok {
		return g, nil
	}
	return nil, NotFound(KindEnum, name)
}

// LookupConstant returns the manifest constant named name
func (idx *Index) LookupConstant(name string) (*Enum, bool) {
	c, ok := idx.constants[name]
	return c, ok
}

// Constant returns the manifest constant named name or a NotFound error
func (idx *Index) Constant(name string) (*Enum, error) {
	if c, ok := idx.constants[name]; ok {
		return c, nil
	}
	return nil, NotFound(KindConstant, name)
}

// Additions returns the enums added to group by features and extensions, first definition wins
func (idx *Index) Additions(group string) []Addition {
	return idx.additions[group]
}

// Membership returns the symbol to owner map
func (idx *Index) Membership() *Membership {
	return idx.members
}

// Parents returns name's owners joined with ", "
func (idx *Index) Parents(name string) (string, bool) {
	return idx.members.Joined(name)
}

// Tags returns the registry's vendor tags in document order
func (idx *Index) Tags() []string {
	return idx.tags
}

// Stats returns table sizes
func (idx *Index) Stats() Stats {
	n := 0
	for _, adds := range idx.additions {
		n += len(adds)
	}
	return Stats{
		Types:      len(idx.types),
		Commands:   len(idx.commands),
		EnumGroups: len(idx.enums),
		Constants:  len(idx.constants),
		Additions:  n,
		Owned:      idx.members.Len(),
	}
}
