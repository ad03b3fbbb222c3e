package registry

// Resolution is the outcome of following an alias chain
type Resolution[T any] struct {
	// Requested is the name the caller asked for; renderers print this name
	Requested string
	// Definition is the concrete, non-alias definition at the end of the chain
	Definition T
	// Chain lists every name visited, Requested first and the concrete name last
	Chain []string
}

// Hops returns the number of alias edges followed
func (r Resolution[T]) Hops() int {
	return len(r.Chain) - 1
}

// resolve follows alias edges until aliasOf returns "", failing on a missing
// name or a revisited one
func resolve[T any](kind SymbolKind, name string, lookup func(string) (T, bool), aliasOf func(T) string) (Resolution[T], error) {
	res := Resolution[T]{Requested: name}
	visited := make(map[string]bool)

	current := name
	for {
		if visited[current] {
			return res, Cycle(kind, append(res.Chain, current))
		}
		visited[current] = true
		res.Chain = append(res.Chain, current)

		def, ok := lookup(current)
		if !ok {
			return res, NotFound(kind, current)
		}
		next := aliasOf(def)
		if next == "" {
			res.Definition = def
			return res, nil
		}
		current = next
	}
}

// ResolveCommand follows command aliases to a concrete definition
func (idx *Index) ResolveCommand(name string) (Resolution[*Command], error) {
	return resolve(KindCommand, name, idx.LookupCommand, func(c *Command) string { return c.Alias })
}

// ResolveType follows type aliases to a concrete definition
func (idx *Index) ResolveType(name string) (Resolution[*Type], error) {
	return resolve(KindType, name, idx.LookupType, func(t *Type) string { return t.Alias })
}

// ResolveConstant follows constant aliases to a literal-valued constant
func (idx *Index) ResolveConstant(name string) (Resolution[*Enum], error) {
	return resolve(KindConstant, name, idx.LookupConstant, func(e *Enum) string {
		if e.Kind == ValueAlias {
			return e.Alias
		}
		return ""
	})
}
