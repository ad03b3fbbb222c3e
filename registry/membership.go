package registry

import "strings"

// Membership maps a symbol name to the features and extensions that require it,
// in the order they were visited. Owners are not deduplicated: requiring a symbol
// twice from the same block lists that owner twice.
type Membership struct {
	owners map[string][]string
}

// NewMembership returns an empty membership map
func NewMembership() *Membership {
	return &Membership{owners: make(map[string][]string)}
}

// Add appends owner to name's owner list
func (m *Membership) Add(name, owner string) {
	m.owners[name] = append(m.owners[name], owner)
}

// Owners returns name's owners in visit order, or nil if no block requires it
func (m *Membership) Owners(name string) []string {
	return m.owners[name]
}

// Joined returns name's owners joined with ", "
func (m *Membership) Joined(name string) (string, bool) {
	owners, ok := m.owners[name]
	if !ok {
		return "", false
	}
	return strings.Join(owners, ", "), true
}

// Len returns the number of symbols with at least one owner
func (m *Membership) Len() int {
	return len(m.owners)
}
