// Package valueset provides an insertion-ordered deduplicating string set.
// Rendered infraction cells join the observed source values for one ledger
// key; insertion order keeps the join deterministic across runs.
package valueset

import "strings"

// Set is an insertion-ordered set of non-empty strings.
type Set struct {
	values []string
	seen   map[string]struct{}
}

// New returns an empty set, optionally pre-populated in order.
func New(values ...string) *Set {
	s := &Set{seen: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v unless it is empty or already present.
func (s *Set) Add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

// Values returns the members in insertion order.
func (s *Set) Values() []string {
	return s.values
}

// Join renders the members in insertion order with the given separator.
func (s *Set) Join(sep string) string {
	return strings.Join(s.values, sep)
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.values)
}
