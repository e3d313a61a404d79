package api

import (
	"io"
	"strings"
	"time"
)

// Product is a catalog record. The server owns it; the client only ever
// holds transient copies. ID is immutable once assigned and price is
// non-negative, both enforced server-side.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURLs   []string  `json:"imageUrls,omitempty"`
	Colors      []string  `json:"colors,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// ColorTagSet is an ordered set of color tags: duplicate suppression on
// insertion (case-sensitive exact match), O(1) membership, insertion order
// preserved for display and for the wire encoding.
type ColorTagSet struct {
	members map[string]struct{}
	order   []string
}

// NewColorTagSet builds a set from the given values, applying the same
// trim-and-dedup rules as Add.
func NewColorTagSet(values ...string) *ColorTagSet {
	s := &ColorTagSet{members: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add trims the value and appends it if non-empty and not already present.
// Reports whether the set changed.
func (s *ColorTagSet) Add(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if _, ok := s.members[value]; ok {
		return false
	}
	s.members[value] = struct{}{}
	s.order = append(s.order, value)
	return true
}

// Has reports membership by exact string match.
func (s *ColorTagSet) Has(value string) bool {
	_, ok := s.members[value]
	return ok
}

// Remove deletes a tag by exact value match. There is no in-place edit;
// remove-then-re-add is the only way to change a tag's text.
func (s *ColorTagSet) Remove(value string) bool {
	if _, ok := s.members[value]; !ok {
		return false
	}
	delete(s.members, value)
	for i, v := range s.order {
		if v == value {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Values returns the tags in insertion order. The returned slice is a copy.
func (s *ColorTagSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of tags.
func (s *ColorTagSet) Len() int {
	return len(s.order)
}

// ImageFile is one pending image attachment: a filename for the multipart
// part header and a reader for the bytes. The content is streamed to the
// wire, never inspected.
type ImageFile struct {
	Name string
	Data io.Reader
}
