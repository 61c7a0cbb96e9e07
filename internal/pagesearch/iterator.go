// Package pagesearch steps through occurrences of search terms inside the
// text fields of the record currently on display.
//
// Iteration is bidirectional, but unlike a plain list iterator, reversing
// direction never reports the match that was just visited: the first element
// in the new direction is skipped.
package pagesearch

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Container is a text-bearing field that can show a selection.
type Container interface {
	// Text returns the field's current contents.
	Text() string

	// Select marks the rune range [start, end) as selected.
	Select(start, end int)

	// Focus asks for input focus to move to the field.
	Focus()
}

// Direction is the direction of the next step.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Match is one occurrence of a term. Term is upper-cased; Offset counts runes
// within the upper-cased text of the container at index Container.
type Match struct {
	Term      string
	Offset    int
	Container int
}

// Len returns the term length in runes.
func (m Match) Len() int { return utf8.RuneCountInString(m.Term) }

// compareMatches orders by container, then offset, then term length. Sorting
// by length puts "LIGHT" before "LIGHTHOUSE" at the same offset, so stepping
// forward from the shorter match reaches the longer one.
func compareMatches(a, b Match) int {
	if c := cmp.Compare(a.Container, b.Container); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Offset, b.Offset); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Len(), b.Len()); c != 0 {
		return c
	}
	return strings.Compare(a.Term, b.Term)
}

// Iterator walks the matches found in a fixed set of containers.
//
// The matches are a snapshot taken by New; later edits to the containers are
// not seen. Select and Focus are called on the caller's goroutine, which must
// be the one that owns the containers.
type Iterator struct {
	containers []Container
	matches    []Match
	pos        int // matches[pos-1] is before the cursor, matches[pos] after
	direction  Direction
}

// New scans containers for terms. Terms are matched case-insensitively and
// empty terms are dropped. With dir == Backward the iterator starts after the
// last match.
func New(containers []Container, dir Direction, terms ...string) *Iterator {
	it := &Iterator{
		containers: slices.Clone(containers),
		direction:  dir,
	}
	it.matches = scan(it.containers, normalizeTerms(terms))
	if dir == Backward {
		it.pos = len(it.matches)
	}
	return it
}

func normalizeTerms(terms []string) []string {
	var out []string
	for _, t := range terms {
		t = strings.ToUpper(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func scan(containers []Container, terms []string) []Match {
	if len(terms) == 0 {
		return nil
	}
	var matches []Match
	for ci, c := range containers {
		text := strings.ToUpper(c.Text())
		for _, term := range terms {
			matches = appendOccurrences(matches, text, term, ci)
		}
	}
	slices.SortFunc(matches, compareMatches)
	return slices.Compact(matches)
}

// appendOccurrences finds every occurrence of term in text, resuming one
// character past each hit so overlapping occurrences are kept.
func appendOccurrences(matches []Match, text, term string, container int) []Match {
	from := 0
	runeOffset := 0
	for from <= len(text) {
		i := strings.Index(text[from:], term)
		if i < 0 {
			break
		}
		runeOffset += utf8.RuneCountInString(text[from : from+i])
		matches = append(matches, Match{Term: term, Offset: runeOffset, Container: container})

		_, size := utf8.DecodeRuneInString(text[from+i:])
		from += i + size
		runeOffset++
	}
	return matches
}

// Matches returns the ordered matches. The slice is a copy.
func (it *Iterator) Matches() []Match {
	return slices.Clone(it.matches)
}

// Len returns the number of matches.
func (it *Iterator) Len() int { return len(it.matches) }

// Direction returns the current direction.
func (it *Iterator) Direction() Direction { return it.direction }

// HasNext reports whether a further match exists going forward. If the
// iterator was moving backward it turns around first, skipping the match that
// Previous just returned.
func (it *Iterator) HasNext() bool {
	if it.direction == Backward && it.pos < len(it.matches) {
		it.direction = Forward
		it.pos++
	}
	return it.pos < len(it.matches)
}

// HasPrevious reports whether a further match exists going backward. If the
// iterator was moving forward it turns around first, skipping the match that
// Next just returned.
func (it *Iterator) HasPrevious() bool {
	if it.direction == Forward && it.pos > 0 {
		it.direction = Backward
		it.pos--
	}
	return it.pos > 0
}

// Next selects the following match and returns it. Call HasNext first; Next
// panics when there is no further match.
func (it *Iterator) Next() Match {
	if it.direction == Backward {
		it.advance()
		it.direction = Forward
	}
	m := it.advance()
	it.selectMatch(m)
	return m
}

// Previous selects the preceding match and returns it. Call HasPrevious
// first; Previous panics when there is no earlier match.
func (it *Iterator) Previous() Match {
	if it.direction == Forward {
		it.retreat()
		it.direction = Backward
	}
	m := it.retreat()
	it.selectMatch(m)
	return m
}

func (it *Iterator) advance() Match {
	if it.pos >= len(it.matches) {
		panic("pagesearch: no next match")
	}
	m := it.matches[it.pos]
	it.pos++
	return m
}

func (it *Iterator) retreat() Match {
	if it.pos <= 0 {
		panic("pagesearch: no previous match")
	}
	it.pos--
	return it.matches[it.pos]
}

func (it *Iterator) selectMatch(m Match) {
	c := it.containers[m.Container]
	c.Select(m.Offset, m.Offset+m.Len())
	c.Focus()
}
