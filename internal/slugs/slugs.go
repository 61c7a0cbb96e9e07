// Package slugs builds file names for exported cards, built on gosimple/slug.
package slugs

import (
	"strconv"
	"strings"

	goslug "github.com/gosimple/slug"
)

// Fallback is used when a name slugs to nothing.
const Fallback = "card"

// ComponentSlug converts a string to a slug appropriate for a file name.
// Names with nothing sluggable become Fallback.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".md")
	if slugged := goslug.Make(s); slugged != "" {
		return slugged
	}
	return Fallback
}

// Namer hands out unique slugs, numbering repeats as name-2, name-3, ...
type Namer struct {
	used map[string]int
}

// NewNamer returns a Namer that treats every name in taken as already used.
func NewNamer(taken ...string) *Namer {
	n := &Namer{used: make(map[string]int, len(taken))}
	for _, t := range taken {
		n.used[t] = 1
	}
	return n
}

// Next returns a slug for s that the Namer has not returned before.
func (n *Namer) Next(s string) string {
	base := ComponentSlug(s)
	name := base
	for count := n.used[base]; n.used[name] > 0; {
		count++
		name = base + "-" + strconv.Itoa(count)
		n.used[base] = count
	}
	n.used[name]++
	return name
}
