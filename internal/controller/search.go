package controller

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/rolo/internal/strutil"
)

// SearchOption selects how search text is matched.
type SearchOption int

const (
	// FindWhole matches the text as a single (possibly wildcarded) term.
	FindWhole SearchOption = iota
	// FindAll requires every whitespace-separated term to match.
	FindAll
	// FindAny requires at least one whitespace-separated term to match.
	FindAny
)

var searchOptionNames = map[SearchOption]string{
	FindWhole: "whole",
	FindAll:   "all",
	FindAny:   "any",
}

func (o SearchOption) String() string {
	if name, ok := searchOptionNames[o]; ok {
		return name
	}
	return fmt.Sprintf("SearchOption(%d)", int(o))
}

// ParseSearchOption parses "whole", "all" or "any".
func ParseSearchOption(s string) (SearchOption, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for opt, name := range searchOptionNames {
		if name == key {
			return opt, nil
		}
	}
	return FindWhole, fmt.Errorf("unknown search option %q (want whole, all or any)", s)
}

// FindTextInField searches field for text and installs the results. A storage
// failure is reported and leaves an empty result list.
func (c *Controller[R, PK, F]) FindTextInField(dirtyText string, field F, option SearchOption) {
	text := strings.TrimSpace(dirtyText)
	found, err := c.findRecordsInField(text, field, option)
	if err != nil {
		c.reporter.Report(fmt.Sprintf("Find Text in Field %s with %s", field, option), err)
		found = nil
	}
	c.SetFoundRecords(found)
}

// FindTextAnywhere searches every field for text and installs the results. A
// storage failure is reported and leaves an empty result list.
func (c *Controller[R, PK, F]) FindTextAnywhere(dirtyText string, option SearchOption) {
	text := strings.TrimSpace(dirtyText)
	found, err := c.findRecordsAnywhere(text, option)
	if err != nil {
		c.reporter.Report("Find Text anywhere", err)
		found = nil
	}
	c.SetFoundRecords(found)
}

// Find dispatches to FindTextInField or FindTextAnywhere depending on
// whether field names a real field.
func (c *Controller[R, PK, F]) Find(field F, option SearchOption, text string) {
	if field.IsField() {
		c.FindTextInField(text, field, option)
		return
	}
	c.FindTextAnywhere(text, option)
}

// RetrieveNow runs a search and returns the results without touching the
// cursor or reporting failures. Pending edits are saved first, as for Find.
func (c *Controller[R, PK, F]) RetrieveNow(field F, option SearchOption, text string) ([]R, error) {
	text = strings.TrimSpace(text)
	var (
		found []R
		err   error
	)
	if field.IsField() {
		found, err = c.findRecordsInField(text, field, option)
	} else {
		found, err = c.findRecordsAnywhere(text, option)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve %s %s: %w", field, option, err)
	}
	return found, nil
}

func (c *Controller[R, PK, F]) findRecordsInField(text string, field F, option SearchOption) ([]R, error) {
	// Storage is searched, not the screen, so pending edits go in first.
	c.LoadNewRecord(c.cursor.Current())

	if text == "" {
		return c.gateway.All(c.order)
	}
	switch option {
	case FindWhole:
		return c.gateway.FindInField(text, field, c.order)
	case FindAll:
		return c.gateway.FindAllInField(field, c.order, strutil.SplitText(text)...)
	case FindAny:
		return c.gateway.FindAnyInField(field, c.order, strutil.SplitText(text)...)
	default:
		panic(fmt.Sprintf("controller: unhandled search option %v", option))
	}
}

func (c *Controller[R, PK, F]) findRecordsAnywhere(text string, option SearchOption) ([]R, error) {
	c.LoadNewRecord(c.cursor.Current())

	if text == "" {
		return c.gateway.All(c.order)
	}
	switch option {
	case FindWhole:
		return c.gateway.Find(text, c.order)
	case FindAll:
		return c.gateway.FindAll(c.order, strutil.SplitText(text)...)
	case FindAny:
		return c.gateway.FindAny(c.order, strutil.SplitText(text)...)
	default:
		panic(fmt.Sprintf("controller: unhandled search option %v", option))
	}
}
