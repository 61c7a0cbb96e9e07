// Package model defines the card record and its fields.
// These types are shared by storage, the browse session, export and CLI output.
package model

import (
	"strconv"
	"time"
)

// Card is one entry in the card file.
type Card struct {
	// ID is the storage identity. Zero means the card has never been saved.
	ID int `json:"id"`

	Site     string `json:"site"`
	Username string `json:"username"`
	Password string `json:"password"`

	// Notes is free text, rendered as markdown by `rolo show`.
	Notes string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard returns a blank, unsaved card.
func NewCard() *Card {
	return &Card{}
}

// CardID returns the card's identity, 0 for nil or unsaved cards.
func CardID(c *Card) int {
	if c == nil {
		return 0
	}
	return c.ID
}

// IsBlank reports whether every editable field is empty.
func (c *Card) IsBlank() bool {
	for _, f := range Fields() {
		if Value(c, f) != "" {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares nothing with c.
func (c *Card) Clone() *Card {
	dup := *c
	return &dup
}

// Title is the short label shown in lists.
func (c *Card) Title() string {
	if c.Site != "" {
		return c.Site
	}
	if c.ID == 0 {
		return "(new card)"
	}
	return "card " + strconv.Itoa(c.ID)
}
