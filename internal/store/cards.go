package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/sqlutil"
)

const cardColumns = `id, site, username, password, notes, created_at, updated_at`

// now is replaced in tests.
var now = time.Now

// InsertOrUpdate saves c. A card with ID 0 is inserted and receives its new
// ID; any other card is updated in place.
func (s *Store) InsertOrUpdate(c *model.Card) error {
	ts := now()
	if c.ID == 0 {
		res, err := s.db.Exec(`
			INSERT INTO cards (site, username, password, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.Site, c.Username, c.Password, c.Notes, ts.Unix(), ts.Unix())
		if err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		c.ID = int(id)
		c.CreatedAt = time.Unix(ts.Unix(), 0)
		c.UpdatedAt = c.CreatedAt
		return nil
	}

	res, err := s.db.Exec(`
		UPDATE cards SET site = ?, username = ?, password = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, c.Site, c.Username, c.Password, c.Notes, ts.Unix(), c.ID)
	if err != nil {
		return fmt.Errorf("update card %d: %w", c.ID, err)
	}
	if err := requireRow(res, c.ID); err != nil {
		return err
	}
	c.UpdatedAt = time.Unix(ts.Unix(), 0)
	return nil
}

// Delete removes c from storage.
func (s *Store) Delete(c *model.Card) error {
	if c.ID == 0 {
		return fmt.Errorf("delete unsaved card: %w", ErrNotFound)
	}
	res, err := s.db.Exec(`DELETE FROM cards WHERE id = ?`, c.ID)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", c.ID, err)
	}
	return requireRow(res, c.ID)
}

func requireRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	return nil
}

// PrimaryKey returns the card's ID, or false if it has never been saved.
func (s *Store) PrimaryKey(c *model.Card) (int, bool) {
	if c == nil || c.ID == 0 {
		return 0, false
	}
	return c.ID, true
}

// Get returns the cards with the given IDs, ordered by ID. Unknown IDs are
// skipped.
func (s *Store) Get(ids ...int) ([]*model.Card, error) {
	ph, args := sqlutil.InClauseArgs(ids)
	rows, err := s.db.Query(`SELECT `+cardColumns+` FROM cards WHERE id IN (`+ph+`) ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, scanCard)
}

// GetOne returns a single card or ErrNotFound.
func (s *Store) GetOne(id int) (*model.Card, error) {
	cards, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	return cards[0], nil
}

// Count returns the number of stored cards.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n)
	return n, err
}

// All returns every card sorted by order.
func (s *Store) All(order model.Field) ([]*model.Card, error) {
	return s.query(matchAll, order)
}

// Find returns cards where any field contains text. `*` and `?` in text are
// wildcards for any run of characters and any single character.
func (s *Store) Find(text string, order model.Field) ([]*model.Card, error) {
	return s.query(anyField(text), order)
}

// FindAll returns cards where every term occurs in some field.
func (s *Store) FindAll(order model.Field, terms ...string) ([]*model.Card, error) {
	return s.query(and(mapTerms(terms, anyField)...), order)
}

// FindAny returns cards where at least one term occurs in some field.
func (s *Store) FindAny(order model.Field, terms ...string) ([]*model.Card, error) {
	return s.query(or(mapTerms(terms, anyField)...), order)
}

// FindInField returns cards whose field contains text.
func (s *Store) FindInField(text string, field, order model.Field) ([]*model.Card, error) {
	return s.query(inField(field)(text), order)
}

// FindAllInField returns cards whose field contains every term.
func (s *Store) FindAllInField(field, order model.Field, terms ...string) ([]*model.Card, error) {
	return s.query(and(mapTerms(terms, inField(field))...), order)
}

// FindAnyInField returns cards whose field contains at least one term.
func (s *Store) FindAnyInField(field, order model.Field, terms ...string) ([]*model.Card, error) {
	return s.query(or(mapTerms(terms, inField(field))...), order)
}

func (s *Store) query(where condition, order model.Field) ([]*model.Card, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + cardColumns + ` FROM cards WHERE `)
	b.WriteString(where.sql)
	b.WriteString(` ORDER BY `)
	if order.IsField() {
		b.WriteString(order.Column() + ` COLLATE NOCASE, `)
	}
	b.WriteString(`id`)

	rows, err := s.db.Query(b.String(), where.args...)
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}
	cards, err := sqlutil.ScanRows(rows, scanCard)
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}
	return cards, nil
}

func scanCard(rows *sql.Rows) (*model.Card, error) {
	var c model.Card
	var created, updated int64
	if err := rows.Scan(&c.ID, &c.Site, &c.Username, &c.Password, &c.Notes, &created, &updated); err != nil {
		return nil, err
	}
	c.CreatedAt = time.Unix(created, 0)
	c.UpdatedAt = time.Unix(updated, 0)
	return &c, nil
}
