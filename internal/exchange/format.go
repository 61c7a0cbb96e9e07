// Package exchange moves cards to and from markdown files with YAML
// frontmatter, one card per file.
//
// A card file looks like:
//
//	---
//	site: github.com
//	username: octo
//	password: hunter2
//	---
//
//	Notes, as markdown.
//
// When site is missing from the frontmatter, the first top-level heading of
// the body is used instead and removed from the notes.
package exchange

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/strutil"
)

// ErrEmptyCard indicates a file that holds no card data.
var ErrEmptyCard = errors.New("file contains no card data")

const delimiter = "---"

// frontmatter is the YAML header of a card file. Username and password may
// be null or absent.
type frontmatter struct {
	ID       int       `yaml:"id,omitempty"`
	Site     string    `yaml:"site"`
	Username *string   `yaml:"username,omitempty"`
	Password *string   `yaml:"password,omitempty"`
	Created  time.Time `yaml:"created,omitempty"`
	Updated  time.Time `yaml:"updated,omitempty"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Encode renders c as a card file.
func Encode(c *model.Card) ([]byte, error) {
	fm := frontmatter{
		ID:       c.ID,
		Site:     c.Site,
		Username: optional(c.Username),
		Password: optional(c.Password),
		Created:  c.CreatedAt.UTC(),
		Updated:  c.UpdatedAt.UTC(),
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString(delimiter + "\n")

	if notes := strings.TrimRight(c.Notes, "\n"); notes != "" {
		buf.WriteString("\n")
		buf.WriteString(notes)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Decode parses a card file. The returned card keeps the file's id, if any.
func Decode(data []byte) (*model.Card, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(content, "\n")

	var fm frontmatter
	body := content
	if end, ok := frontmatterEnd(lines); ok {
		raw := strings.Join(lines[1:end], "\n")
		dec := yaml.NewDecoder(strings.NewReader(raw))
		dec.KnownFields(true)
		// An empty header decodes to io.EOF, which leaves fm zero.
		if err := dec.Decode(&fm); err != nil && strings.TrimSpace(raw) != "" {
			return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
		}
		body = strings.Join(lines[end+1:], "\n")
	}

	c := &model.Card{
		ID:        fm.ID,
		Site:      strings.TrimSpace(fm.Site),
		Username:  strutil.EmptyIfNil(fm.Username),
		Password:  strutil.EmptyIfNil(fm.Password),
		CreatedAt: fm.Created,
		UpdatedAt: fm.Updated,
	}

	if c.Site == "" {
		c.Site, body = takeTitle(body)
	}
	c.Notes = strings.TrimRight(strings.TrimLeft(body, "\n"), "\n ")

	if c.IsBlank() {
		return nil, ErrEmptyCard
	}
	return c, nil
}

// frontmatterEnd returns the index of the closing delimiter line. The header
// only counts when the very first line is a delimiter.
func frontmatterEnd(lines []string) (int, bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != delimiter {
		return 0, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			return i, true
		}
	}
	return 0, false
}

// takeTitle finds the first level-1 heading in body and returns its text
// along with body minus the heading line.
func takeTitle(body string) (string, string) {
	source := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var heading *ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			heading = h
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if heading == nil || heading.Lines().Len() == 0 {
		return "", body
	}

	var title strings.Builder
	for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			title.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				title.WriteByte(' ')
			}
		}
	}

	// Drop the whole source line holding the heading text.
	offset := heading.Lines().At(0).Start
	lineStart := strings.LastIndexByte(body[:offset], '\n') + 1
	lineEnd := strings.IndexByte(body[offset:], '\n')
	rest := body[:lineStart]
	if lineEnd >= 0 {
		rest += body[offset+lineEnd+1:]
	}
	return strings.TrimSpace(title.String()), rest
}
