package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin used for terminal markdown rendering.
const MarkdownRenderMargin = 2

const defaultCodeTheme = "monokai"

var markdownCodeTheme = defaultCodeTheme

// ConfigureMarkdownCodeTheme selects the syntax theme for code blocks in
// notes. Unknown themes fall back to the default.
func ConfigureMarkdownCodeTheme(theme string) {
	name := strings.ToLower(strings.TrimSpace(theme))
	if _, ok := styles.Registry[name]; !ok {
		markdownCodeTheme = defaultCodeTheme
		return
	}
	markdownCodeTheme = name
}

// RenderMarkdown renders card notes for the terminal, wrapped at width
// (DefaultTermWidth when width is not positive). The result ends in exactly
// one newline.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(notesMarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// notesMarkdownStyle is a compact style for the few lines of a card's notes.
// Headings are bold in the accent color, without # markers.
func notesMarkdownStyle() ansi.StyleConfig {
	muted := ptr("8")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = ptr(color)
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			Margin: ptr(uint(MarkdownRenderMargin)),
		},
		Paragraph: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockSuffix: "\n"},
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:       accent,
				Bold:        ptr(true),
				BlockSuffix: "\n",
			},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted},
			Indent:         ptr(uint(1)),
			IndentToken:    ptr("│ "),
		},
		List:          ansi.StyleList{LevelIndent: 2},
		Item:          ansi.StylePrimitive{BlockPrefix: "- "},
		Enumeration:   ansi.StylePrimitive{BlockPrefix: ". "},
		Task:          ansi.StyleTask{Ticked: "[x] ", Unticked: "[ ] "},
		Emph:          ansi.StylePrimitive{Italic: ptr(true)},
		Strong:        ansi.StylePrimitive{Bold: ptr(true)},
		Strikethrough: ansi.StylePrimitive{CrossedOut: ptr(true)},
		Link:          ansi.StylePrimitive{Color: muted, Underline: ptr(true)},
		LinkText:      ansi.StylePrimitive{Bold: ptr(true)},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: ptr("203")},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: muted},
				Margin:         ptr(uint(MarkdownRenderMargin)),
			},
			Theme: markdownCodeTheme,
		},
		HorizontalRule: ansi.StylePrimitive{Color: muted, Format: "\n────\n"},
		Table: ansi.StyleTable{
			CenterSeparator: ptr("┼"),
			ColumnSeparator: ptr("│"),
			RowSeparator:    ptr("─"),
		},
	}
}

func ptr[T any](v T) *T { return &v }
