package ui

import "strings"

// MaskedValue replaces hidden values such as passwords.
const MaskedValue = "••••••••"

// FieldLine is one labelled value of a displayed record.
type FieldLine struct {
	Label string
	Value string

	// Masked hides the value unless part of it is selected.
	Masked bool

	// Selection is a rune range [Start, End) to highlight, or nil.
	Selection *Span

	// Focused marks the field holding input focus.
	Focused bool
}

// Span is a half-open rune range.
type Span struct {
	Start, End int
}

// RenderFields renders labelled values as an aligned two-column block.
func RenderFields(lines []FieldLine) string {
	t := NewTable(2)
	t.StyleColumn(0, AccentBold)
	for _, line := range lines {
		label := line.Label
		if line.Focused {
			label = "›" + label
		} else {
			label = " " + label
		}

		value := line.Value
		switch {
		case line.Selection != nil:
			value = Highlight(value, line.Selection.Start, line.Selection.End)
		case line.Masked && value != "":
			value = Muted.Render(MaskedValue)
		}

		// Multi-line values continue under the value column.
		parts := strings.Split(value, "\n")
		t.AddRow(label, parts[0])
		for _, cont := range parts[1:] {
			t.AddRow("", cont)
		}
	}
	return t.String()
}

// Highlight renders text with the rune range [start, end) in the selection
// style. Out-of-range bounds are clamped.
func Highlight(text string, start, end int) string {
	runes := []rune(text)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))
	if start == end {
		return text
	}
	return string(runes[:start]) + Selected.Render(string(runes[start:end])) + string(runes[end:])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
