package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/pagesearch"
	"github.com/aidanlsb/rolo/internal/ui"
)

// Screen is the text presentation of a browse session. It implements
// controller.Sink: every selected card is printed, and flush requests are
// passed to the editor.
type Screen struct {
	out    io.Writer
	editor *Editor
	views  []*fieldView

	index int
	size  int

	// focus is the field that last received focus, FieldAll for none.
	focus model.Field

	// reveal shows passwords in full.
	reveal bool

	// holding defers rendering while a batch of changes is applied.
	holding int
}

// NewScreen returns a Screen for editor writing to out.
func NewScreen(out io.Writer, editor *Editor) *Screen {
	s := &Screen{out: out, editor: editor, size: 1}
	for _, f := range model.Fields() {
		s.views = append(s.views, &fieldView{screen: s, field: f})
	}
	return s
}

// PositionChanged implements controller.Sink.
func (s *Screen) PositionChanged(index, prior int) {
	s.index = index
}

// ListChanged implements controller.Sink.
func (s *Screen) ListChanged(size int) {
	s.size = size
	if s.index >= size {
		s.index = size - 1
	}
}

// RecordSelected implements controller.Sink.
func (s *Screen) RecordSelected(c *model.Card) {
	s.editor.Show(c)
	s.clearSelection()
	s.focus = model.FieldAll
	s.Render()
}

// FlushRequested implements controller.Sink.
func (s *Screen) FlushRequested() {
	s.editor.Flush()
}

// containers returns the displayed fields in display order, for in-page
// search.
func (s *Screen) containers() []pagesearch.Container {
	out := make([]pagesearch.Container, len(s.views))
	for i, v := range s.views {
		out[i] = v
	}
	return out
}

// batch runs fn with rendering held, then renders once.
func (s *Screen) batch(fn func()) {
	s.holding++
	defer func() {
		s.holding--
		s.Render()
	}()
	fn()
}

// Render prints the card on display.
func (s *Screen) Render() {
	c := s.editor.CurrentRecord()
	if c == nil || s.holding > 0 {
		return
	}

	header := ui.Header(c.Title()) + " " + ui.Hint(fmt.Sprintf("[%d/%d]", s.index+1, s.size))
	if s.editor.IsRecordDataModified() {
		header += " " + ui.Accent.Render(modifiedLabel(s.editor.Pending()))
	}

	lines := make([]ui.FieldLine, 0, len(s.views))
	for _, v := range s.views {
		lines = append(lines, ui.FieldLine{
			Label:     v.field.String(),
			Value:     v.Text(),
			Masked:    v.field == model.FieldPassword && !s.reveal,
			Selection: v.selection,
			Focused:   v.field == s.focus,
		})
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, header)
	fmt.Fprint(s.out, ui.RenderFields(lines))
}

// modifiedLabel names the fields with unflushed edits, if any.
func modifiedLabel(pending []model.Field) string {
	if len(pending) == 0 {
		return "(modified)"
	}
	names := make([]string, len(pending))
	for i, f := range pending {
		names[i] = f.String()
	}
	return "(modified: " + strings.Join(names, ", ") + ")"
}

// Println prints a status line.
func (s *Screen) Println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Screen) clearSelection() {
	for _, v := range s.views {
		v.selection = nil
	}
}

// fieldView is one displayed field, searchable in place.
type fieldView struct {
	screen    *Screen
	field     model.Field
	selection *ui.Span
}

// Text implements pagesearch.Container.
func (v *fieldView) Text() string {
	return v.screen.editor.Text(v.field)
}

// Select implements pagesearch.Container. Only one field shows a selection
// at a time.
func (v *fieldView) Select(start, end int) {
	v.screen.clearSelection()
	v.selection = &ui.Span{Start: start, End: end}
}

// Focus implements pagesearch.Container.
func (v *fieldView) Focus() {
	v.screen.focus = v.field
}
