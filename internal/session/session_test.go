package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/rolo/internal/config"
	"github.com/aidanlsb/rolo/internal/controller"
	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/store"
	"github.com/aidanlsb/rolo/internal/ui"
)

type errorLog struct {
	ops []string
}

func (l *errorLog) Report(operation string, err error) {
	l.ops = append(l.ops, operation)
}

func openStore(t *testing.T, cards ...*model.Card) *store.Store {
	t.Helper()
	st, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	for _, c := range cards {
		if err := st.InsertOrUpdate(c); err != nil {
			t.Fatalf("InsertOrUpdate: %v", err)
		}
	}
	return st
}

func testOptions(gw Gateway, errs *errorLog) Options {
	return Options{
		Gateway:  gw,
		Order:    model.FieldSite,
		Reporter: errs,
		Display:  ui.NewDisplayContextWithWidth(100),
	}
}

// started returns a session that has shown its first card, writing to out.
func started(t *testing.T, opts Options, out io.Writer) *Session {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.screen.out = out
	s.start()
	return s
}

func run(t *testing.T, opts Options, script string) (*Session, string) {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var out bytes.Buffer
	if err := s.Run(context.Background(), strings.NewReader(script), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return s, out.String()
}

func sites(t *testing.T, st *store.Store) []string {
	t.Helper()
	cards, err := st.All(model.FieldSite)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	var out []string
	for _, c := range cards {
		out = append(out, c.Site)
	}
	return out
}

func TestNewRequiresGateway(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without gateway")
	}
}

func TestRunShowsFirstCardInOrder(t *testing.T) {
	beta := &model.Card{Site: "beta"}
	alpha := &model.Card{Site: "alpha", Username: "al"}
	st := openStore(t, beta, alpha)

	s, out := run(t, testOptions(st, &errorLog{}), "")

	if !strings.Contains(out, "alpha") || !strings.Contains(out, "[1/2]") {
		t.Fatalf("expected alpha as card 1 of 2, got:\n%s", out)
	}
	if got := s.State().LastRecordID; got != alpha.ID {
		t.Fatalf("expected alpha (%d) on display, got %d", alpha.ID, got)
	}
}

func TestNavigationSavesEdits(t *testing.T) {
	st := openStore(t, &model.Card{Site: "a"}, &model.Card{Site: "b"})
	errs := &errorLog{}

	run(t, testOptions(st, errs), "set username \"bob smith\"\nn\np\nlast\nquit\n")

	cards, err := st.FindInField("a", model.FieldSite, model.FieldSite)
	if err != nil {
		t.Fatalf("FindInField: %v", err)
	}
	if len(cards) != 1 || cards[0].Username != "bob smith" {
		t.Fatalf("expected edit saved on navigation, got %+v", cards)
	}
	if len(errs.ops) != 0 {
		t.Fatalf("unexpected errors: %v", errs.ops)
	}
}

func TestNewCards(t *testing.T) {
	t.Run("edited card saved on quit", func(t *testing.T) {
		st := openStore(t, &model.Card{Site: "a"})
		run(t, testOptions(st, &errorLog{}), "new\nset site gamma\nquit\n")
		if diff := cmp.Diff([]string{"a", "gamma"}, sites(t, st)); diff != "" {
			t.Fatalf("sites (-want +got):\n%s", diff)
		}
	})

	t.Run("untouched blank not saved", func(t *testing.T) {
		st := openStore(t, &model.Card{Site: "a"})
		run(t, testOptions(st, &errorLog{}), "new\nnew\nfirst\n")
		if diff := cmp.Diff([]string{"a"}, sites(t, st)); diff != "" {
			t.Fatalf("sites (-want +got):\n%s", diff)
		}
	})

	t.Run("empty store starts on a blank", func(t *testing.T) {
		st := openStore(t)
		run(t, testOptions(st, &errorLog{}), "set notes \"first line\\nsecond\"\n")
		cards, err := st.All(model.FieldAll)
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		if len(cards) != 1 || cards[0].Notes != "first line\nsecond" {
			t.Fatalf("expected one saved card, got %+v", cards)
		}
	})
}

func TestCopy(t *testing.T) {
	st := openStore(t, &model.Card{Site: "mail", Username: "me", Password: "one", Notes: "n"})

	_, out := run(t, testOptions(st, &errorLog{}), "copy\nset password two\n")
	if !strings.Contains(out, "copied site, username") {
		t.Fatalf("expected copied fields to be named, got:\n%s", out)
	}
	if !strings.Contains(out, "(modified: password)") {
		t.Fatalf("expected pending password edit in header, got:\n%s", out)
	}

	cards, err := st.All(model.FieldAll)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	got := cards[1]
	if got.Site != "mail" || got.Username != "me" || got.Password != "two" || got.Notes != "" {
		t.Fatalf("unexpected copy: %+v", got)
	}
}

func TestFindAndList(t *testing.T) {
	st := openStore(t,
		&model.Card{Site: "github", Username: "work"},
		&model.Card{Site: "gitlab", Username: "home"},
		&model.Card{Site: "bank", Username: "home"},
	)

	s, out := run(t, testOptions(st, &errorLog{}), "find username home\nlist\n")

	if !strings.Contains(out, "(2 cards)") {
		t.Fatalf("expected two cards found, got:\n%s", out)
	}
	if !strings.Contains(out, "›") {
		t.Fatalf("expected current card marker in list, got:\n%s", out)
	}
	want := config.State{
		Version:      config.StateVersion,
		LastSearch:   "home",
		LastField:    "username",
		LastOption:   "whole",
		LastRecordID: s.ctrl.Cursor().Current().ID,
	}
	if got := s.State(); got != want {
		t.Fatalf("expected state %+v, got %+v", want, got)
	}
	if s.ctrl.Cursor().Current().Site != "bank" {
		t.Fatalf("expected bank first by site, got %q", s.ctrl.Cursor().Current().Site)
	}

	_, out = run(t, testOptions(st, &errorLog{}), "find any zebra giraffe\n")
	if !strings.Contains(out, "(0 cards)") {
		t.Fatalf("expected no cards found, got:\n%s", out)
	}
}

func TestOrderRepeatsSearch(t *testing.T) {
	st := openStore(t,
		&model.Card{Site: "b", Username: "x"},
		&model.Card{Site: "a", Username: "y"},
	)
	s := started(t, testOptions(st, &errorLog{}), io.Discard)
	if s.ctrl.Cursor().Current().Site != "a" {
		t.Fatalf("expected a first, got %q", s.ctrl.Cursor().Current().Site)
	}

	if err := s.execute("order username"); err != nil {
		t.Fatalf("order: %v", err)
	}
	var got []string
	for _, c := range s.ctrl.Cursor().Records() {
		got = append(got, c.Site)
	}
	if diff := cmp.Diff([]string{"b", "a"}, got); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	// The card on display follows the reorder.
	if s.ctrl.Cursor().Current().Site != "a" {
		t.Fatalf("expected a to stay on display, got %q", s.ctrl.Cursor().Current().Site)
	}

	if err := s.execute("order color"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDelete(t *testing.T) {
	st := openStore(t, &model.Card{Site: "a"}, &model.Card{Site: "b"})
	s := started(t, testOptions(st, &errorLog{}), io.Discard)

	if err := s.execute("set username pending"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.execute("delete"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, sites(t, st)); diff != "" {
		t.Fatalf("sites (-want +got):\n%s", diff)
	}
	if s.editor.CurrentRecord().Site != "b" || s.editor.IsRecordDataModified() {
		t.Fatalf("expected clean b on display, got %+v", s.editor.CurrentRecord())
	}
}

func TestGoto(t *testing.T) {
	st := openStore(t, &model.Card{Site: "a"}, &model.Card{Site: "b"}, &model.Card{Site: "c"})
	s := started(t, testOptions(st, &errorLog{}), io.Discard)

	if err := s.execute("goto 3"); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if s.ctrl.Cursor().Current().Site != "c" {
		t.Fatalf("expected c, got %q", s.ctrl.Cursor().Current().Site)
	}
	for _, line := range []string{"goto 0", "goto 4", "goto x", "goto"} {
		if err := s.execute(line); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}

func TestPageSearch(t *testing.T) {
	st := openStore(t, &model.Card{Site: "Light Co", Notes: "lighthouse keeper"})
	s := started(t, testOptions(st, &errorLog{}), io.Discard)

	selection := func() (model.Field, ui.Span) {
		t.Helper()
		for _, v := range s.screen.views {
			if v.selection != nil {
				return v.field, *v.selection
			}
		}
		t.Fatal("nothing selected")
		return model.FieldAll, ui.Span{}
	}

	steps := []struct {
		line  string
		field model.Field
		span  ui.Span
	}{
		{"/light lighthouse", model.FieldSite, ui.Span{Start: 0, End: 5}},
		{"next", model.FieldNotes, ui.Span{Start: 0, End: 5}},
		{"next", model.FieldNotes, ui.Span{Start: 0, End: 10}},
		{"prev", model.FieldNotes, ui.Span{Start: 0, End: 5}},
		{"prev", model.FieldSite, ui.Span{Start: 0, End: 5}},
	}
	for _, step := range steps {
		if err := s.execute(step.line); err != nil {
			t.Fatalf("%s: %v", step.line, err)
		}
		field, span := selection()
		if field != step.field || span != step.span {
			t.Fatalf("%s: expected %s %v, got %s %v", step.line, step.field, step.span, field, span)
		}
		if s.screen.focus != step.field {
			t.Fatalf("%s: expected focus on %s, got %s", step.line, step.field, s.screen.focus)
		}
	}
	if err := s.execute("prev"); err == nil {
		t.Fatal("expected no earlier match")
	}

	// Editing invalidates the matches.
	if err := s.execute("set username someone"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.execute("next"); err == nil {
		t.Fatal("expected no search after edit")
	}
	if err := s.execute("/absent"); err == nil {
		t.Fatal("expected no match error")
	}
}

func TestPasswordMasking(t *testing.T) {
	st := openStore(t, &model.Card{Site: "bank", Password: "s3cret"})
	var out bytes.Buffer
	s := started(t, testOptions(st, &errorLog{}), &out)

	if strings.Contains(out.String(), "s3cret") || !strings.Contains(out.String(), ui.MaskedValue) {
		t.Fatalf("expected masked password, got:\n%s", out.String())
	}
	out.Reset()
	if err := s.execute("reveal"); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !strings.Contains(out.String(), "s3cret") {
		t.Fatalf("expected revealed password, got:\n%s", out.String())
	}
}

func TestRestore(t *testing.T) {
	a := &model.Card{Site: "alpha", Username: "home"}
	b := &model.Card{Site: "beta", Username: "home"}
	c := &model.Card{Site: "gamma", Username: "work"}
	st := openStore(t, a, b, c)

	opts := testOptions(st, &errorLog{})
	opts.Restore = &config.State{
		LastSearch:   "home",
		LastField:    "username",
		LastOption:   "any",
		LastRecordID: b.ID,
	}
	s := started(t, opts, io.Discard)

	if got := s.ctrl.Cursor().Len(); got != 2 {
		t.Fatalf("expected restored search to find 2 cards, got %d", got)
	}
	if got := s.ctrl.Cursor().Current().ID; got != b.ID {
		t.Fatalf("expected beta (%d) restored, got %d", b.ID, got)
	}
	if got := s.State().LastOption; got != "any" {
		t.Fatalf("expected option any, got %q", got)
	}
}

type failingGateway struct {
	*store.Store
}

func (failingGateway) InsertOrUpdate(*model.Card) error { return errors.New("disk full") }

func TestSaveFailureIsReported(t *testing.T) {
	st := openStore(t, &model.Card{Site: "a"})
	errs := &errorLog{}
	s := started(t, testOptions(failingGateway{st}, errs), io.Discard)

	if err := s.execute("set site b"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.execute("save"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if diff := cmp.Diff([]string{"Insert"}, errs.ops); diff != "" {
		t.Fatalf("reported (-want +got):\n%s", diff)
	}
	if !s.editor.IsRecordDataModified() {
		t.Fatal("expected card to stay modified after a failed save")
	}
}

func TestAutosave(t *testing.T) {
	st := openStore(t)
	opts := testOptions(st, &errorLog{})
	opts.AutosaveDelay = 20 * time.Millisecond

	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in, feed := io.Pipe()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), in, &out) }()

	if _, err := io.WriteString(feed, "set site auto\n"); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		n, err := st.Count()
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("autosave never stored the card")
		}
		time.Sleep(10 * time.Millisecond)
	}

	feed.Close()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "autosaved auto") {
		t.Fatalf("expected autosave notice, got:\n%s", out.String())
	}
}

func TestRunStopsOnContext(t *testing.T) {
	st := openStore(t)
	s, err := New(testOptions(st, &errorLog{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in, feed := io.Pipe()
	defer feed.Close()
	if err := s.Run(ctx, in, io.Discard); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, out := run(t, testOptions(openStore(t), &errorLog{}), "frobnicate\nhelp\n")
	if !strings.Contains(out, `unknown command "frobnicate"`) {
		t.Fatalf("expected unknown command error, got:\n%s", out)
	}
	if !strings.Contains(out, "Commands:") {
		t.Fatalf("expected help text, got:\n%s", out)
	}
}

func TestParseFind(t *testing.T) {
	tests := []struct {
		args []string
		want search
	}{
		{nil, search{field: model.FieldAll, option: controller.FindWhole}},
		{[]string{"site"}, search{text: "site", field: model.FieldAll, option: controller.FindWhole}},
		{[]string{"site", "git*"}, search{text: "git*", field: model.FieldSite, option: controller.FindWhole}},
		{[]string{"any", "a", "b"}, search{text: "a b", field: model.FieldAll, option: controller.FindAny}},
		{[]string{"all", "a", "b"}, search{text: "a b", field: model.FieldAll, option: controller.FindAll}},
		{[]string{"user", "any", "x", "y"}, search{text: "x y", field: model.FieldUsername, option: controller.FindAny}},
		{[]string{"notes", "whole"}, search{text: "whole", field: model.FieldNotes, option: controller.FindWhole}},
	}
	for _, tt := range tests {
		got := parseFind(tt.args, controller.FindWhole)
		if got != tt.want {
			t.Errorf("parseFind(%q) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "set site  github", want: []string{"set", "site", "github"}},
		{line: `set notes "two\nlines"`, want: []string{"set", "notes", "two\nlines"}},
		{line: `set password 'a\b "c"'`, want: []string{"set", "password", `a\b "c"`}},
		{line: `set site ""`, want: []string{"set", "site", ""}},
		{line: `find a\ b`, want: []string{"find", "a b"}},
		{line: `set site "open`, wantErr: true},
		{line: `set site x\`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitArgs(%q): expected error", tt.line)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitArgs(%q): %v", tt.line, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("splitArgs(%q) (-want +got):\n%s", tt.line, diff)
		}
	}
}
