package controller

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type rec struct {
	id   int
	name string
}

type fld int

const (
	fldAny fld = iota
	fldName
)

func (f fld) String() string {
	if f == fldName {
		return "name"
	}
	return "any"
}

func (f fld) IsField() bool { return f != fldAny }

// journal is shared by the fakes so tests can assert cross-collaborator order.
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) reset() { j.entries = nil }

type fakeGateway struct {
	log       *journal
	nextID    int
	results   []*rec
	searchErr error
	saveErr   error
	deleteErr error
}

func (g *fakeGateway) InsertOrUpdate(r *rec) error {
	g.log.add("upsert %q", r.name)
	if g.saveErr != nil {
		return g.saveErr
	}
	if r.id == 0 {
		g.nextID++
		r.id = g.nextID
	}
	return nil
}

func (g *fakeGateway) Delete(r *rec) error {
	g.log.add("delete %d", r.id)
	return g.deleteErr
}

func (g *fakeGateway) PrimaryKey(r *rec) (int, bool) { return r.id, true }

func (g *fakeGateway) query(format string, args ...any) ([]*rec, error) {
	g.log.add(format, args...)
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	return g.results, nil
}

func (g *fakeGateway) All(order fld) ([]*rec, error) {
	return g.query("all by %s", order)
}

func (g *fakeGateway) Find(text string, order fld) ([]*rec, error) {
	return g.query("find %q by %s", text, order)
}

func (g *fakeGateway) FindAll(order fld, terms ...string) ([]*rec, error) {
	return g.query("findAll %s by %s", strings.Join(terms, ","), order)
}

func (g *fakeGateway) FindAny(order fld, terms ...string) ([]*rec, error) {
	return g.query("findAny %s by %s", strings.Join(terms, ","), order)
}

func (g *fakeGateway) FindInField(text string, field fld, order fld) ([]*rec, error) {
	return g.query("find %q in %s by %s", text, field, order)
}

func (g *fakeGateway) FindAllInField(field fld, order fld, terms ...string) ([]*rec, error) {
	return g.query("findAll %s in %s by %s", strings.Join(terms, ","), field, order)
}

func (g *fakeGateway) FindAnyInField(field fld, order fld, terms ...string) ([]*rec, error) {
	return g.query("findAny %s in %s by %s", strings.Join(terms, ","), field, order)
}

// screen plays both the edit state and the sink.
type screen struct {
	log      *journal
	current  *rec
	modified bool
}

func (s *screen) IsRecordDataModified() bool { return s.modified }
func (s *screen) CurrentRecord() *rec        { return s.current }

func (s *screen) PositionChanged(index, prior int) { s.log.add("position %d<-%d", index, prior) }
func (s *screen) ListChanged(size int)             { s.log.add("list %d", size) }
func (s *screen) FlushRequested()                  { s.log.add("flush") }

func (s *screen) RecordSelected(r *rec) {
	s.log.add("selected %q", r.name)
	s.current = r
	s.modified = false
}

type reported struct {
	operation string
	err       error
}

type harness struct {
	log     *journal
	gateway *fakeGateway
	screen  *screen
	reports []reported
	ctl     *Controller[*rec, int, fld]
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{log: &journal{}}
	h.gateway = &fakeGateway{log: h.log, nextID: 100}
	h.screen = &screen{log: h.log}
	ctl, err := New(Config[*rec, int, fld]{
		Gateway:   h.gateway,
		EditState: h.screen,
		Sink:      h.screen,
		Reporter: ErrorReporterFunc(func(operation string, err error) {
			h.reports = append(h.reports, reported{operation, err})
		}),
		Order:    fldName,
		NewBlank: func() *rec { return &rec{} },
		IDOf:     func(r *rec) int { return r.id },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.ctl = ctl
	return h
}

func (h *harness) load(t *testing.T, records ...*rec) {
	t.Helper()
	h.ctl.SetFoundRecords(records)
	h.log.reset()
}

func (h *harness) expect(t *testing.T, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, h.log.entries); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config[*rec, int, fld]{})
	if err == nil {
		t.Fatalf("expected error for empty config")
	}
}

func TestLoadNewRecordSavesFirst(t *testing.T) {
	h := newHarness(t)
	h.screen.current = &rec{id: 1, name: "old"}
	h.screen.modified = true

	h.ctl.LoadNewRecord(&rec{id: 2, name: "new"})

	h.expect(t, "flush", `upsert "old"`, `selected "new"`)
}

func TestLoadNewRecordSkipsUnmodified(t *testing.T) {
	h := newHarness(t)
	h.screen.current = &rec{id: 1, name: "old"}

	h.ctl.LoadNewRecord(&rec{id: 2, name: "new"})

	h.expect(t, `selected "new"`)
}

func TestSaveFailureIsReported(t *testing.T) {
	h := newHarness(t)
	h.gateway.saveErr = errors.New("disk full")
	h.screen.current = &rec{id: 1, name: "old"}
	h.screen.modified = true

	h.ctl.LoadNewRecord(&rec{id: 2, name: "new"})

	if len(h.reports) != 1 || h.reports[0].operation != "Insert" {
		t.Fatalf("expected one Insert report, got %+v", h.reports)
	}
	if h.screen.current.name != "new" {
		t.Fatalf("expected switch to proceed after failed save")
	}
}

func TestNavigationSavesRowBeingLeft(t *testing.T) {
	h := newHarness(t)
	a, b := &rec{id: 1, name: "a"}, &rec{id: 2, name: "b"}
	h.load(t, a, b)
	h.screen.modified = true

	h.ctl.Cursor().Next()

	h.expect(t, "position 1<-0", "flush", `upsert "a"`, `selected "b"`)
}

func TestSearchDispatch(t *testing.T) {
	tests := []struct {
		name   string
		field  fld
		option SearchOption
		text   string
		want   string
	}{
		{"empty text fetches all", fldName, FindAny, "   ", "all by name"},
		{"whole anywhere", fldAny, FindWhole, " big cat ", `find "big cat" by name`},
		{"all anywhere", fldAny, FindAll, "big  cat", "findAll big,cat by name"},
		{"any anywhere", fldAny, FindAny, "big cat", "findAny big,cat by name"},
		{"whole in field", fldName, FindWhole, "big cat", `find "big cat" in name by name`},
		{"all in field", fldName, FindAll, "big cat", "findAll big,cat in name by name"},
		{"any in field", fldName, FindAny, "big\tcat", "findAny big,cat in name by name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.ctl.Find(tt.field, tt.option, tt.text)
			if len(h.log.entries) < 2 || h.log.entries[1] != tt.want {
				t.Fatalf("expected query %q, got %v", tt.want, h.log.entries)
			}
		})
	}
}

func TestSearchFlushesPendingEdits(t *testing.T) {
	h := newHarness(t)
	a := &rec{id: 1, name: "a"}
	h.load(t, a)
	h.screen.modified = true
	h.gateway.results = []*rec{a}

	h.ctl.FindTextAnywhere("a", FindWhole)

	h.expect(t, "flush", `upsert "a"`, `selected "a"`, `find "a" by name`, "list 1")
}

func TestSearchFailureEmptiesList(t *testing.T) {
	h := newHarness(t)
	h.load(t, &rec{id: 1, name: "a"}, &rec{id: 2, name: "b"})
	h.gateway.searchErr = errors.New("locked")

	h.ctl.FindTextInField("x", fldName, FindWhole)

	if len(h.reports) != 1 {
		t.Fatalf("expected one report, got %d", len(h.reports))
	}
	if !strings.Contains(h.reports[0].operation, "Find Text in Field name") {
		t.Fatalf("unexpected operation %q", h.reports[0].operation)
	}
	cur := h.ctl.Cursor()
	if cur.Len() != 1 || cur.Current().id != 0 {
		t.Fatalf("expected a single blank record, got %d records", cur.Len())
	}
	if h.screen.current != cur.Current() {
		t.Fatalf("expected the blank to be announced")
	}
}

func TestSetFoundRecordsAnnouncesOnlyNewSelection(t *testing.T) {
	h := newHarness(t)
	a, b := &rec{id: 1, name: "a"}, &rec{id: 2, name: "b"}
	h.load(t, a, b)

	h.ctl.SetFoundRecords([]*rec{a, b})
	h.expect(t, "list 2")

	h.ctl.SetFoundRecords([]*rec{b})
	h.expect(t, "list 2", "list 1", `selected "b"`)
}

func TestRetrieveNow(t *testing.T) {
	h := newHarness(t)
	h.gateway.results = []*rec{{id: 1, name: "a"}}
	got, err := h.ctl.RetrieveNow(fldName, FindAll, "a")
	if err != nil || len(got) != 1 {
		t.Fatalf("expected 1 record, got %d (%v)", len(got), err)
	}

	boom := errors.New("boom")
	h.gateway.searchErr = boom
	got, err = h.ctl.RetrieveNow(fldAny, FindWhole, "a")
	if !errors.Is(err, boom) || got != nil {
		t.Fatalf("expected wrapped error and no records, got %v %v", got, err)
	}
	if len(h.reports) != 0 {
		t.Fatalf("RetrieveNow should return errors, not report them")
	}
	if h.ctl.Cursor().Len() != 1 {
		t.Fatalf("RetrieveNow must not touch the cursor")
	}
}

func TestAddBlankRecordIsIdempotent(t *testing.T) {
	t.Run("fresh cursor", func(t *testing.T) {
		h := newHarness(t)
		h.ctl.AddBlankRecord()
		h.ctl.AddBlankRecord()
		if n := h.ctl.Cursor().Len(); n != 1 {
			t.Fatalf("expected 1 record, got %d", n)
		}
	})

	t.Run("after results", func(t *testing.T) {
		h := newHarness(t)
		h.load(t, &rec{id: 1, name: "a"}, &rec{id: 2, name: "b"})
		h.ctl.AddBlankRecord()
		h.ctl.AddBlankRecord()
		cur := h.ctl.Cursor()
		if cur.Len() != 3 || cur.Index() != 2 {
			t.Fatalf("expected 3 records at index 2, got %d at %d", cur.Len(), cur.Index())
		}
		if cur.Current().id != 0 {
			t.Fatalf("expected blank current record")
		}
	})

	t.Run("modified blank is not reused", func(t *testing.T) {
		h := newHarness(t)
		h.ctl.AddBlankRecord()
		h.screen.current.name = "typed"
		h.screen.modified = true
		h.ctl.AddBlankRecord()
		cur := h.ctl.Cursor()
		if cur.Len() != 2 {
			t.Fatalf("expected 2 records, got %d", cur.Len())
		}
		if cur.RecordAt(0).id == 0 {
			t.Fatalf("expected the typed blank to be saved")
		}
	})
}

func TestCopyCurrentRecord(t *testing.T) {
	h := newHarness(t)
	a := &rec{id: 1, name: "alpha"}
	h.load(t, a)

	name := Binding[*rec, string]{
		Name: "name",
		Get:  func(r *rec) string { return r.name },
		Set:  func(r *rec, v string) { r.name = v },
	}
	h.ctl.CopyCurrentRecord([]FieldCopier[*rec]{name})

	cur := h.ctl.Cursor()
	copied := cur.Current()
	if copied == a || copied.id != 0 || copied.name != "alpha" {
		t.Fatalf("expected an unsaved copy of alpha, got %+v", copied)
	}
	if h.screen.current != copied {
		t.Fatalf("expected the copy to be displayed")
	}
	if cur.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", cur.Len())
	}
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	h.gateway.deleteErr = errors.New("constraint")
	err := h.ctl.Delete(&rec{id: 4})
	if !errors.Is(err, h.gateway.deleteErr) {
		t.Fatalf("expected wrapped gateway error, got %v", err)
	}
}

func TestDeleteCurrentRecord(t *testing.T) {
	t.Run("last row", func(t *testing.T) {
		h := newHarness(t)
		a, b := &rec{id: 1, name: "a"}, &rec{id: 2, name: "b"}
		h.load(t, a, b)
		h.ctl.Cursor().Last()
		h.log.reset()
		h.screen.modified = true

		if err := h.ctl.DeleteCurrentRecord(); err != nil {
			t.Fatalf("DeleteCurrentRecord: %v", err)
		}
		h.expect(t, "delete 2", "position 0<-1", "list 1", `selected "a"`)
	})

	t.Run("unsaved row skips storage", func(t *testing.T) {
		h := newHarness(t)
		h.ctl.AddBlankRecord()
		h.log.reset()

		if err := h.ctl.DeleteCurrentRecord(); err != nil {
			t.Fatalf("DeleteCurrentRecord: %v", err)
		}
		h.expect(t, "list 1", `selected ""`)
	})

	t.Run("storage failure keeps row", func(t *testing.T) {
		h := newHarness(t)
		h.load(t, &rec{id: 1, name: "a"})
		h.gateway.deleteErr = errors.New("busy")

		if err := h.ctl.DeleteCurrentRecord(); err == nil {
			t.Fatalf("expected error")
		}
		if h.ctl.Cursor().Current().id != 1 {
			t.Fatalf("expected the record to remain")
		}
	})
}

func TestParseSearchOption(t *testing.T) {
	for _, opt := range []SearchOption{FindWhole, FindAll, FindAny} {
		got, err := ParseSearchOption(strings.ToUpper(opt.String()))
		if err != nil || got != opt {
			t.Fatalf("ParseSearchOption(%q) = %v, %v", opt, got, err)
		}
	}
	if _, err := ParseSearchOption("some"); err == nil {
		t.Fatalf("expected error for unknown option")
	}
}
