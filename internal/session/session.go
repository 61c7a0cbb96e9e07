// Package session runs an interactive browse session over the card store.
// One card is on display at a time; commands are read line by line.
//
// All controller work happens on the goroutine that calls Run. Autosave
// deadlines fire on timer goroutines and are handed to Run over a channel.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/rolo/internal/autosave"
	"github.com/aidanlsb/rolo/internal/config"
	"github.com/aidanlsb/rolo/internal/controller"
	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/pagesearch"
	"github.com/aidanlsb/rolo/internal/report"
	"github.com/aidanlsb/rolo/internal/strutil"
	"github.com/aidanlsb/rolo/internal/ui"
)

// Gateway is the card store as the session sees it.
type Gateway = controller.Gateway[*model.Card, int, model.Field]

// Options configures a Session.
type Options struct {
	Gateway Gateway

	// Order is the initial sort field.
	Order model.Field

	// SearchOption is used by find when no option is given.
	SearchOption controller.SearchOption

	// AutosaveDelay is the idle time before edits are saved. Zero disables
	// autosave.
	AutosaveDelay time.Duration

	// Restore, if set, repeats its search and returns to its card on start.
	Restore *config.State

	// Reporter shows failed saves and searches. Defaults to stderr.
	Reporter controller.ErrorReporter

	// Display sizes the card list. Defaults to the detected terminal.
	Display *ui.DisplayContext

	Logger *slog.Logger
}

type search struct {
	text   string
	field  model.Field
	option controller.SearchOption
}

var errQuit = errors.New("quit")

// Session is one interactive browse session.
type Session struct {
	ctrl     *controller.Controller[*model.Card, int, model.Field]
	editor   *Editor
	screen   *Screen
	reporter controller.ErrorReporter
	display  *ui.DisplayContext
	logger   *slog.Logger

	option     controller.SearchOption
	lastSearch search
	restore    *config.State

	// matches steps through in-page matches on matchesCard.
	matches     *pagesearch.Iterator
	matchesCard *model.Card

	autosave *autosave.Timer
	saves    chan struct{}
}

// New creates a Session. Nothing is read or displayed until Run.
func New(opts Options) (*Session, error) {
	if opts.Gateway == nil {
		return nil, errors.New("gateway is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.New(os.Stderr, logger)
	}
	display := opts.Display
	if display == nil {
		display = ui.NewDisplayContext()
	}

	s := &Session{
		reporter: reporter,
		display:  display,
		logger:   logger,
		option:   opts.SearchOption,
		restore:  opts.Restore,
		saves:    make(chan struct{}, 1),
	}
	s.editor = NewEditor(s.edited)
	s.screen = NewScreen(io.Discard, s.editor)

	ctrl, err := controller.New(controller.Config[*model.Card, int, model.Field]{
		Gateway:   &savingGateway{Gateway: opts.Gateway, editor: s.editor},
		EditState: s.editor,
		Sink:      s.screen,
		Reporter:  reporter,
		Order:     opts.Order,
		NewBlank:  model.NewCard,
		IDOf:      model.CardID,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}
	s.ctrl = ctrl

	if opts.AutosaveDelay > 0 {
		timer, err := autosave.Engage(s.requestSave, opts.AutosaveDelay)
		if err != nil {
			return nil, fmt.Errorf("create autosave timer: %w", err)
		}
		s.autosave = timer
	}
	return s, nil
}

// Controller returns the session's record controller.
func (s *Session) Controller() *controller.Controller[*model.Card, int, model.Field] {
	return s.ctrl
}

// State returns where the session is, for the next session to restore.
func (s *Session) State() config.State {
	return config.State{
		Version:      config.StateVersion,
		LastSearch:   s.lastSearch.text,
		LastField:    s.lastSearch.field.String(),
		LastOption:   s.lastSearch.option.String(),
		LastRecordID: model.CardID(s.ctrl.Cursor().Current()),
	}
}

// Run shows the first card and executes commands from in until quit, end of
// input or ctx is done. The card on display is saved before Run returns.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.screen.out = out
	s.start()
	defer s.finish()

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, ui.Accent.Render("rolo>")+" ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case <-s.saves:
			s.autosaveNow()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-readErr
			}
			if err := s.execute(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				s.screen.Println(ui.Error(err.Error()))
			}
		}
	}
}

func (s *Session) start() {
	q := search{field: model.FieldAll, option: s.option}
	var recordID int
	if st := s.restore; st != nil {
		q.text = st.LastSearch
		if f, err := model.ParseField(st.LastField); err == nil {
			q.field = f
		}
		if opt, err := controller.ParseSearchOption(st.LastOption); err == nil {
			q.option = opt
		}
		recordID = st.LastRecordID
	}

	s.screen.batch(func() {
		s.find(q)
		if recordID == 0 {
			return
		}
		if i, ok := s.ctrl.Cursor().IndexOfID(recordID); ok {
			s.ctrl.Cursor().MoveTo(i)
		}
	})
}

func (s *Session) finish() {
	if s.autosave != nil {
		s.autosave.Stop()
	}
	s.ctrl.SaveCurrentRecord()
}

// edited runs after every field edit.
func (s *Session) edited() {
	s.matches = nil
	if s.autosave != nil {
		s.autosave.Restart()
	}
}

// requestSave runs on the autosave timer's goroutine.
func (s *Session) requestSave() {
	select {
	case s.saves <- struct{}{}:
	default:
	}
}

func (s *Session) autosaveNow() {
	if !s.editor.IsRecordDataModified() {
		return
	}
	s.logger.Debug("autosave")
	s.ctrl.SaveCurrentRecord()
	if !s.editor.IsRecordDataModified() {
		s.screen.Println("\n" + ui.Hint("autosaved "+s.editor.CurrentRecord().Title()))
	}
}

func (s *Session) find(q search) {
	s.lastSearch = q
	s.matches = nil
	s.ctrl.Find(q.field, q.option, q.text)
}

// execute runs one command line. It returns errQuit for quit.
func (s *Session) execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if terms, ok := strings.CutPrefix(line, "/"); ok {
		return s.searchPage(terms)
	}

	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	name, args := strings.ToLower(args[0]), args[1:]
	cursor := s.ctrl.Cursor()

	switch name {
	case "n":
		cursor.Next()
	case "p":
		cursor.Previous()
	case "first":
		cursor.First()
	case "last":
		cursor.Last()
	case "goto":
		return s.gotoCard(args)
	case "find", "f":
		s.runFind(parseFind(args, s.option))
	case "list", "ls":
		s.list()
	case "order":
		return s.order(args)
	case "new":
		s.ctrl.AddBlankRecord()
	case "copy":
		return s.copyCard(args)
	case "set":
		return s.set(args)
	case "save":
		s.ctrl.SaveCurrentRecord()
		s.screen.Render()
	case "delete":
		if err := s.ctrl.DeleteCurrentRecord(); err != nil {
			s.reporter.Report("Delete", err)
		}
	case "next":
		return s.stepMatch(pagesearch.Forward)
	case "prev":
		return s.stepMatch(pagesearch.Backward)
	case "show":
		s.screen.Render()
	case "reveal":
		s.screen.reveal = !s.screen.reveal
		s.screen.Render()
	case "help", "?":
		fmt.Fprint(s.screen.out, helpText)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return nil
}

func (s *Session) runFind(q search) {
	s.screen.batch(func() { s.find(q) })

	found := s.ctrl.Cursor().Len()
	if found == 1 && s.ctrl.Cursor().Current().ID == 0 {
		found = 0
	}
	s.screen.Println(ui.Hint(ui.Count(found, "card", "cards")))
}

func (s *Session) gotoCard(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: goto <num>")
	}
	n, err := strconv.Atoi(args[0])
	cursor := s.ctrl.Cursor()
	if err != nil || n < 1 || n > cursor.Len() {
		return fmt.Errorf("no card %q (list has %d)", args[0], cursor.Len())
	}
	cursor.MoveTo(n - 1)
	return nil
}

func (s *Session) list() {
	cursor := s.ctrl.Cursor()
	rows := make([]ui.CardRow, 0, cursor.Len())
	for i, c := range cursor.Records() {
		rows = append(rows, ui.CardRow{
			Site:     c.Site,
			Username: c.Username,
			Updated:  c.UpdatedAt,
			Current:  i == cursor.Index(),
		})
	}
	fmt.Fprintln(s.screen.out, ui.RenderCardList(s.display, rows))
}

func (s *Session) order(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: order <field>")
	}
	f, err := model.ParseField(args[0])
	if err != nil {
		return err
	}
	s.ctrl.SpecifyOrder(f)
	s.screen.batch(func() { s.find(s.lastSearch) })
	return nil
}

func (s *Session) copyCard(args []string) error {
	fields := []model.Field{model.FieldSite, model.FieldUsername}
	if len(args) > 0 {
		fields = fields[:0]
		for _, a := range args {
			f, err := model.ParseField(a)
			if err != nil {
				return err
			}
			if !f.IsField() {
				fields = model.Fields()
				break
			}
			fields = append(fields, f)
		}
	}

	copiers := make([]controller.FieldCopier[*model.Card], 0, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		b := binding(f)
		copiers = append(copiers, b)
		names = append(names, b.Name)
	}
	s.ctrl.CopyCurrentRecord(copiers)
	s.screen.Println(ui.Hint("copied " + strings.Join(names, ", ")))
	return nil
}

func (s *Session) set(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: set <field> <value>")
	}
	f, err := model.ParseField(args[0])
	if err != nil {
		return err
	}
	if err := s.editor.Edit(f, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	s.screen.Render()
	return nil
}

func (s *Session) searchPage(text string) error {
	terms := strutil.SplitText(text)
	if len(terms) == 0 {
		s.matches = nil
		s.screen.clearSelection()
		s.screen.Render()
		return nil
	}
	s.matches = pagesearch.New(s.screen.containers(), pagesearch.Forward, terms...)
	s.matchesCard = s.editor.CurrentRecord()
	if !s.matches.HasNext() {
		return fmt.Errorf("no match for %s on this card", strings.Join(terms, " "))
	}
	s.showMatch(s.matches.Next())
	return nil
}

func (s *Session) stepMatch(dir pagesearch.Direction) error {
	if s.matches == nil || s.matchesCard != s.editor.CurrentRecord() {
		return errors.New("no search on this card (use /terms)")
	}
	if dir == pagesearch.Forward {
		if !s.matches.HasNext() {
			return errors.New("no further match")
		}
		s.showMatch(s.matches.Next())
		return nil
	}
	if !s.matches.HasPrevious() {
		return errors.New("no earlier match")
	}
	s.showMatch(s.matches.Previous())
	return nil
}

func (s *Session) showMatch(m pagesearch.Match) {
	s.screen.Render()
	s.screen.Println(ui.Hint(fmt.Sprintf("%s in %s", m.Term, model.Fields()[m.Container])))
}

// savingGateway marks the editor clean after its card is stored.
type savingGateway struct {
	controller.Gateway[*model.Card, int, model.Field]
	editor *Editor
}

func (g *savingGateway) InsertOrUpdate(c *model.Card) error {
	if err := g.Gateway.InsertOrUpdate(c); err != nil {
		return err
	}
	g.editor.markSaved(c)
	return nil
}
