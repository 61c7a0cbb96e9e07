package cli

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/rolo/internal/config"
	"github.com/aidanlsb/rolo/internal/controller"
	"github.com/aidanlsb/rolo/internal/lastresults"
	"github.com/aidanlsb/rolo/internal/model"
	"github.com/aidanlsb/rolo/internal/store"
	"github.com/aidanlsb/rolo/internal/ui"
)

// lookup is a controller with nothing on screen, for one-shot searches from
// the shell. It implements controller.EditState and controller.Sink.
type lookup struct {
	ctrl *controller.Controller[*model.Card, int, model.Field]
}

func newLookup(s *store.Store, order model.Field) (*lookup, error) {
	l := &lookup{}
	ctrl, err := controller.New(controller.Config[*model.Card, int, model.Field]{
		Gateway:   s,
		EditState: l,
		Sink:      l,
		Order:     order,
		NewBlank:  model.NewCard,
		IDOf:      model.CardID,
		Logger:    getLogger(),
	})
	if err != nil {
		return nil, err
	}
	l.ctrl = ctrl
	return l, nil
}

// find runs a search and returns the cards found in order.
func (l *lookup) find(field model.Field, option controller.SearchOption, text string) ([]*model.Card, error) {
	return l.ctrl.RetrieveNow(field, option, text)
}

func (l *lookup) IsRecordDataModified() bool       { return false }
func (l *lookup) CurrentRecord() *model.Card       { return l.ctrl.Cursor().Current() }
func (l *lookup) PositionChanged(index, prior int) {}
func (l *lookup) ListChanged(size int)             {}
func (l *lookup) RecordSelected(*model.Card)       {}
func (l *lookup) FlushRequested()                  {}

// parseOrder returns the sort field from a flag, falling back to config.
func parseOrder(flag string, c *config.Config) (model.Field, error) {
	if flag == "" {
		return c.OrderField(), nil
	}
	return model.ParseField(flag)
}

// listedCard is a card as printed by list and find in JSON mode. Passwords
// are never included.
type listedCard struct {
	ID        int    `json:"id"`
	Site      string `json:"site"`
	Username  string `json:"username"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// printCardList prints cards numbered and remembers them for follow-up
// commands.
func printCardList(cards []*model.Card, source lastresults.Source, query string) error {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	if err := lastresults.Write(resolvedStatePath, lastresults.New(source, query, ids)); err != nil {
		getLogger().Warn("could not save results", "error", err)
	}

	if isJSONOutput() {
		listed := make([]listedCard, len(cards))
		for i, c := range cards {
			listed[i] = listedCard{ID: c.ID, Site: c.Site, Username: c.Username}
			if !c.UpdatedAt.IsZero() {
				listed[i].UpdatedAt = c.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z")
			}
		}
		outputSuccess(map[string]any{
			"cards": model.NumberedList(listed),
		}, &Meta{Count: len(cards)})
		return nil
	}

	if len(cards) == 0 {
		fmt.Println(ui.Hint("No cards found."))
		return nil
	}
	rows := make([]ui.CardRow, len(cards))
	for i, c := range cards {
		rows[i] = ui.CardRow{Site: c.Site, Username: c.Username, Updated: c.UpdatedAt}
	}
	fmt.Print(ui.RenderCardList(ui.NewDisplayContext(), rows))
	fmt.Println(ui.Count(len(cards), "card", "cards"))
	return nil
}

// selectCards resolves list numbers from the last list or find, or a single
// card ID when id is non-zero.
func selectCards(s *store.Store, args []string, id int) ([]*model.Card, error) {
	if id != 0 {
		c, err := s.GetOne(id)
		if err != nil {
			return nil, err
		}
		return []*model.Card{c}, nil
	}

	nums, err := lastresults.ParseNumberArgs(args)
	if err != nil {
		return nil, err
	}
	lr, err := lastresults.Read(resolvedStatePath)
	if err != nil {
		return nil, err
	}
	ids, err := lr.IDsByNumbers(nums)
	if err != nil {
		return nil, err
	}

	cards := make([]*model.Card, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetOne(id)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// selectError maps a selectCards failure to an error code.
func selectError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return handleError(ErrCardNotFound, err, "Run 'rolo list' to see current cards")
	case errors.Is(err, lastresults.ErrNoLastResults):
		return handleError(ErrNoResults, err, "Run 'rolo list' or 'rolo find' first")
	case errors.Is(err, lastresults.ErrInvalidNumber), errors.Is(err, lastresults.ErrNumberOutOfRange):
		return handleError(ErrInvalidInput, err, "")
	default:
		return handleError(ErrDatabaseError, err, "")
	}
}
