package session

import (
	"errors"
	"strings"

	"github.com/aidanlsb/rolo/internal/controller"
	"github.com/aidanlsb/rolo/internal/model"
)

const helpText = `Commands:
  n, p, first, last        move to the next, previous, first or last card
  goto <num>               move to card <num> of the list
  find [field] [whole|all|any] <text>
                           search the store (no text lists every card)
  list                     list the cards found by the last search
  order <field>            sort by field and repeat the last search
  new                      start a new card
  copy [field...]          start a new card copying fields (default: site username)
  set <field> <value>      edit a field of the card on display
  save                     save the card on display
  delete                   delete the card on display
  /<terms>                 find terms in the card on display
  next, prev               step through those matches
  show, reveal             show the card again, toggle password display
  help                     show this help
  quit                     save and leave
`

// splitArgs splits a command line into words. Single quotes take text
// literally; double quotes allow \", \\ and \n escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			if quote == '"' && r == 'n' {
				r = '\n'
			}
			word.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, word.String())
	}
	return args, nil
}

// parseFind reads "[field] [option] text". A leading word is only taken as
// a field or option when more words follow it. "all" and "any" are options.
func parseFind(args []string, defaultOption controller.SearchOption) search {
	q := search{field: model.FieldAll, option: defaultOption}
	if len(args) > 1 {
		if f, err := model.ParseField(args[0]); err == nil && f.IsField() {
			q.field = f
			args = args[1:]
		}
	}
	if len(args) > 1 {
		if opt, err := controller.ParseSearchOption(args[0]); err == nil {
			q.option = opt
			args = args[1:]
		}
	}
	q.text = strings.Join(args, " ")
	return q
}

// binding copies one card field between cards.
func binding(f model.Field) controller.Binding[*model.Card, string] {
	return controller.Binding[*model.Card, string]{
		Name: f.String(),
		Get:  func(c *model.Card) string { return model.Value(c, f) },
		Set:  func(c *model.Card, v string) { _ = model.SetValue(c, f, v) },
	}
}
