// Package query filters and sorts in-memory vacancy lists. It holds no state
// beyond the inputs of each call.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jimezsa/vacancyctl/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Key string

const (
	KeyNone    Key = ""
	KeyTitle   Key = "title"
	KeyCompany Key = "company"
	KeyStatus  Key = "status"
)

func ParseKey(value string) (Key, error) {
	switch Key(strings.ToLower(strings.TrimSpace(value))) {
	case KeyNone, "none":
		return KeyNone, nil
	case KeyTitle:
		return KeyTitle, nil
	case KeyCompany, "company_name":
		return KeyCompany, nil
	case KeyStatus:
		return KeyStatus, nil
	default:
		return KeyNone, fmt.Errorf("unknown sort key: %s", value)
	}
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState is the current sort column and direction.
type SortState struct {
	Key       Key
	Direction Direction
}

// Toggle applies a click on key: the same key flips asc and desc, a new key
// starts ascending.
func (s SortState) Toggle(key Key) SortState {
	if key == KeyNone {
		return SortState{Key: KeyNone, Direction: Asc}
	}
	if s.Key == key && s.Direction == Asc {
		return SortState{Key: key, Direction: Desc}
	}
	return SortState{Key: key, Direction: Asc}
}

// State is the list view's search and sort input.
type State struct {
	Term string
	Sort SortState
}

// Engine carries the configuration shared by filter and sort: the collation
// locale and the fields searched by default.
type Engine struct {
	tag    language.Tag
	fields []string
}

func NewEngine(locale string, fields []string) *Engine {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.Und
	}
	if len(fields) == 0 {
		fields = []string{"title", "company_name"}
	}
	return &Engine{tag: tag, fields: append([]string(nil), fields...)}
}

func (e *Engine) Fields() []string {
	return append([]string(nil), e.fields...)
}

// Apply filters by the search term, then sorts.
func (e *Engine) Apply(items []models.Vacancy, state State) []models.Vacancy {
	filtered := Filter(items, state.Term, e.fields)
	return e.Sort(filtered, state.Sort.Key, state.Sort.Direction)
}

// Sort returns a stably sorted copy of items. KeyNone returns items unchanged.
// Desc inverts the comparator, so equal keys keep their input order in both
// directions.
func (e *Engine) Sort(items []models.Vacancy, key Key, direction Direction) []models.Vacancy {
	extract := keyFunc(key)
	if extract == nil {
		return items
	}

	collator := collate.New(e.tag)
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b models.Vacancy) int {
		c := collator.CompareString(extract(a), extract(b))
		if direction == Desc {
			return -c
		}
		return c
	})
	return out
}

func keyFunc(key Key) func(models.Vacancy) string {
	switch key {
	case KeyTitle:
		return func(v models.Vacancy) string { return v.Title }
	case KeyCompany:
		return func(v models.Vacancy) string { return v.CompanyName }
	case KeyStatus:
		return func(v models.Vacancy) string { return string(v.Status) }
	default:
		return nil
	}
}
