package session

import (
	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/nav"
)

var ErrNotAuthenticated = crdb.New("not logged in")

type Decision int

const (
	// DecisionLoading means the session has not been read yet; render a
	// neutral placeholder.
	DecisionLoading Decision = iota
	DecisionAllow
	DecisionRedirect
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	default:
		return "loading"
	}
}

// Guard gates protected views on the session store.
type Guard struct {
	Store     *Store
	Navigator nav.Navigator
}

// Check decides whether a protected view may render. A redirect is also sent
// to the navigator.
func (g Guard) Check() Decision {
	if !g.Store.Loaded() {
		return DecisionLoading
	}
	if g.Store.IsAuthenticated() {
		return DecisionAllow
	}
	if g.Navigator != nil {
		g.Navigator.Navigate(nav.Login())
	}
	return DecisionRedirect
}

// Require is Check for callers that cannot render a placeholder: it loads the
// store when needed and returns ErrNotAuthenticated instead of redirecting
// silently.
func (g Guard) Require() error {
	if !g.Store.Loaded() {
		if err := g.Store.Load(); err != nil {
			return err
		}
	}
	if g.Check() == DecisionAllow {
		return nil
	}
	return crdb.WithHint(ErrNotAuthenticated, "run `vacancyctl login` first")
}
