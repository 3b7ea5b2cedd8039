// Package nav models the places an operator can be sent to after an action.
package nav

import (
	"fmt"
	"sync"
)

type Kind int

const (
	KindRoot Kind = iota
	KindLogin
	KindDetail
	KindEdit
	KindCreate
)

// Route is a navigation target. ID is set for Detail and Edit only.
type Route struct {
	Kind Kind
	ID   int64
}

func Root() Route {
	return Route{Kind: KindRoot}
}

func Login() Route {
	return Route{Kind: KindLogin}
}

func Create() Route {
	return Route{Kind: KindCreate}
}

func Detail(id int64) Route {
	return Route{Kind: KindDetail, ID: id}
}

func Edit(id int64) Route {
	return Route{Kind: KindEdit, ID: id}
}

func (r Route) String() string {
	switch r.Kind {
	case KindLogin:
		return "/login"
	case KindDetail:
		return fmt.Sprintf("/vacancies/%d", r.ID)
	case KindEdit:
		return fmt.Sprintf("/vacancies/%d/edit", r.ID)
	case KindCreate:
		return "/vacancies/create"
	default:
		return "/"
	}
}

type Navigator interface {
	Navigate(route Route)
}

// Func adapts a plain function to Navigator.
type Func func(route Route)

func (f Func) Navigate(route Route) { f(route) }

// Recorder keeps every route it is sent to. The CLI renders the last one as
// the suggested next command.
type Recorder struct {
	mu     sync.Mutex
	routes []Route
}

func (r *Recorder) Navigate(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *Recorder) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.routes...)
}

func (r *Recorder) Last() (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return Route{}, false
	}
	return r.routes[len(r.routes)-1], true
}

// Count returns how many times route was navigated to.
func (r *Recorder) Count(route Route) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, seen := range r.routes {
		if seen == route {
			total++
		}
	}
	return total
}
