// Package vacancy holds the controllers behind the list, create, edit and
// detail views.
//
// Controllers own view state and talk to the service only through API. They
// turn every failure into view-local state; an authorization loss is left to
// the API client, which has already redirected to login. Each controller has an
// authoritative busy flag: a second mutating call while one is in flight is
// rejected with ErrBusy (delete, submit) or ignored (refresh). Responses that
// arrive after Close are dropped.
package vacancy

import (
	"context"
	"sync/atomic"

	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/api"
	"github.com/jimezsa/vacancyctl/internal/models"
)

var (
	ErrBusy   = crdb.New("another operation is in progress")
	ErrClosed = crdb.New("view closed")
	// ErrCancelled is returned when the operator declines a confirmation.
	ErrCancelled = crdb.New("cancelled")
)

// API is the subset of the service client the controllers use.
type API interface {
	ListVacancies(ctx context.Context) ([]models.Vacancy, error)
	GetVacancy(ctx context.Context, id int64) (models.Vacancy, error)
	CreateVacancy(ctx context.Context, fields models.Fields) (models.Vacancy, error)
	CreateVacancyFromExternalID(ctx context.Context, hhID string) (models.Vacancy, error)
	UpdateVacancy(ctx context.Context, id int64, fields models.Fields) (models.Vacancy, error)
	DeleteVacancy(ctx context.Context, id int64) error
	RefreshVacancyFromExternalSource(ctx context.Context, id int64) (models.Vacancy, error)
}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

const DeletePrompt = "Are you sure you want to delete this vacancy?"

const (
	msgLoadList     = "Failed to load vacancies. Please try again later."
	msgLoadVacancy  = "Failed to load vacancy. Please try again later."
	msgLoadDetail   = "Failed to load vacancy details. Please try again later."
	msgDelete       = "Failed to delete vacancy."
	msgCreate       = "Failed to create vacancy"
	msgUpdate       = "Failed to update vacancy"
	msgRefresh      = "Failed to refresh vacancy from HH"
	msgRefreshed    = "Vacancy refreshed from HH"
	msgNoExternalID = "This vacancy has no HH id to refresh from"
	msgNoImportID   = "HH vacancy id is required"
)

// lifecycle tracks whether the owning view is still alive and whether a
// mutating action is in flight.
type lifecycle struct {
	closed atomic.Bool
	busy   atomic.Bool
}

// Close releases the view. Responses that arrive later are discarded.
func (l *lifecycle) Close() { l.closed.Store(true) }

func (l *lifecycle) alive() bool { return !l.closed.Load() }

// Busy reports whether a mutating action is in flight.
func (l *lifecycle) Busy() bool { return l.busy.Load() }

// acquire claims the busy flag and returns its release.
func (l *lifecycle) acquire() (func(), error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	if !l.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { l.busy.Store(false) }, nil
}

// viewMessage converts a failure into the text shown in place. An
// authorization loss shows nothing: the view is already gone.
func viewMessage(err error, fallback string, preferDetail bool) string {
	if crdb.Is(err, api.ErrAuthorizationLost) {
		return ""
	}
	if preferDetail {
		return api.DetailOr(err, fallback)
	}
	return fallback
}

func confirm(ctx context.Context, c Confirmer, prompt string) (bool, error) {
	if c == nil {
		return false, crdb.New("no confirmer configured")
	}
	return c.Confirm(ctx, prompt)
}
