package vacancy

import (
	"context"
	"sync"

	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/api"
	"github.com/jimezsa/vacancyctl/internal/models"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/rs/zerolog"
)

var ErrNotLoaded = crdb.New("vacancy not loaded")

// EditState is what the edit view renders.
type EditState struct {
	ID       int64
	Fields   models.Fields
	Policy   Policy
	Loading  bool
	Loaded   bool
	NotFound bool
	Error    string
	Busy     bool
}

// EditForm edits one vacancy. The emptiness policy is captured on the first
// successful load and never recomputed.
type EditForm struct {
	api    API
	nav    nav.Navigator
	logger zerolog.Logger
	id     int64

	lifecycle

	mu       sync.Mutex
	fields   models.Fields
	policy   *Policy
	loading  bool
	notFound bool
	err      string
}

func NewEditForm(client API, navigator nav.Navigator, logger zerolog.Logger, id int64) *EditForm {
	return &EditForm{
		api:    client,
		nav:    navigator,
		logger: logger.With().Str("view", "edit").Int64("id", id).Logger(),
		id:     id,
	}
}

// Load fetches the record and seeds the draft from it.
func (f *EditForm) Load(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.mu.Unlock()

	v, err := f.api.GetVacancy(ctx, f.id)

	if !f.alive() {
		return ErrClosed
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		if crdb.Is(err, api.ErrNotFound) {
			f.notFound = true
			f.err = ""
		} else {
			f.err = viewMessage(err, msgLoadVacancy, false)
		}
		f.logger.Error().Err(err).Msg("load vacancy")
		return err
	}

	f.notFound = false
	f.err = ""
	f.fields = models.FieldsFrom(v)
	if f.policy == nil {
		policy := SnapshotPolicy(v)
		f.policy = &policy
	}
	return nil
}

func (f *EditForm) Set(field models.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	updated, err := f.fields.Set(field, value)
	if err != nil {
		return err
	}
	f.fields = updated
	return nil
}

// Submit sends the full draft. Required fields are checked against the
// load-time policy first. On success it navigates to the detail view.
func (f *EditForm) Submit(ctx context.Context) error {
	release, err := f.acquire()
	if err != nil {
		return err
	}
	defer release()

	f.mu.Lock()
	if f.policy == nil {
		f.mu.Unlock()
		return ErrNotLoaded
	}
	draft := f.fields
	policy := *f.policy
	f.err = ""
	f.mu.Unlock()

	if err := policy.Validate(draft); err != nil {
		f.setError(err.Error())
		return err
	}

	_, err = f.api.UpdateVacancy(ctx, f.id, draft)

	if !f.alive() {
		return ErrClosed
	}
	if err != nil {
		f.setError(viewMessage(err, msgUpdate, true))
		f.logger.Error().Err(err).Msg("update vacancy")
		return err
	}

	f.logger.Info().Msg("vacancy updated")
	f.nav.Navigate(nav.Detail(f.id))
	return nil
}

// Cancel drops the draft and returns to the detail view.
func (f *EditForm) Cancel() {
	f.mu.Lock()
	f.fields = models.Fields{}
	f.mu.Unlock()
	f.Close()
	f.nav.Navigate(nav.Detail(f.id))
}

func (f *EditForm) State() EditState {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := EditState{
		ID:       f.id,
		Fields:   f.fields,
		Loading:  f.loading,
		Loaded:   f.policy != nil,
		NotFound: f.notFound,
		Error:    f.err,
		Busy:     f.Busy(),
	}
	if f.policy != nil {
		state.Policy = *f.policy
	}
	return state
}

func (f *EditForm) setError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = msg
}
