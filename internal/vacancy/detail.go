package vacancy

import (
	"context"
	"sync"
	"time"

	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/api"
	"github.com/jimezsa/vacancyctl/internal/models"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// NoticeDuration is how long the refresh success notice stays up.
const NoticeDuration = 3 * time.Second

// ErrNoExternalID is returned when refresh is requested for a vacancy
// without an hh_id. No request is sent.
var ErrNoExternalID = &ValidationError{Missing: []models.Field{models.FieldHHID}, Message: msgNoExternalID}

// ErrSuperseded is returned when the controller moved to another record while
// a call was in flight. The response is dropped.
var ErrSuperseded = crdb.New("another vacancy is shown")

// DetailState is what the detail view renders.
type DetailState struct {
	ID         int64
	Vacancy    *models.Vacancy
	Loading    bool
	NotFound   bool
	Error      string
	Notice     string
	Refreshing bool
	Busy       bool
}

// CanRefresh reports whether the refresh trigger should be enabled.
func (s DetailState) CanRefresh() bool {
	return s.Vacancy != nil && s.Vacancy.HasExternalID() && !s.Refreshing
}

// DetailController shows one vacancy and owns its delete and
// refresh-from-HH actions.
type DetailController struct {
	api     API
	confirm Confirmer
	nav     nav.Navigator
	clock   clockwork.Clock
	logger  zerolog.Logger

	lifecycle

	mu          sync.Mutex
	id          int64
	refreshing  map[int64]struct{}
	vacancy     *models.Vacancy
	loading     bool
	notFound    bool
	err         string
	notice      string
	noticeTimer clockwork.Timer
	noticeGen   uint64
}

func NewDetailController(client API, confirmer Confirmer, navigator nav.Navigator, clock clockwork.Clock, logger zerolog.Logger) *DetailController {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &DetailController{
		api:        client,
		confirm:    confirmer,
		nav:        navigator,
		clock:      clock,
		logger:     logger.With().Str("view", "detail").Logger(),
		refreshing: map[int64]struct{}{},
	}
}

// Show loads the vacancy with id. Calling it with a new id replaces the
// shown record; a response for a superseded id is dropped.
func (c *DetailController) Show(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.id != id {
		c.vacancy = nil
		c.notFound = false
		c.err = ""
		c.clearNoticeLocked()
	}
	c.id = id
	c.mu.Unlock()
	return c.load(ctx, id, msgLoadDetail)
}

func (c *DetailController) load(ctx context.Context, id int64, fallback string) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	v, err := c.api.GetVacancy(ctx, id)

	if !c.alive() {
		return ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id != id {
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		if crdb.Is(err, api.ErrNotFound) {
			c.vacancy = nil
			c.notFound = true
		} else {
			c.err = viewMessage(err, fallback, false)
		}
		c.logger.Error().Err(err).Int64("id", id).Msg("load vacancy")
		return err
	}
	c.vacancy = &v
	c.notFound = false
	c.err = ""
	return nil
}

// Delete asks for confirmation, deletes the record and navigates to the
// collection root. A failure is shown in place.
func (c *DetailController) Delete(ctx context.Context) error {
	release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	c.mu.Lock()
	id := c.id
	loaded := c.vacancy != nil
	c.mu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}

	ok, err := confirm(ctx, c.confirm, DeletePrompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	if err := c.api.DeleteVacancy(ctx, id); err != nil {
		if c.alive() {
			c.setErrorFor(id, viewMessage(err, msgDelete, false))
		}
		c.logger.Error().Err(err).Int64("id", id).Msg("delete vacancy")
		return err
	}

	c.logger.Info().Int64("id", id).Msg("vacancy deleted")
	if c.alive() {
		c.nav.Navigate(nav.Root())
	}
	return nil
}

// RefreshFromExternalSource asks the service to re-sync the vacancy from HH,
// then re-fetches the whole record and shows a notice for NoticeDuration.
// While a refresh of the same record is in flight further calls do nothing.
// Results for a record that is no longer shown are dropped.
func (c *DetailController) RefreshFromExternalSource(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.mu.Lock()
	id := c.id
	v := c.vacancy
	if v == nil || !v.HasExternalID() {
		c.err = msgNoExternalID
		c.mu.Unlock()
		return ErrNoExternalID
	}
	if _, inFlight := c.refreshing[id]; inFlight {
		c.mu.Unlock()
		return nil
	}
	c.refreshing[id] = struct{}{}
	c.err = ""
	c.clearNoticeLocked()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.refreshing, id)
		c.mu.Unlock()
	}()

	if _, err := c.api.RefreshVacancyFromExternalSource(ctx, id); err != nil {
		c.logger.Error().Err(err).Int64("id", id).Msg("refresh vacancy")
		if !c.alive() {
			return err
		}
		if !c.setErrorFor(id, viewMessage(err, msgRefresh, true)) {
			return ErrSuperseded
		}
		return err
	}
	if !c.alive() {
		return ErrClosed
	}

	c.mu.Lock()
	current := c.id == id
	c.mu.Unlock()
	if !current {
		return ErrSuperseded
	}
	if err := c.load(ctx, id, msgLoadDetail); err != nil {
		return err
	}

	c.logger.Info().Int64("id", id).Msg("vacancy refreshed from HH")
	if !c.showNotice(id, msgRefreshed) {
		return ErrSuperseded
	}
	return nil
}

// Refreshing reports whether a refresh of the shown record is in flight.
func (c *DetailController) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshingLocked()
}

func (c *DetailController) refreshingLocked() bool {
	_, ok := c.refreshing[c.id]
	return ok
}

func (c *DetailController) State() DetailState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := DetailState{
		ID:         c.id,
		Loading:    c.loading,
		NotFound:   c.notFound,
		Error:      c.err,
		Notice:     c.notice,
		Refreshing: c.refreshingLocked(),
		Busy:       c.Busy(),
	}
	if c.vacancy != nil {
		v := *c.vacancy
		state.Vacancy = &v
	}
	return state
}

// Close releases the view and stops the notice timer.
func (c *DetailController) Close() {
	c.lifecycle.Close()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearNoticeLocked()
}

// showNotice shows msg while id is still the shown record.
func (c *DetailController) showNotice(id int64, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id != id {
		return false
	}
	c.clearNoticeLocked()
	c.notice = msg
	gen := c.noticeGen
	c.noticeTimer = c.clock.AfterFunc(NoticeDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.noticeGen == gen {
			c.notice = ""
			c.noticeTimer = nil
		}
	})
	return true
}

func (c *DetailController) clearNoticeLocked() {
	c.noticeGen++
	c.notice = ""
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
}

// setErrorFor records msg only while id is still the shown record.
func (c *DetailController) setErrorFor(id int64, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id != id {
		return false
	}
	c.err = msg
	return true
}
