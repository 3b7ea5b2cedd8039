package vacancy

import (
	"context"
	"slices"
	"sync"

	"github.com/jimezsa/vacancyctl/internal/models"
	"github.com/jimezsa/vacancyctl/internal/query"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ListState is what the list view renders.
type ListState struct {
	Items   []models.Vacancy
	Loading bool
	Error   string
	Busy    bool
}

type ListController struct {
	api     API
	confirm Confirmer
	logger  zerolog.Logger

	lifecycle
	polls singleflight.Group

	mu      sync.Mutex
	items   []models.Vacancy
	loading bool
	err     string
}

func NewListController(client API, confirmer Confirmer, logger zerolog.Logger) *ListController {
	return &ListController{
		api:     client,
		confirm: confirmer,
		logger:  logger.With().Str("view", "list").Logger(),
	}
}

// Mount performs the initial fetch.
func (c *ListController) Mount(ctx context.Context) error {
	return c.Reload(ctx)
}

// Reload fetches the full collection and orders it by creation time. On
// failure the previous items stay and Error is set.
func (c *ListController) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := c.api.ListVacancies(ctx)

	if !c.alive() {
		return ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = viewMessage(err, msgLoadList, false)
		c.logger.Error().Err(err).Msg("load vacancies")
		return err
	}
	c.items = sortByCreated(items)
	c.err = ""
	return nil
}

// Poll is Reload for background refreshes: overlapping polls share one
// request. Reloads after a mutation must call Reload so they never join a
// fetch that started before the mutation.
func (c *ListController) Poll(ctx context.Context) error {
	_, err, _ := c.polls.Do("list", func() (any, error) {
		return nil, c.Reload(ctx)
	})
	return err
}

// Delete asks for confirmation, deletes, then reloads the collection. It
// returns ErrCancelled when the operator declines.
func (c *ListController) Delete(ctx context.Context, id int64) error {
	release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	ok, err := confirm(ctx, c.confirm, DeletePrompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	if err := c.api.DeleteVacancy(ctx, id); err != nil {
		if c.alive() {
			c.mu.Lock()
			c.err = viewMessage(err, msgDelete, false)
			c.mu.Unlock()
		}
		c.logger.Error().Err(err).Int64("id", id).Msg("delete vacancy")
		return err
	}
	c.logger.Info().Int64("id", id).Msg("vacancy deleted")

	if !c.alive() {
		return ErrClosed
	}
	return c.Reload(ctx)
}

func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ListState{
		Items:   slices.Clone(c.items),
		Loading: c.loading,
		Error:   c.err,
		Busy:    c.Busy(),
	}
}

// View applies the search and sort state to the loaded collection.
func (c *ListController) View(engine *query.Engine, state query.State) []models.Vacancy {
	c.mu.Lock()
	items := slices.Clone(c.items)
	c.mu.Unlock()
	return engine.Apply(items, state)
}

func sortByCreated(items []models.Vacancy) []models.Vacancy {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b models.Vacancy) int {
		return a.CreatedAt.Compare(b.CreatedAt.Time)
	})
	return out
}
