package vacancy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jimezsa/vacancyctl/internal/api"
	"github.com/jimezsa/vacancyctl/internal/models"
)

// fakeAPI is an in-memory vacancy service that records every call.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []string
	items  map[int64]models.Vacancy
	nextID int64

	listErr    error
	getErr     error
	createErr  error
	updateErr  error
	deleteErr  error
	refreshErr error

	// refreshGate, when set, blocks refresh calls until it is closed.
	refreshGate    chan struct{}
	refreshStarted chan struct{}
	// submitGate does the same for create and update calls.
	submitGate     chan struct{}
	submitStarted  chan struct{}
	updated        []models.Fields
}

func newFakeAPI(items ...models.Vacancy) *fakeAPI {
	f := &fakeAPI{items: map[int64]models.Vacancy{}, nextID: 100}
	for _, item := range items {
		f.items[item.ID] = item
	}
	return f
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) count(prefix string) int {
	total := 0
	for _, call := range f.Calls() {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			total++
		}
	}
	return total
}

func (f *fakeAPI) ListVacancies(context.Context) ([]models.Vacancy, error) {
	f.record("list")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Vacancy, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeAPI) GetVacancy(_ context.Context, id int64) (models.Vacancy, error) {
	f.record(fmt.Sprintf("get %d", id))
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return models.Vacancy{}, f.getErr
	}
	v, ok := f.items[id]
	if !ok {
		return models.Vacancy{}, &api.Error{Op: "get vacancy", Kind: api.KindNotFound, Status: 404, Detail: "Vacancy not found"}
	}
	return v, nil
}

// holdSubmit blocks a create or update call while submitGate is open.
func (f *fakeAPI) holdSubmit() {
	if f.submitStarted != nil {
		f.submitStarted <- struct{}{}
	}
	if f.submitGate != nil {
		<-f.submitGate
	}
}

func (f *fakeAPI) CreateVacancy(_ context.Context, fields models.Fields) (models.Vacancy, error) {
	f.record("create")
	f.holdSubmit()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Vacancy{}, f.createErr
	}
	f.nextID++
	v := models.Vacancy{
		ID:          f.nextID,
		Title:       fields.Title,
		CompanyName: fields.CompanyName,
		Status:      fields.Status,
		HHID:        fields.HHID,
		CreatedAt:   models.Timestamp{Time: time.Now()},
	}
	f.items[v.ID] = v
	return v, nil
}

func (f *fakeAPI) CreateVacancyFromExternalID(_ context.Context, hhID string) (models.Vacancy, error) {
	f.record("import " + hhID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Vacancy{}, f.createErr
	}
	f.nextID++
	v := models.Vacancy{
		ID:        f.nextID,
		Title:     "Imported " + hhID,
		Status:    models.StatusActive,
		HHID:      hhID,
		CreatedAt: models.Timestamp{Time: time.Now()},
	}
	f.items[v.ID] = v
	return v, nil
}

func (f *fakeAPI) UpdateVacancy(_ context.Context, id int64, fields models.Fields) (models.Vacancy, error) {
	f.record(fmt.Sprintf("update %d", id))
	f.holdSubmit()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, fields)
	if f.updateErr != nil {
		return models.Vacancy{}, f.updateErr
	}
	v := f.items[id]
	v.Title = fields.Title
	v.CompanyLogo = fields.CompanyLogo
	v.Status = fields.Status
	f.items[id] = v
	return v, nil
}

func (f *fakeAPI) DeleteVacancy(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("delete %d", id))
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, id)
	return nil
}

func (f *fakeAPI) RefreshVacancyFromExternalSource(_ context.Context, id int64) (models.Vacancy, error) {
	f.record(fmt.Sprintf("refresh %d", id))
	if f.refreshStarted != nil {
		f.refreshStarted <- struct{}{}
	}
	if f.refreshGate != nil {
		<-f.refreshGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshErr != nil {
		return models.Vacancy{}, f.refreshErr
	}
	v := f.items[id]
	v.Title = v.Title + " (synced)"
	f.items[id] = v
	return v, nil
}

type fakeConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (c *fakeConfirmer) Confirm(context.Context, string) (bool, error) {
	c.asked++
	return c.answer, c.err
}

func ts(value string) models.Timestamp {
	parsed, err := models.ParseTimestamp(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func rejected(detail string) error {
	return &api.Error{Op: "test", Kind: api.KindRejected, Status: 422, Detail: detail}
}

func unauthorized() error {
	return &api.Error{Op: "test", Kind: api.KindAuthorizationLost, Status: 401}
}

func transient() error {
	return &api.Error{Op: "test", Kind: api.KindTransient, Status: 503}
}
