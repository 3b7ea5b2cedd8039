package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jimezsa/vacancyctl/internal/api"
	"github.com/jimezsa/vacancyctl/internal/config"
	"github.com/jimezsa/vacancyctl/internal/models"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/jimezsa/vacancyctl/internal/query"
	"github.com/jimezsa/vacancyctl/internal/session"
	"github.com/jimezsa/vacancyctl/internal/ui"
	"github.com/jimezsa/vacancyctl/internal/vacancy"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const vacancyPath = "/api/v1/vacancy"

// fakeService is an in-process vacancy service.
type fakeService struct {
	mu      sync.Mutex
	items   map[int64]models.Vacancy
	nextID  int64
	token   string
	expired bool
	calls   []string
	mux     *http.ServeMux
}

func newFakeService(t *testing.T, items ...models.Vacancy) *fakeService {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "42",
		"username": "ann",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	s := &fakeService{items: map[int64]models.Vacancy{}, nextID: 100, token: token}
	for _, item := range items {
		s.items[item.ID] = item
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+vacancyPath+"/list", s.list)
	mux.HandleFunc("GET "+vacancyPath+"/get/{id}", s.get)
	mux.HandleFunc("POST "+vacancyPath+"/create", s.create)
	mux.HandleFunc("PUT "+vacancyPath+"/update/{id}", s.update)
	mux.HandleFunc("DELETE "+vacancyPath+"/delete/{id}", s.delete)
	mux.HandleFunc("POST "+vacancyPath+"/refresh-from-hh/{id}", s.refresh)
	s.mux = mux
	return s
}

func (s *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls = append(s.calls, r.Method+" "+r.URL.Path)
	expired := s.expired
	s.mu.Unlock()

	if r.URL.Path == "/token" {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": err.Error()})
			return
		}
		if r.PostForm.Get("username") != "ann" || r.PostForm.Get("password") != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access_token": s.token, "token_type": "bearer"})
		return
	}

	if expired || r.Header.Get("Authorization") != "Bearer "+s.token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *fakeService) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeService) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = true
}

func (s *fakeService) add(v models.Vacancy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[v.ID] = v
}

func (s *fakeService) lookup(w http.ResponseWriter, r *http.Request) (models.Vacancy, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "invalid id"})
		return models.Vacancy{}, false
	}
	v, ok := s.items[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Vacancy not found"})
		return models.Vacancy{}, false
	}
	return v, true
}

func (s *fakeService) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Vacancy, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *fakeService) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *fakeService) create(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	v := models.Vacancy{ID: s.nextID, CreatedAt: models.Timestamp{Time: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}}
	if hhID := r.URL.Query().Get("hh_id"); hhID != "" {
		if hhID == "000" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "HH vacancy 000 not found"})
			return
		}
		v.Title = "Imported " + hhID
		v.CompanyName = "HH Company"
		v.Status = models.StatusActive
		v.HHID = hhID
	} else {
		var fields models.Fields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": err.Error()})
			return
		}
		v = applyFields(v, fields)
	}
	s.items[v.ID] = v
	writeJSON(w, http.StatusOK, v)
}

func (s *fakeService) update(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var fields models.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": err.Error()})
		return
	}
	v = applyFields(v, fields)
	s.items[v.ID] = v
	writeJSON(w, http.StatusOK, v)
}

func (s *fakeService) delete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	delete(s.items, v.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *fakeService) refresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if v.HHID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "Vacancy has no hh_id"})
		return
	}
	v.Title += " (synced)"
	updated := models.Timestamp{Time: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	v.UpdatedAt = &updated
	s.items[v.ID] = v
	writeJSON(w, http.StatusOK, v)
}

func applyFields(v models.Vacancy, fields models.Fields) models.Vacancy {
	v.Title = fields.Title
	v.CompanyName = fields.CompanyName
	v.CompanyAddress = fields.CompanyAddress
	v.CompanyLogo = fields.CompanyLogo
	v.Description = fields.Description
	v.Status = fields.Status
	v.HHID = fields.HHID
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handlerDoer serves fhttp requests with a net/http handler.
type handlerDoer struct {
	handler http.Handler
}

func (d handlerDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = req.Body
	}
	stdReq := httptest.NewRequest(req.Method, req.URL.String(), body)
	stdReq.Header = http.Header(req.Header.Clone())

	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, stdReq)
	res := rec.Result()
	return &fhttp.Response{
		StatusCode: res.StatusCode,
		Header:     fhttp.Header(res.Header),
		Body:       res.Body,
		Request:    req,
	}, nil
}

type stubConfirmer struct {
	answer bool
	asked  *int
}

func (s stubConfirmer) Confirm(context.Context, string) (bool, error) {
	if s.asked != nil {
		*s.asked++
	}
	return s.answer, nil
}

// syncBuffer lets a test read output while a watching command writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type testEnv struct {
	ctx     *Context
	service *fakeService
	store   *session.Store
	nav     *nav.Recorder
	clock   *clockwork.FakeClock
	out     *syncBuffer
	errOut  *syncBuffer

	// answer is what the confirmation prompt replies when --yes is absent.
	answer bool
	asked  int
}

func newTestEnv(t *testing.T, items ...models.Vacancy) *testEnv {
	t.Helper()
	env := &testEnv{
		service: newFakeService(t, items...),
		nav:     &nav.Recorder{},
		clock:   clockwork.NewFakeClock(),
		out:     &syncBuffer{},
		errOut:  &syncBuffer{},
	}

	env.store = session.NewStore(filepath.Join(t.TempDir(), config.TokenFileName), zerolog.Nop())
	require.NoError(t, env.store.Load())

	client, err := api.New(api.Options{
		BaseURL:     "http://api.test",
		Doer:        handlerDoer{handler: env.service},
		Credentials: env.store,
		Navigator:   env.nav,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)

	cfg := config.Config{APIURL: "http://api.test", Locale: "en", SearchFields: []string{"title", "company_name"}}
	env.ctx = &Context{
		Out:       env.out,
		Err:       env.errOut,
		UI:        ui.New(env.out, env.errOut, ui.ColorNever, true),
		Config:    cfg,
		ConfigDir: t.TempDir(),
		Logger:    zerolog.Nop(),
		Version:   "test",
		Session:   env.store,
		Service:   client,
		Nav:       env.nav,
		Clock:     env.clock,
		Engine:    query.NewEngine(cfg.Locale, cfg.SearchFields),
		NewConfirmer: func(assumeYes bool) vacancy.Confirmer {
			return stubConfirmer{answer: assumeYes || env.answer, asked: &env.asked}
		},
	}
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	parser, err := kong.New(NewCLI(),
		kong.Name("vacancyctl"),
		kong.Vars{"version": "test"},
		kong.Writers(e.out, e.errOut),
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(e.ctx)
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	require.NoError(t, e.run(t, "login", "--username", "ann", "--password", "secret"))
	e.out.Reset()
	e.errOut.Reset()
}

func seedVacancies() []models.Vacancy {
	return []models.Vacancy{
		{
			ID:             1,
			Title:          "Go Engineer",
			CompanyName:    "Acme",
			CompanyAddress: "Moscow",
			CompanyLogo:    "https://acme.example/logo.png",
			Description:    "<p>Build services.</p>",
			Status:         models.StatusActive,
			HHID:           "123456",
			CreatedAt:      models.Timestamp{Time: time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)},
		},
		{
			ID:             2,
			Title:          "Analyst",
			CompanyName:    "Beta",
			CompanyAddress: "Kazan",
			Description:    "Numbers.",
			Status:         models.StatusDraft,
			CreatedAt:      models.Timestamp{Time: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		},
		{
			ID:             3,
			Title:          "Designer",
			CompanyName:    "acme labs",
			CompanyAddress: "Perm",
			CompanyLogo:    "https://labs.example/logo.png",
			Description:    "Pixels.",
			Status:         models.StatusClosed,
			CreatedAt:      models.Timestamp{Time: time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC)},
		},
	}
}
