package vacancy

import (
	"context"
	"strings"
	"sync"

	"github.com/jimezsa/vacancyctl/internal/models"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/rs/zerolog"
)

// Submission is what a create form sends: exactly one of ManualSubmission or
// ImportSubmission.
type Submission interface {
	submission()
}

// ManualSubmission creates a vacancy from operator-entered fields.
type ManualSubmission struct {
	Fields models.Fields
}

// ImportSubmission asks the service to import an HH posting.
type ImportSubmission struct {
	HHID string
}

func (ManualSubmission) submission() {}
func (ImportSubmission) submission() {}

// CreateState is what the create view renders.
type CreateState struct {
	Fields     models.Fields
	ImportMode bool
	HHID       string
	Error      string
	Busy       bool
}

type CreateForm struct {
	api    API
	nav    nav.Navigator
	logger zerolog.Logger

	lifecycle

	mu         sync.Mutex
	fields     models.Fields
	importMode bool
	hhID       string
	err        string
}

func NewCreateForm(client API, navigator nav.Navigator, logger zerolog.Logger) *CreateForm {
	return &CreateForm{
		api:    client,
		nav:    navigator,
		logger: logger.With().Str("view", "create").Logger(),
		fields: models.Fields{Status: models.StatusActive},
	}
}

// Set changes one manual-mode field.
func (f *CreateForm) Set(field models.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	updated, err := f.fields.Set(field, value)
	if err != nil {
		return err
	}
	f.fields = updated
	return nil
}

// SetHHID changes the import-mode external id.
func (f *CreateForm) SetHHID(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hhID = value
}

func (f *CreateForm) ToggleImportMode() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.importMode = !f.importMode
}

func (f *CreateForm) SetImportMode(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.importMode = on
}

// Intent builds the submission for the active mode.
func (f *CreateForm) Intent() Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.importMode {
		return ImportSubmission{HHID: strings.TrimSpace(f.hhID)}
	}
	return ManualSubmission{Fields: f.fields}
}

// Submit validates and sends the active submission. On success it navigates to
// the collection root; on failure the fields are kept and Error is set.
func (f *CreateForm) Submit(ctx context.Context) error {
	release, err := f.acquire()
	if err != nil {
		return err
	}
	defer release()

	f.setError("")

	var created models.Vacancy
	switch s := f.Intent().(type) {
	case ManualSubmission:
		if err := RequireAll().Validate(s.Fields); err != nil {
			f.setError(err.Error())
			return err
		}
		created, err = f.api.CreateVacancy(ctx, s.Fields)
	case ImportSubmission:
		if s.HHID == "" {
			verr := &ValidationError{Missing: []models.Field{models.FieldHHID}, Message: msgNoImportID}
			f.setError(verr.Error())
			return verr
		}
		created, err = f.api.CreateVacancyFromExternalID(ctx, s.HHID)
	}

	if !f.alive() {
		return ErrClosed
	}
	if err != nil {
		f.setError(viewMessage(err, msgCreate, true))
		f.logger.Error().Err(err).Msg("create vacancy")
		return err
	}

	f.logger.Info().Int64("id", created.ID).Str("hh_id", created.HHID).Msg("vacancy created")
	f.nav.Navigate(nav.Root())
	return nil
}

func (f *CreateForm) State() CreateState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return CreateState{
		Fields:     f.fields,
		ImportMode: f.importMode,
		HHID:       f.hhID,
		Error:      f.err,
		Busy:       f.Busy(),
	}
}

func (f *CreateForm) setError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = msg
}
