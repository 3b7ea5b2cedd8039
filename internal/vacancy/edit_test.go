package vacancy

import (
	"context"
	"testing"

	"github.com/jimezsa/vacancyctl/internal/models"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editFixture(logo string) models.Vacancy {
	return models.Vacancy{
		ID:             7,
		Title:          "Go Engineer",
		CompanyName:    "Acme",
		CompanyAddress: "Moscow",
		CompanyLogo:    logo,
		Description:    "Build services.",
		Status:         models.StatusActive,
		CreatedAt:      ts("2024-03-03T09:00:00"),
	}
}

func TestEditLoadSeedsDraftAndPolicy(t *testing.T) {
	fake := newFakeAPI(editFixture(""))
	form := NewEditForm(fake, &nav.Recorder{}, zerolog.Nop(), 7)

	require.NoError(t, form.Load(context.Background()))

	state := form.State()
	assert.True(t, state.Loaded)
	assert.Equal(t, "Go Engineer", state.Fields.Title)
	assert.True(t, state.Policy.Optional(models.FieldCompanyLogo))
	assert.True(t, state.Policy.Optional(models.FieldHHID))
	assert.False(t, state.Policy.Optional(models.FieldTitle))
	assert.False(t, state.Policy.Optional(models.FieldStatus))
}

func TestEditFieldEmptyAtLoadStaysOptional(t *testing.T) {
	fake := newFakeAPI(editFixture(""))
	recorder := &nav.Recorder{}
	form := NewEditForm(fake, recorder, zerolog.Nop(), 7)
	require.NoError(t, form.Load(context.Background()))
	require.NoError(t, form.Set(models.FieldTitle, "Senior Go Engineer"))

	require.NoError(t, form.Submit(context.Background()))

	assert.Equal(t, []string{"get 7", "update 7"}, fake.Calls())
	require.Len(t, fake.updated, 1)
	sent := fake.updated[0]
	assert.Equal(t, "Senior Go Engineer", sent.Title)
	assert.Equal(t, "Acme", sent.CompanyName)
	assert.Equal(t, "", sent.CompanyLogo)
	assert.Equal(t, models.StatusActive, sent.Status)
	assert.Equal(t, []nav.Route{nav.Detail(7)}, recorder.Routes())
}

func TestEditClearingNonEmptyFieldFailsValidation(t *testing.T) {
	fake := newFakeAPI(editFixture("x"))
	recorder := &nav.Recorder{}
	form := NewEditForm(fake, recorder, zerolog.Nop(), 7)
	require.NoError(t, form.Load(context.Background()))
	require.NoError(t, form.Set(models.FieldCompanyLogo, ""))

	err := form.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []models.Field{models.FieldCompanyLogo}, verr.Missing)
	assert.Equal(t, []string{"get 7"}, fake.Calls())
	assert.Empty(t, recorder.Routes())
	assert.NotEmpty(t, form.State().Error)
}

func TestEditStatusIsAlwaysRequired(t *testing.T) {
	fake := newFakeAPI(editFixture("x"))
	form := NewEditForm(fake, &nav.Recorder{}, zerolog.Nop(), 7)
	require.NoError(t, form.Load(context.Background()))
	require.NoError(t, form.Set(models.FieldStatus, ""))

	err := form.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []models.Field{models.FieldStatus}, verr.Missing)
}

func TestEditExternalIDIsOptional(t *testing.T) {
	v := editFixture("x")
	v.HHID = "98765"
	fake := newFakeAPI(v)
	form := NewEditForm(fake, &nav.Recorder{}, zerolog.Nop(), 7)
	require.NoError(t, form.Load(context.Background()))
	require.NoError(t, form.Set(models.FieldHHID, ""))

	require.NoError(t, form.Submit(context.Background()))
	assert.Equal(t, "", fake.updated[0].HHID)
}

func TestEditPolicyIsFrozenAcrossReloads(t *testing.T) {
	fake := newFakeAPI(editFixture(""))
	form := NewEditForm(fake, &nav.Recorder{}, zerolog.Nop(), 7)
	require.NoError(t, form.Load(context.Background()))

	fake.mu.Lock()
	fake.items[7] = editFixture("https://acme.example/logo.png")
	fake.mu.Unlock()
	require.NoError(t, form.Load(context.Background()))

	state := form.State()
	assert.Equal(t, "https://acme.example/logo.png", state.Fields.CompanyLogo)
	assert.True(t, state.Policy.Optional(models.FieldCompanyLogo))
}

func TestEditSubmitBeforeLoad(t *testing.T) {
	fake := newFakeAPI(editFixture(""))
	form := NewEditForm(fake, &nav.Recorder{}, zerolog.Nop(), 7)

	assert.ErrorIs(t, form.Submit(context.Background()), ErrNotLoaded)
	assert.Empty(t, fake.Calls())
}

func TestEditNotFound(t *testing.T) {
	fake := newFakeAPI()
	form := NewEditForm(fake, &nav.Recorder{}, zerolog.Nop(), 42)

	require.Error(t, form.Load(context.Background()))
	state := form.State()
	assert.True(t, state.NotFound)
	assert.False(t, state.Loaded)
	assert.Empty(t, state.Error)
}

func TestEditLoadFailureShowsMessage(t *testing.T) {
	fake := newFakeAPI(editFixture(""))
	fake.getErr = transient()
	form := NewEditForm(fake, &nav.Recorder{}, zerolog.Nop(), 7)

	require.Error(t, form.Load(context.Background()))
	assert.Equal(t, msgLoadVacancy, form.State().Error)
}

func TestEditUpdateFailureShowsDetail(t *testing.T) {
	fake := newFakeAPI(editFixture("x"))
	fake.updateErr = rejected("status: invalid value")
	recorder := &nav.Recorder{}
	form := NewEditForm(fake, recorder, zerolog.Nop(), 7)
	require.NoError(t, form.Load(context.Background()))

	require.Error(t, form.Submit(context.Background()))
	assert.Equal(t, "status: invalid value", form.State().Error)
	assert.Empty(t, recorder.Routes())
}

func TestEditCancelDropsDraft(t *testing.T) {
	fake := newFakeAPI(editFixture("x"))
	recorder := &nav.Recorder{}
	form := NewEditForm(fake, recorder, zerolog.Nop(), 7)
	require.NoError(t, form.Load(context.Background()))
	require.NoError(t, form.Set(models.FieldTitle, "changed"))

	form.Cancel()

	assert.Equal(t, []nav.Route{nav.Detail(7)}, recorder.Routes())
	assert.Empty(t, form.State().Fields.Title)
	assert.ErrorIs(t, form.Submit(context.Background()), ErrClosed)
	assert.Equal(t, []string{"get 7"}, fake.Calls())
}

func TestEditSubmitRejectedWhileBusy(t *testing.T) {
	fake := newFakeAPI(editFixture("https://acme.example/logo.png"))
	form := NewEditForm(fake, &nav.Recorder{}, zerolog.Nop(), 7)
	require.NoError(t, form.Load(context.Background()))
	fake.submitGate = make(chan struct{})
	fake.submitStarted = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- form.Submit(context.Background())
	}()
	<-fake.submitStarted

	assert.True(t, form.State().Busy)
	assert.ErrorIs(t, form.Submit(context.Background()), ErrBusy)

	close(fake.submitGate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, fake.count("update"))
	assert.False(t, form.State().Busy)
}
