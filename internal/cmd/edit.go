package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/vacancyctl/internal/models"
	"github.com/jimezsa/vacancyctl/internal/vacancy"
)

type EditCmd struct {
	ID     int64    `arg:"" help:"Vacancy id."`
	Set    []string `short:"s" sep:"none" placeholder:"FIELD=VALUE" help:"Change a field (title, company_name, company_address, company_logo, description, status, hh_id). Repeatable; an empty value clears the field."`
	Cancel bool     `help:"Discard the edit and return to the vacancy."`
}

type assignment struct {
	field models.Field
	value string
}

func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, item := range raw {
		name, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected FIELD=VALUE", item)
		}
		field, err := models.ParseField(name)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{field: field, value: value})
	}
	return out, nil
}

func (e *EditCmd) Run(ctx *Context) error {
	assignments, err := parseAssignments(e.Set)
	if err != nil {
		return err
	}
	if err := ctx.requireSession(); err != nil {
		return err
	}

	form := vacancy.NewEditForm(ctx.Service, ctx.navigator(), ctx.Logger, e.ID)
	if e.Cancel {
		form.Cancel()
		ctx.UI.Infof("Edit cancelled")
		return nil
	}
	defer form.Close()

	stop := ctx.startIndicator("Loading vacancy...")
	err = form.Load(ctx.base())
	stop()
	state := form.State()
	if state.NotFound {
		return notFound(e.ID)
	}
	if err != nil {
		return failure(err, state.Error)
	}

	for _, a := range assignments {
		if err := form.Set(a.field, a.value); err != nil {
			return err
		}
	}

	stop = ctx.startIndicator("Saving vacancy...")
	err = form.Submit(ctx.base())
	stop()
	if err != nil {
		return failure(err, form.State().Error)
	}

	ctx.UI.Successf("Vacancy %d updated", e.ID)
	return nil
}
