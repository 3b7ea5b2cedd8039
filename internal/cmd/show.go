package cmd

import (
	"github.com/jimezsa/vacancyctl/internal/export"
	"github.com/jimezsa/vacancyctl/internal/vacancy"
)

type ShowCmd struct {
	ID int64 `arg:"" help:"Vacancy id."`
}

func (s *ShowCmd) Run(ctx *Context) error {
	if err := ctx.requireSession(); err != nil {
		return err
	}

	detail := vacancy.NewDetailController(ctx.Service, ctx.confirmer(false), ctx.navigator(), ctx.clock(), ctx.Logger)
	defer detail.Close()

	stop := ctx.startIndicator("Loading vacancy...")
	err := detail.Show(ctx.base(), s.ID)
	stop()

	state := detail.State()
	if state.NotFound {
		return notFound(s.ID)
	}
	if err != nil {
		return failure(err, state.Error)
	}
	return writeDetail(ctx, state)
}

func writeDetail(ctx *Context, state vacancy.DetailState) error {
	format := export.FormatTable
	if ctx.JSONOutput {
		format = export.FormatJSON
	}
	return export.WriteVacancy(ctx.Out, *state.Vacancy, format, ctx.writeOptions(ctx.Out))
}
