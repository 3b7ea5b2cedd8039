package cmd

import (
	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/vacancy"
)

type RefreshCmd struct {
	ID int64 `arg:"" help:"Vacancy id."`
}

func (r *RefreshCmd) Run(ctx *Context) error {
	if err := ctx.requireSession(); err != nil {
		return err
	}

	detail := vacancy.NewDetailController(ctx.Service, ctx.confirmer(false), ctx.navigator(), ctx.clock(), ctx.Logger)
	defer detail.Close()

	stop := ctx.startIndicator("Loading vacancy...")
	err := detail.Show(ctx.base(), r.ID)
	stop()
	if state := detail.State(); state.NotFound {
		return notFound(r.ID)
	} else if err != nil {
		return failure(err, state.Error)
	}

	stop = ctx.startIndicator("Refreshing from HH...")
	err = detail.RefreshFromExternalSource(ctx.base())
	stop()

	state := detail.State()
	if err != nil {
		if crdb.Is(err, vacancy.ErrNoExternalID) {
			return crdb.WithHint(err, "import the vacancy with `vacancyctl create --hh-id ID` to link it to HH")
		}
		return failure(err, state.Error)
	}

	if err := writeDetail(ctx, state); err != nil {
		return err
	}
	if state.Notice != "" && !ctx.JSONOutput {
		ctx.UI.Successf("%s", state.Notice)
	}
	return nil
}
