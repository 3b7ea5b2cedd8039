package cmd

import (
	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/vacancy"
)

type DeleteCmd struct {
	ID  int64 `arg:"" help:"Vacancy id."`
	Yes bool  `short:"y" help:"Skip the confirmation prompt."`
}

func (d *DeleteCmd) Run(ctx *Context) error {
	if err := ctx.requireSession(); err != nil {
		return err
	}

	controller := vacancy.NewListController(ctx.Service, ctx.confirmer(d.Yes), ctx.Logger)
	defer controller.Close()

	err := controller.Delete(ctx.base(), d.ID)
	if crdb.Is(err, vacancy.ErrCancelled) {
		ctx.UI.Infof("Cancelled")
		return nil
	}
	state := controller.State()
	if err != nil {
		return failure(err, state.Error)
	}

	ctx.UI.Successf("Vacancy %d deleted; %d remaining", d.ID, len(state.Items))
	return nil
}
