package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/api"
	"github.com/jimezsa/vacancyctl/internal/export"
	"github.com/jimezsa/vacancyctl/internal/query"
	"github.com/jimezsa/vacancyctl/internal/seen"
	"github.com/jimezsa/vacancyctl/internal/vacancy"
)

type ListCmd struct {
	Search string        `short:"s" help:"Case-insensitive substring filter over the configured search fields."`
	Sort   []string      `help:"Sort column: title, company, status or none. Repeat to replay header clicks: the same column flips between asc and desc."`
	Format string        `help:"Output format: table, csv, tsv, json, ndjson, md. With --watch, json becomes ndjson." enum:",table,csv,tsv,json,ndjson,md" default:""`
	Output string        `name:"output" short:"o" help:"Write output to a file."`
	Watch  time.Duration `help:"Reload the list at this interval until interrupted (e.g. 30s)."`
}

// sortState replays the --sort flags through the header toggle.
func (l *ListCmd) sortState() (query.SortState, error) {
	var state query.SortState
	for _, raw := range l.Sort {
		key, err := query.ParseKey(raw)
		if err != nil {
			return state, err
		}
		state = state.Toggle(key)
	}
	return state, nil
}

func (l *ListCmd) Run(ctx *Context) error {
	sortState, err := l.sortState()
	if err != nil {
		return err
	}
	if err := ctx.requireSession(); err != nil {
		return err
	}

	writer, closeOutput, err := ctx.openOutput(l.Output)
	if err != nil {
		return err
	}
	defer closeOutput()

	format, err := ctx.outputFormat(l.Format, strings.TrimSpace(l.Output) != "")
	if err != nil {
		return err
	}
	if l.Watch > 0 && format == export.FormatJSON {
		format = export.FormatNDJSON
	}

	controller := vacancy.NewListController(ctx.Service, ctx.confirmer(false), ctx.Logger)
	defer controller.Close()

	view := query.State{Term: l.Search, Sort: sortState}
	engine := ctx.engine()

	stop := ctx.startIndicator("Loading vacancies...")
	err = controller.Mount(ctx.base())
	stop()
	if err != nil {
		return failure(err, controller.State().Error)
	}
	if err := l.render(ctx, writer, format, controller, engine, view); err != nil {
		return err
	}

	if l.Watch <= 0 {
		return nil
	}
	return l.watch(ctx, writer, format, controller, engine, view)
}

func (l *ListCmd) render(ctx *Context, w io.Writer, format export.Format, controller *vacancy.ListController, engine *query.Engine, view query.State) error {
	items := controller.View(engine, view)
	return export.WriteVacancies(w, items, format, ctx.writeOptions(w))
}

// watch re-renders the list on every tick and reports what changed since the
// previous poll. A failed poll keeps the last rendering; losing authorization
// ends the loop.
func (l *ListCmd) watch(ctx *Context, w io.Writer, format export.Format, controller *vacancy.ListController, engine *query.Engine, view query.State) error {
	clock := ctx.clock()
	ticker := clock.NewTicker(l.Watch)
	defer ticker.Stop()

	base := ctx.base()
	previous := controller.State().Items
	for {
		select {
		case <-base.Done():
			return nil
		case <-ticker.Chan():
		}

		if err := controller.Poll(base); err != nil {
			if crdb.Is(err, api.ErrAuthorizationLost) || crdb.Is(err, vacancy.ErrClosed) {
				return err
			}
			if base.Err() != nil {
				return nil
			}
			ctx.UI.Warnf("%s", controller.State().Error)
			continue
		}
		current := controller.State().Items
		_, stats := seen.Diff(current, previous)
		previous = current
		if !ctx.JSONOutput && !ctx.PlainText {
			stamp := clock.Now().Format("15:04:05")
			if stats.Empty() {
				fmt.Fprintf(ctx.Err, "refreshed at %s\n", stamp)
			} else {
				fmt.Fprintf(ctx.Err, "refreshed at %s (%s)\n", stamp, stats)
			}
		}
		if err := l.render(ctx, w, format, controller, engine, view); err != nil {
			return err
		}
	}
}
