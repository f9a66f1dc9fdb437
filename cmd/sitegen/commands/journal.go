package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/eventstore"
)

// JournalCmd implements the 'journal' command.
type JournalCmd struct {
	DB    string `name:"db" required:"" help:"Journal database written by build --journal" type:"existingfile"`
	Build string `help:"Show one build in detail"`
	Limit int    `default:"20" help:"Number of builds to list"`
	JSON  bool   `name:"json" help:"Print the build summary as JSON"`
}

func (j *JournalCmd) Run(g *Global, _ *CLI) error {
	store, err := eventstore.NewSQLiteStore(j.DB)
	if err != nil {
		return serrors.DirectoryUnreadable(j.DB, err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if j.Build != "" {
		return j.show(ctx, g.out(), store)
	}
	return j.list(ctx, g.out(), store)
}

func (j *JournalCmd) list(ctx context.Context, out io.Writer, store eventstore.Store) error {
	refs, err := store.ListBuilds(ctx, j.Limit)
	if err != nil {
		return serrors.DirectoryUnreadable(j.DB, err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tPOSTS\tEVENTS")
	for _, ref := range refs {
		summary, err := eventstore.LoadSummary(ctx, store, ref.BuildID)
		if err != nil {
			return serrors.DirectoryUnreadable(j.DB, err)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			ref.BuildID, ref.StartedAt.Local().Format(time.DateTime), summary.Status, summary.Posts, ref.EventCount)
	}
	return tw.Flush()
}

func (j *JournalCmd) show(ctx context.Context, out io.Writer, store eventstore.Store) error {
	summary, err := eventstore.LoadSummary(ctx, store, j.Build)
	if err != nil {
		return serrors.DirectoryUnreadable(j.DB, err)
	}
	if summary.StartedAt.IsZero() && len(summary.Plugins) == 0 {
		return serrors.ValidationFailed("build", fmt.Sprintf("no events recorded for build %s", j.Build))
	}

	if j.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	_, _ = fmt.Fprintf(out, "Build %s: %s\n", summary.BuildID, summary.Status)
	_, _ = fmt.Fprintf(out, "Started %s, took %s\n", summary.StartedAt.Local().Format(time.DateTime), summary.Duration)
	_, _ = fmt.Fprintf(out, "Posts %d, pages %d, skipped files %d\n", summary.Posts, summary.Pages, len(summary.Skipped))
	if summary.ErrorPlugin != "" {
		_, _ = fmt.Fprintf(out, "Failed in %s: %s\n", summary.ErrorPlugin, summary.ErrorMessage)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tPLUGIN\tDURATION\tERROR")
	for _, run := range summary.Plugins {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", run.Index, run.Plugin, run.Duration, run.Error)
	}
	for _, path := range summary.Skipped {
		_, _ = fmt.Fprintf(tw, "-\tskipped\t\t%s\n", path)
	}
	return tw.Flush()
}
