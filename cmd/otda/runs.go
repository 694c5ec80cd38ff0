package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/colour.transfer/internal/db"
)

func runRuns(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dbPath := fs.String("db", "runs.db", "Run history database")
	limit := fs.Int("limit", 20, "Number of runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := db.OpenDB(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(*limit)
	if err != nil {
		return err
	}
	return printRuns(stdout, runs)
}

func printRuns(w io.Writer, runs []db.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tMETHOD\tSIZE\tMS\tSOURCE\tOUTPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%d\t%s\t%s\n",
			r.RunID, r.CreatedAt.Format(time.RFC3339), r.Method, r.Width, r.Height, r.DurationMs, r.SourcePath, r.OutputPath)
	}
	return tw.Flush()
}
