package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wildfunctions/genetix/pkg/genfile"
	"github.com/wildfunctions/genetix/pkg/sample"
	"github.com/wildfunctions/genetix/pkg/storage"
)

func runSample(cmd *cobra.Command, args []string) error {
	s, err := sample.FromFormula(sampleFormula, sampleStart, sampleEnd, sampleCount)
	if err != nil {
		return err
	}
	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return sample.WriteCSV(w, s)
}

func runGenfileDump(cmd *cobra.Command, args []string) error {
	g, err := genfile.Open(args[0], genfile.ReadOnly)
	if err != nil {
		return err
	}
	defer g.Close()
	if err := g.Seek(dumpOffset); err != nil {
		return err
	}
	return dumpRecords(cmd.OutOrStdout(), g, dumpLimit)
}

func dumpRecords(w io.Writer, g *genfile.File, limit int) error {
	for n := 0; limit <= 0 || n < limit; n++ {
		off := g.Offset()
		text, err := g.Read()
		if errors.Is(err, genfile.ErrEndOfData) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\n", off, text)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := storage.NewStore(historyStore, historyStorePath, slog.Default())
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if len(args) == 1 {
		gens, err := store.ListGenerations(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "GEN\tCREATED\tBEST\tMEAN\tSTDDEV\tEXPRESSION")
		for _, g := range gens {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				g.Generation, humanize.Comma(g.Created), g.BestFitness, g.MeanFitness, g.StdDev, g.Best)
		}
		return nil
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "ID\tSTARTED\tMODEL\tPOOL\tSTATE\tGENS\tBEST\tEXPRESSION")
	for _, r := range runs {
		best := ""
		if len(r.Best) > 0 {
			best = r.Best[0]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, humanize.Time(r.StartedAt), r.Model, r.Pool, r.State, r.Generations, r.BestFitness, best)
	}
	return nil
}
