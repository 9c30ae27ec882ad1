package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"captioncorpus/internal/corpus"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the corpus manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			manifest, err := corpus.OpenManifest(cfg.ManifestPath())
			if err != nil {
				return fmt.Errorf("open manifest: %w", err)
			}
			defer manifest.Close()

			totals, err := manifest.Totals(cmd.Context())
			if err != nil {
				return err
			}
			runs, err := manifest.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSection("Corpus"))
			fmt.Fprintln(out, renderTable(
				[]tableColumn{{Header: "Metric"}, {Header: "Value", Align: alignRight}},
				totalsRows(totals),
			))
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSection("Recent runs"))
			fmt.Fprintln(out, renderTable(runColumns(), runRows(runs, time.Now())))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of recent runs to show")
	return cmd
}

func totalsRows(totals corpus.Totals) [][]string {
	rows := [][]string{
		{"Records", humanize.Comma(int64(totals.Records))},
		{"Sources", humanize.Comma(int64(totals.Sources))},
		{"Audio", humanize.Bytes(uint64(max(totals.AudioBytes, 0)))},
		{"Duration", (time.Duration(totals.AudioSeconds * float64(time.Second))).Round(time.Second).String()},
		{"Runs", humanize.Comma(int64(totals.Runs))},
	}
	for _, result := range slices.Sorted(maps.Keys(totals.ByResult)) {
		rows = append(rows, []string{"Result " + result, strconv.Itoa(totals.ByResult[result])})
	}
	for _, verdict := range slices.Sorted(maps.Keys(totals.ByVerdict)) {
		rows = append(rows, []string{"Verdict " + verdict, strconv.Itoa(totals.ByVerdict[verdict])})
	}
	return rows
}

func runColumns() []tableColumn {
	return []tableColumn{
		{Header: "Finished"},
		{Header: "Source", Width: 40},
		{Header: "Cues", Align: alignRight},
		{Header: "Kept", Align: alignRight},
		{Header: "Written", Align: alignRight},
		{Header: "Verdict"},
		{Header: "Similarity", Align: alignRight},
		{Header: "Result"},
	}
}

func runRows(runs []corpus.Run, now time.Time) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		similarity := "-"
		if run.Verdict == "accept" || run.Verdict == "reject" {
			similarity = strconv.FormatFloat(run.MeanSimilarity, 'f', 3, 64)
		}
		rows = append(rows, []string{
			humanize.RelTime(run.FinishedAt, now, "ago", "from now"),
			run.SourceID,
			strconv.Itoa(run.Candidates),
			strconv.Itoa(run.Accepted),
			strconv.Itoa(run.Exported),
			run.Verdict,
			similarity,
			run.Result,
		})
	}
	return rows
}
