package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"captioncorpus/internal/captions"
	"captioncorpus/internal/contentkey"
	"captioncorpus/internal/filters"
	"captioncorpus/internal/interval"
	"captioncorpus/internal/textnorm"
)

type inspectInterval struct {
	Index    int     `json:"index"`
	Start    string  `json:"ts_start"`
	End      string  `json:"ts_end"`
	Duration float64 `json:"duration"`
	Words    int     `json:"words"`
	Key      string  `json:"key"`
	Text     string  `json:"text"`
}

type inspectReport struct {
	SourceID   string            `json:"source_id"`
	Candidates int               `json:"candidates"`
	Accepted   int               `json:"accepted"`
	Rejected   bool              `json:"rejected"`
	Reason     string            `json:"reason,omitempty"`
	Intervals  []inspectInterval `json:"intervals"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var sourceID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <captions>",
		Short: "Run the filter chain over a caption file without exporting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			track, err := captions.ReadFile(strings.TrimSpace(args[0]), strings.TrimSpace(sourceID))
			if err != nil {
				return err
			}
			chain, err := filters.ChainFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			result, err := filters.Run(cmd.Context(), track, chain, nil)
			if err != nil {
				return err
			}

			report := buildInspectReport(result)
			if asJSON {
				return writeJSON(cmd, report)
			}
			printInspectReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceID, "source-id", "", "Source identifier mixed into content keys (default: caption file name)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func buildInspectReport(result filters.Result) inspectReport {
	report := inspectReport{
		SourceID:   result.SourceID,
		Candidates: result.Candidates,
		Accepted:   result.Accepted(),
		Rejected:   result.Rejected,
		Reason:     result.Reason,
		Intervals:  make([]inspectInterval, 0, len(result.Intervals)),
	}
	for _, item := range result.Intervals {
		report.Intervals = append(report.Intervals, inspectInterval{
			Index:    item.Index,
			Start:    interval.FormatTimestamp(item.Start),
			End:      interval.FormatTimestamp(item.End),
			Duration: item.Seconds(),
			Words:    textnorm.WordCount(item.Text),
			Key:      contentkey.KeyFor(item),
			Text:     item.Text,
		})
	}
	return report
}

func printInspectReport(cmd *cobra.Command, report inspectReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d of %d cues accepted\n", report.SourceID, report.Accepted, report.Candidates)
	if report.Rejected {
		fmt.Fprintf(out, "Rejected by %s\n", report.Reason)
	}
	if len(report.Intervals) == 0 {
		return
	}

	columns := []tableColumn{
		{Header: "#", Align: alignRight},
		{Header: "Start"},
		{Header: "End"},
		{Header: "Secs", Align: alignRight},
		{Header: "Words", Align: alignRight},
		{Header: "Key"},
		{Header: "Text", Width: 60},
	}
	rows := make([][]string, 0, len(report.Intervals))
	for _, item := range report.Intervals {
		rows = append(rows, []string{
			strconv.Itoa(item.Index),
			item.Start,
			item.End,
			strconv.FormatFloat(item.Duration, 'f', 2, 64),
			strconv.Itoa(item.Words),
			item.Key[:12],
			item.Text,
		})
	}
	fmt.Fprintln(out, renderTable(columns, rows))
}
