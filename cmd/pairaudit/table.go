package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"pairaudit/internal/audit"
	"pairaudit/internal/results"
)

const detailWidth = 60

// runsTable renders stored run summaries newest first, count columns
// right-aligned.
func runsTable(runs []results.Run) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Run", "Created", "Source", "Total", "Completed", "Matched", "Errored"})
	for _, run := range runs {
		tw.AppendRow(table.Row{
			run.ID,
			run.CreatedAt.Local().Format(time.DateTime),
			run.Source,
			run.Total,
			run.Completed,
			run.Matched,
			run.Errored,
		})
	}
	tw.SetColumnConfigs(rightAligned(4, 5, 6, 7))
	return tw.Render()
}

// itemsTable renders one run's verdicts in projection order. The detail
// column carries the reasoning, or the error message for failed items,
// truncated to keep rows on one line.
func itemsTable(items []audit.Item) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"ID", "LS Supplier", "DBM Supplier", "Match", "LS Industry", "DBM Industry", "Status", "Detail"})
	for _, item := range items {
		detail := item.Reasoning
		if item.Status == audit.StatusError {
			detail = item.ErrorMessage
		}
		tw.AppendRow(table.Row{
			item.ID,
			item.SupplierA,
			item.SupplierB,
			matchFlag(item),
			item.SectorA,
			item.SectorB,
			string(item.Status),
			truncate(detail, detailWidth),
		})
	}
	return tw.Render()
}

func matchFlag(item audit.Item) string {
	if item.Status == audit.StatusCompleted && item.IsMatch {
		return "Yes"
	}
	return "No"
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

func rightAligned(columns ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, number := range columns {
		configs = append(configs, table.ColumnConfig{
			Number:      number,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	return configs
}
