package printing

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/KashifMalik777/ml-ids/pipeline"
	"github.com/KashifMalik777/ml-ids/pkg/label"
	"github.com/KashifMalik777/ml-ids/util"
	"github.com/olekukonko/tablewriter"
)

func i(n int) string {
	return strconv.Itoa(n)
}

func f(n float64) string {
	return strconv.FormatFloat(n, 'f', 4, 64)
}

//PrintReport writes the diagnostic counts of a pipeline run as tables
func PrintReport(w io.Writer, report *pipeline.Report) {
	fmt.Fprintf(w, "\nRun %s (%s)\n", report.RunID, util.FormatDuration(report.Duration))

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"Measure", "Count"})
	summary.SetAlignment(tablewriter.ALIGN_LEFT)
	summary.AppendBulk([][]string{
		{"Files discovered", i(report.FilesDiscovered)},
		{"Files loaded", i(len(report.FilesLoaded))},
		{"Files skipped", i(len(report.FilesSkipped))},
		{"Rows loaded", i(report.RowsLoaded)},
		{"Column collisions", i(len(report.Collisions))},
		{"Common columns", i(report.Unify.CommonColumns)},
		{"Final features", i(len(report.Unify.FinalFeatures))},
		{"Columns dropped", i(report.Unify.TotalDroppedColumns())},
		{"Cells coerced to missing", i(report.Unify.CoercedCells)},
		{"Infinite cells", i(report.Sanitize.InfiniteCells)},
		{"Rows with missing values", i(report.Sanitize.MissingRows)},
		{"Duplicate rows", i(report.Sanitize.DuplicateRows)},
		{"Rows dropped by final check", i(report.Verify.DroppedRows)},
		{"Remaining missing values", i(report.RemainingMissing)},
		{"Remaining infinite values", i(report.RemainingInfinite)},
		{"Rows written", i(report.RowsWritten)},
	})
	summary.Render()

	printStageTimings(w, report)

	if len(report.FilesSkipped) > 0 {
		skipped := tablewriter.NewWriter(w)
		skipped.SetHeader([]string{"Skipped File", "Reason"})
		skipped.SetAutoWrapText(false)
		for _, s := range report.FilesSkipped {
			skipped.Append([]string{s.Path, s.Reason()})
		}
		skipped.Render()
	}

	if len(report.Collisions) > 0 {
		collisions := tablewriter.NewWriter(w)
		collisions.SetHeader([]string{"File", "Canonical", "Kept", "Dropped"})
		for _, c := range report.Collisions {
			collisions.Append([]string{c.Path, c.Canonical, c.Kept, c.Dropped})
		}
		collisions.Render()
	}

	if len(report.Labels.Counts) > 0 {
		PrintLabelCounts(w, report.Labels.Counts)
	}
}

// printStageTimings lists the completed stages in run order
func printStageTimings(w io.Writer, report *pipeline.Report) {
	last, ok := report.LastStage()
	if !ok {
		return
	}

	timings := tablewriter.NewWriter(w)
	timings.SetHeader([]string{"Stage", "Duration"})
	timings.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, stage := range pipeline.Stages() {
		if stage > last {
			break
		}
		timings.Append([]string{stage.String(), util.FormatDuration(report.StageDuration(stage))})
	}
	timings.Render()
}

//PrintLabelCounts writes the number of rows per category, largest first
func PrintLabelCounts(w io.Writer, counts map[label.Category]int) {
	cats := make([]label.Category, 0, len(counts))
	total := 0
	for _, cat := range label.Categories() {
		if n, ok := counts[cat]; ok {
			cats = append(cats, cat)
			total += n
		}
	}
	sort.SliceStable(cats, func(a, b int) bool {
		return counts[cats[a]] > counts[cats[b]]
	})

	labels := tablewriter.NewWriter(w)
	labels.SetHeader([]string{"Category", "Rows", "Share"})
	for _, cat := range cats {
		share := float64(counts[cat]) / float64(total) * 100
		labels.Append([]string{cat.String(), i(counts[cat]), strconv.FormatFloat(share, 'f', 2, 64) + "%"})
	}
	labels.Render()
}
