package printing

import (
	"io"

	"github.com/KashifMalik777/ml-ids/pkg/model"
	"github.com/olekukonko/tablewriter"
)

//PrintEvaluation writes a classification report and confusion matrix
func PrintEvaluation(w io.Writer, ev model.Evaluation) {
	report := tablewriter.NewWriter(w)
	report.SetHeader([]string{"Class", "Precision", "Recall", "F1", "Support"})
	for _, c := range ev.Classes {
		report.Append([]string{c.Name, f(c.Precision), f(c.Recall), f(c.F1), i(c.Support)})
	}
	report.SetFooter([]string{"Accuracy", "", "", f(ev.Accuracy), i(ev.Support)})
	report.Render()

	confusion := tablewriter.NewWriter(w)
	confusion.SetHeader([]string{"Actual \\ Predicted", model.ClassNames[0], model.ClassNames[1]})
	for actual, row := range ev.Confusion {
		confusion.Append([]string{model.ClassNames[actual], i(row[0]), i(row[1])})
	}
	confusion.Render()
}
