package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

/*
WriteMatrix takes an io.Writer and a fold report and writes its confusion
matrix as a table with a row per actual class and a column per predicted
class.
*/
func WriteMatrix(w io.Writer, r *FoldReport) error {
	_, err := fmt.Fprintf(w, "\nConfusion Matrix (%s):\n", r.Fold)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	header := make([]string, 0, len(r.Labels)+1)
	header = append(header, "actual \\ predicted")
	header = append(header, r.Labels...)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, counts := range r.Matrix {
		record := make([]string, 0, len(counts)+1)
		record = append(record, r.Labels[i])
		for _, c := range counts {
			record = append(record, strconv.Itoa(c))
		}
		table.Append(record)
	}
	table.Render()
	_, err = fmt.Fprintf(w, "Accuracy (%s): %.2f%%\n", r.Fold, r.Accuracy*100)
	if err != nil || len(r.Classes) == 0 {
		return err
	}
	return writeClassMetrics(w, r.Classes)
}

func writeClassMetrics(w io.Writer, classes []ClassMetrics) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Class", "Precision", "Recall"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, c := range classes {
		table.Append([]string{
			c.Label,
			fmt.Sprintf("%.2f%%", c.Precision*100),
			fmt.Sprintf("%.2f%%", c.Recall*100),
		})
	}
	table.Render()
	return nil
}

/*
WriteDetails takes an io.Writer and a fold report and writes the guess
and the original label of every prediction in the report.
*/
func WriteDetails(w io.Writer, r *FoldReport) error {
	for _, p := range r.Predictions {
		marker := ""
		if p.Fallback {
			marker = " (fallback)"
		}
		_, err := fmt.Fprintf(w, "row %d: guess %s, original %s%s\n", p.Row, p.Predicted, p.Actual, marker)
		if err != nil {
			return err
		}
	}
	return nil
}

/*
WriteSummary takes an io.Writer, the name of the algorithm and a slice of
fold reports and writes a table with the figures of each fold.
*/
func WriteSummary(w io.Writer, algorithm string, reports []*FoldReport) error {
	_, err := fmt.Fprintf(w, "\nAlgorithm: %s\nSummary of Results:\n", algorithm)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Fold", "Train rows", "Test rows", "Tree depth", "Tree nodes", "Fallbacks", "Rejected", "Accuracy"})
	table.SetAutoFormatHeaders(false)
	for _, r := range reports {
		table.Append([]string{
			r.Fold,
			strconv.Itoa(r.TrainRows),
			strconv.Itoa(r.TestRows),
			strconv.Itoa(r.TreeDepth),
			strconv.Itoa(r.TreeSize),
			strconv.Itoa(r.Fallbacks),
			strconv.Itoa(r.Rejected),
			fmt.Sprintf("%.2f%%", r.Accuracy*100),
		})
	}
	table.Render()
	return nil
}
