package model

//ClassNames are the display names of the binary targets
var ClassNames = [2]string{"Benign", "Attack"}

type (
	//ClassReport holds the per class metrics of an evaluation
	ClassReport struct {
		Name      string
		Precision float64
		Recall    float64
		F1        float64
		Support   int
	}

	//Evaluation summarizes predictions on held out rows.
	//Confusion[actual][predicted] counts rows.
	Evaluation struct {
		Confusion [2][2]int
		Classes   [2]ClassReport
		Accuracy  float64
		Support   int
	}
)

//Evaluate scores the model against a labelled dataset
func Evaluate(m *Model, ds *Dataset) Evaluation {
	var ev Evaluation
	for i, row := range ds.X {
		predicted, _ := m.Predict(row)
		ev.Confusion[ds.Y[i]][predicted]++
	}
	ev.Support = len(ds.X)

	correct := ev.Confusion[0][0] + ev.Confusion[1][1]
	if ev.Support > 0 {
		ev.Accuracy = float64(correct) / float64(ev.Support)
	}

	for c := 0; c < 2; c++ {
		tp := ev.Confusion[c][c]
		predicted := ev.Confusion[0][c] + ev.Confusion[1][c]
		actual := ev.Confusion[c][0] + ev.Confusion[c][1]

		report := ClassReport{Name: ClassNames[c], Support: actual}
		if predicted > 0 {
			report.Precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			report.Recall = float64(tp) / float64(actual)
		}
		if report.Precision+report.Recall > 0 {
			report.F1 = 2 * report.Precision * report.Recall / (report.Precision + report.Recall)
		}
		ev.Classes[c] = report
	}
	return ev
}
