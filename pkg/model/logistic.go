package model

import (
	"math"
)

//Scaler standardizes features to zero mean and unit variance
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

//FitScaler computes the per feature mean and population standard deviation.
//Constant features get a scale of 1 so they transform to zero.
func FitScaler(x [][]float64) Scaler {
	if len(x) == 0 {
		return Scaler{}
	}
	n := len(x[0])
	s := Scaler{Mean: make([]float64, n), Scale: make([]float64, n)}

	for _, row := range x {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= float64(len(x))
	}

	for _, row := range x {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		s.Scale[j] = math.Sqrt(s.Scale[j] / float64(len(x)))
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return s
}

//Transform returns a scaled copy of row
func (s Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

//TransformAll scales every row of x
func (s Scaler) TransformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.Transform(row)
	}
	return out
}

//TrainOptions controls gradient descent
type TrainOptions struct {
	MaxIterations int
	LearningRate  float64
	L2            float64
	// BalanceClasses weights attack rows by benign/attack so both classes
	// contribute equally to the loss
	BalanceClasses bool
}

//Logistic is a binary logistic regression over scaled features
type Logistic struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

//Probability returns the probability that a scaled row is an attack
func (m Logistic) Probability(row []float64) float64 {
	z := m.Bias
	for j, w := range m.Weights {
		z += w * row[j]
	}
	return sigmoid(z)
}

//TrainLogistic fits weights by full batch gradient descent on the weighted
//log loss with an L2 penalty on the weights
func TrainLogistic(x [][]float64, y []int, opts TrainOptions) Logistic {
	if len(x) == 0 {
		return Logistic{}
	}
	n := len(x[0])
	m := Logistic{Weights: make([]float64, n)}

	positiveWeight := 1.0
	if opts.BalanceClasses {
		var pos, neg float64
		for _, c := range y {
			if c == 1 {
				pos++
			} else {
				neg++
			}
		}
		if pos > 0 && neg > 0 {
			positiveWeight = neg / pos
		}
	}

	var totalWeight float64
	for _, c := range y {
		if c == 1 {
			totalWeight += positiveWeight
		} else {
			totalWeight++
		}
	}

	grad := make([]float64, n)
	for iter := 0; iter < opts.MaxIterations; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64

		for i, row := range x {
			w := 1.0
			if y[i] == 1 {
				w = positiveWeight
			}
			diff := w * (m.Probability(row) - float64(y[i]))
			for j, v := range row {
				grad[j] += diff * v
			}
			gradBias += diff
		}

		for j := range m.Weights {
			m.Weights[j] -= opts.LearningRate * (grad[j]/totalWeight + opts.L2*m.Weights[j])
		}
		m.Bias -= opts.LearningRate * gradBias / totalWeight
	}
	return m
}
