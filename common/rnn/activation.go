package rnn

import (
	"fmt"
	"math"
)

type activation func(float64) float64

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func hardSigmoid(x float64) float64 {
	return math.Max(0, math.Min(1, 0.2*x+0.5))
}

func relu(x float64) float64 { return math.Max(0, x) }

func linear(x float64) float64 { return x }

func activationByName(name, fallback string) (activation, error) {
	if name == "" {
		name = fallback
	}
	switch name {
	case "sigmoid":
		return sigmoid, nil
	case "hard_sigmoid":
		return hardSigmoid, nil
	case "tanh":
		return math.Tanh, nil
	case "relu":
		return relu, nil
	case "linear":
		return linear, nil
	default:
		return nil, fmt.Errorf("unsupported activation %q", name)
	}
}
