package sentiment

type Label string

const (
	Positive Label = "POSITIVE"
	Negative Label = "NEGATIVE"
)

// Classify labels a probability. The comparison is strict, so a score equal
// to the threshold is negative.
func Classify(p, threshold float64) Label {
	if p > threshold {
		return Positive
	}
	return Negative
}

// Confidence is the probability of the chosen label: p when positive,
// 1-p otherwise. With the default 0.5 threshold it is always in [0.5, 1].
func Confidence(p, threshold float64) float64 {
	if Classify(p, threshold) == Positive {
		return p
	}
	return 1 - p
}

func (l Label) Icon() string {
	if l == Positive {
		return "😊"
	}
	return "😞"
}

func (l Label) CSSClass() string {
	if l == Positive {
		return "positive-sentiment"
	}
	return "negative-sentiment"
}
