package sentiment

// Example is a sample review shown next to the input box.
type Example struct {
	Label Label
	Text  string
}

var examples = []Example{
	{Label: Positive, Text: "I absolutely loved this movie! The cinematography was breathtaking and the acting was phenomenal."},
	{Label: Negative, Text: "What a waste of time. The plot was boring and the characters were poorly developed."},
	{Label: Positive, Text: "Brilliant storytelling! This film kept me on the edge of my seat from start to finish."},
}

// Examples returns a copy of the sample reviews.
func Examples() []Example {
	return append([]Example(nil), examples...)
}
