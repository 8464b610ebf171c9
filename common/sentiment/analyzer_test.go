package sentiment

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puresearch/sentiment-analyzer/common/tokenizer"
)

// stubSequencer yields one id per whitespace word, 1 for known words.
type stubSequencer struct {
	known map[string]bool
}

func (s stubSequencer) TextToSequence(text string) []int {
	var seq []int
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if s.known[w] {
			seq = append(seq, 1)
		}
	}
	return seq
}

type stubPredictor struct {
	score     float64
	err       error
	callCount int
	lastInput []int
}

func (p *stubPredictor) Predict(ids []int) (float64, error) {
	p.callCount++
	p.lastInput = ids
	return p.score, p.err
}

var pad = tokenizer.PadOptions{MaxLen: 8}

func newTestAnalyzer(t *testing.T, score float64) (*Analyzer, *stubPredictor) {
	t.Helper()
	predictor := &stubPredictor{score: score}
	seq := stubSequencer{known: map[string]bool{"loved": true, "movie": true, "waste": true}}
	a, err := NewAnalyzer(seq, predictor, pad, 0.5, nil)
	require.NoError(t, err)
	return a, predictor
}

func TestAnalyzer_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		score      float64
		label      Label
		confidence float64
		words      int
		characters int
	}{
		{
			name:       "Positive review",
			text:       "I absolutely loved this movie!",
			score:      0.93,
			label:      Positive,
			confidence: 93.0,
			words:      5,
			characters: 30,
		},
		{
			name:       "Negative review",
			text:       "What a waste of time.",
			score:      0.12,
			label:      Negative,
			confidence: 88.0,
			words:      5,
			characters: 21,
		},
		{
			name:       "Boundary is negative",
			text:       "meh",
			score:      0.5,
			label:      Negative,
			confidence: 50.0,
			words:      1,
			characters: 3,
		},
		{
			name:       "Characters count runes and spaces",
			text:       "  Un été  ",
			score:      1,
			label:      Positive,
			confidence: 100.0,
			words:      2,
			characters: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, predictor := newTestAnalyzer(t, tt.score)

			res, err := a.Analyze(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.label, res.Label)
			assert.InDelta(t, tt.confidence, res.ConfidencePercent(), 1e-9)
			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, tt.words, res.Words)
			assert.Equal(t, tt.characters, res.Characters)
			assert.Equal(t, 1, predictor.callCount)
			assert.Len(t, predictor.lastInput, pad.MaxLen)
		})
	}
}

func TestAnalyzer_EmptyInputSkipsInference(t *testing.T) {
	for _, text := range []string{"", " ", "\t\n  "} {
		a, predictor := newTestAnalyzer(t, 0.9)

		_, err := a.Analyze(text)
		require.ErrorIs(t, err, ErrEmptyReview)
		require.Zero(t, predictor.callCount)
	}
}

func TestAnalyzer_PadsToFixedLength(t *testing.T) {
	a, predictor := newTestAnalyzer(t, 0.7)

	res, err := a.Analyze(strings.Repeat("loved movie ", 10))
	require.NoError(t, err)
	require.Equal(t, 20, res.KnownTokens)
	require.Len(t, predictor.lastInput, pad.MaxLen)

	res, err = a.Analyze("unknown words only")
	require.NoError(t, err)
	require.Zero(t, res.KnownTokens)
	require.Equal(t, make([]int, pad.MaxLen), predictor.lastInput)
}

func TestAnalyzer_Deterministic(t *testing.T) {
	a, _ := newTestAnalyzer(t, 0.42)

	first, err := a.Analyze("I loved this movie")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := a.Analyze("I loved this movie")
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestAnalyzer_PredictorErrors(t *testing.T) {
	a, predictor := newTestAnalyzer(t, 0)
	predictor.err = errors.New("boom")

	_, err := a.Analyze("loved it")
	require.ErrorContains(t, err, "boom")

	predictor.err = nil
	predictor.score = 1.2
	_, err = a.Analyze("loved it")
	require.ErrorIs(t, err, ErrInvalidScore)
}

func TestAnalyzer_Batch(t *testing.T) {
	a, predictor := newTestAnalyzer(t, 0.8)

	items := a.AnalyzeBatch([]string{"loved it", "   ", "great movie"})
	require.Len(t, items, 3)
	require.NoError(t, items[0].Err)
	require.Equal(t, Positive, items[0].Result.Label)
	require.ErrorIs(t, items[1].Err, ErrEmptyReview)
	require.Equal(t, "great movie", items[2].Text)
	require.Equal(t, 2, predictor.callCount)
}

func TestNewAnalyzer_Validation(t *testing.T) {
	seq := stubSequencer{}
	_, err := NewAnalyzer(seq, &stubPredictor{}, tokenizer.PadOptions{}, 0.5, nil)
	require.Error(t, err)

	_, err = NewAnalyzer(seq, &stubPredictor{}, pad, 1.5, nil)
	require.Error(t, err)
}

func TestClassifyAndConfidence(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		p := float64(i) / 1000
		label := Classify(p, 0.5)
		conf := Confidence(p, 0.5)

		require.Equal(t, p > 0.5, label == Positive, "p=%v", p)
		require.InDelta(t, max(p, 1-p), conf, 1e-12, "p=%v", p)
		require.GreaterOrEqual(t, conf, 0.5)
		require.LessOrEqual(t, conf, 1.0)
	}
}

func TestExamples(t *testing.T) {
	ex := Examples()
	require.Len(t, ex, 3)
	ex[0].Text = "changed"
	require.NotEqual(t, "changed", Examples()[0].Text)
}
