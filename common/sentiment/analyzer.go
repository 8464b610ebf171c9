// Package sentiment turns review text into a labelled prediction: tokenize,
// pad to the model's fixed length, run the model, threshold the score.
package sentiment

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"puresearch/sentiment-analyzer/common/tokenizer"
)

var (
	ErrEmptyReview  = errors.New("please enter a review to analyze")
	ErrInvalidScore = errors.New("model returned a score outside [0, 1]")
)

// Sequencer converts text into vocabulary indices.
type Sequencer interface {
	TextToSequence(text string) []int
}

// Predictor runs one forward pass over a fixed-length sequence.
type Predictor interface {
	Predict(ids []int) (float64, error)
}

// Result is the outcome of analyzing one review. It is built per request and
// never retained.
type Result struct {
	Score       float64
	Label       Label
	Confidence  float64
	Words       int
	Characters  int
	KnownTokens int
	Language    string
}

func (r Result) ConfidencePercent() float64 { return r.Confidence * 100 }

// BatchItem pairs a batch input with its result or error.
type BatchItem struct {
	Text   string
	Result Result
	Err    error
}

type Analyzer struct {
	sequencer Sequencer
	predictor Predictor
	pad       tokenizer.PadOptions
	threshold float64
	logger    *zap.Logger
}

func NewAnalyzer(sequencer Sequencer, predictor Predictor, pad tokenizer.PadOptions, threshold float64, logger *zap.Logger) (*Analyzer, error) {
	if err := pad.Validate(); err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("threshold %v outside [0, 1]", threshold)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		sequencer: sequencer,
		predictor: predictor,
		pad:       pad,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// Analyze classifies one review. Blank input returns ErrEmptyReview without
// touching the model.
func (a *Analyzer) Analyze(text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyReview
	}

	seq := a.sequencer.TextToSequence(text)
	padded := tokenizer.Pad(seq, a.pad)

	p, err := a.predictor.Predict(padded)
	if err != nil {
		return Result{}, fmt.Errorf("inference failed: %w", err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidScore, p)
	}

	res := Result{
		Score:       p,
		Label:       Classify(p, a.threshold),
		Confidence:  Confidence(p, a.threshold),
		Words:       len(strings.Fields(text)),
		Characters:  utf8.RuneCountInString(text),
		KnownTokens: len(seq),
		Language:    detectLanguage(text),
	}
	a.logger.Debug("Review analyzed",
		zap.Float64("score", res.Score),
		zap.String("label", string(res.Label)),
		zap.Int("words", res.Words),
		zap.Int("tokens", res.KnownTokens))
	return res, nil
}

// AnalyzeBatch analyzes each text in order. One bad item does not stop the
// others.
func (a *Analyzer) AnalyzeBatch(texts []string) []BatchItem {
	return lo.Map(texts, func(text string, _ int) BatchItem {
		res, err := a.Analyze(text)
		return BatchItem{Text: text, Result: res, Err: err}
	})
}

func (a *Analyzer) Threshold() float64 { return a.threshold }

func (a *Analyzer) PadOptions() tokenizer.PadOptions { return a.pad }

// detectLanguage is informational only; the model is not language aware.
func detectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.String()
}
