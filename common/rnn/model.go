// Package rnn runs the forward pass of a recurrent sequence classifier from
// exported weights: an embedding followed by recurrent, pooling, dropout and
// dense layers, ending in a single sigmoid unit.
package rnn

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrTokenOutOfRange = errors.New("token id outside embedding table")
	ErrInputLength     = errors.New("input length does not match model")
	ErrNotProbability  = errors.New("model output is not a single sigmoid unit")
)

type document struct {
	Name        string      `json:"name"`
	InputLength int         `json:"input_length"`
	Layers      []layerSpec `json:"layers"`
}

// Model is a loaded classifier. It holds no mutable state, so Predict may be
// called from any number of goroutines.
type Model struct {
	name        string
	inputLength int
	embedding   *embedding
	layers      []layer
}

// Load decodes and validates a model artifact.
func Load(r io.Reader) (*Model, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return build(doc)
}

func build(doc document) (*Model, error) {
	if len(doc.Layers) == 0 || doc.Layers[0].Type != "embedding" {
		return nil, errors.New("model must start with an embedding layer")
	}
	if doc.InputLength < 0 {
		return nil, fmt.Errorf("invalid input_length %d", doc.InputLength)
	}

	emb, err := newEmbedding(doc.Layers[0])
	if err != nil {
		return nil, err
	}
	m := &Model{name: doc.Name, inputLength: doc.InputLength, embedding: emb}
	if m.name == "" {
		m.name = "model"
	}

	_, width := emb.weights.Dims()
	seq := true
	var last *dense
	for i, s := range doc.Layers[1:] {
		var l layer
		switch s.Type {
		case "simple_rnn", "lstm", "gru":
			if !seq {
				return nil, fmt.Errorf("layer %d (%s) needs a sequence input", i+1, s.label())
			}
			r, err := newRecurrent(s, width)
			if err != nil {
				return nil, err
			}
			l, width, seq, last = r, r.units, r.returnSequences, nil
		case "dense":
			d, err := newDense(s, width, seq)
			if err != nil {
				return nil, err
			}
			_, width = d.kernel.Dims()
			l, last = d, d
		case "dropout", "spatial_dropout1d":
			l = &identity{name: s.label(), kind: s.Type, width: width, seq: seq}
		case "global_average_pooling1d", "global_max_pooling1d":
			if !seq {
				return nil, fmt.Errorf("layer %d (%s) needs a sequence input", i+1, s.label())
			}
			l, seq, last = &pooling{name: s.label(), kind: s.Type, width: width}, false, nil
		case "embedding":
			return nil, fmt.Errorf("layer %d: embedding is only allowed first", i+1)
		default:
			return nil, fmt.Errorf("layer %d: unsupported type %q", i+1, s.Type)
		}
		m.layers = append(m.layers, l)
	}

	if seq || last == nil || width != 1 || last.actTag != "sigmoid" {
		return nil, ErrNotProbability
	}
	return m, nil
}

// Predict runs one forward pass and returns the output unit.
func (m *Model) Predict(ids []int) (float64, error) {
	if len(ids) == 0 || (m.inputLength > 0 && len(ids) != m.inputLength) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrInputLength, len(ids), m.inputLength)
	}
	seq, err := m.embedding.lookup(ids)
	if err != nil {
		return 0, err
	}
	for _, l := range m.layers {
		seq = l.forward(seq)
	}
	return seq[0].AtVec(0), nil
}

func (m *Model) Name() string { return m.name }

// InputLength is the sequence length the model was exported with, or 0 when
// the artifact does not say.
func (m *Model) InputLength() int { return m.inputLength }

// VocabularySize is the number of rows in the embedding table.
func (m *Model) VocabularySize() int {
	r, _ := m.embedding.weights.Dims()
	return r
}

func (m *Model) Summary() []LayerInfo {
	out := []LayerInfo{m.embedding.info()}
	for _, l := range m.layers {
		out = append(out, l.info())
	}
	return out
}
