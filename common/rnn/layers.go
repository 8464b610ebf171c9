package rnn

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// layer transforms a sequence of time-step vectors. Implementations only read
// their weights, so one layer may serve concurrent forward passes.
type layer interface {
	forward(seq []mat.Vector) []mat.Vector
	info() LayerInfo
}

// LayerInfo describes one layer of a loaded model.
type LayerInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	OutputSize int    `json:"output_size"`
	Sequence   bool   `json:"sequence"`
	Params     int    `json:"params"`
}

// layerSpec is one entry of the exported weight document. Which fields are
// read depends on Type.
type layerSpec struct {
	Type                string          `json:"type"`
	Name                string          `json:"name"`
	Units               int             `json:"units"`
	Activation          string          `json:"activation"`
	RecurrentActivation string          `json:"recurrent_activation"`
	ReturnSequences     bool            `json:"return_sequences"`
	ResetAfter          *bool           `json:"reset_after"`
	Embeddings          [][]float64     `json:"embeddings"`
	Kernel              [][]float64     `json:"kernel"`
	RecurrentKernel     [][]float64     `json:"recurrent_kernel"`
	Bias                json.RawMessage `json:"bias"`
}

func (s layerSpec) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Type
}

// matrix copies rows into a dense matrix of the expected shape. A zero want
// dimension accepts whatever the artifact holds.
func matrix(rows [][]float64, wantRows, wantCols int, what string) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s is empty", what)
	}
	r, c := len(rows), len(rows[0])
	if (wantRows != 0 && r != wantRows) || (wantCols != 0 && c != wantCols) {
		return nil, fmt.Errorf("%s has shape %dx%d, want %dx%d", what, r, c, wantRows, wantCols)
	}
	data := make([]float64, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%s row %d has %d columns, want %d", what, i, len(row), c)
		}
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}

func vector(raw json.RawMessage, want int, what string) (*mat.VecDense, error) {
	var vals []float64
	if err := json.Unmarshal(raw, &vals); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if len(vals) != want {
		return nil, fmt.Errorf("%s has %d values, want %d", what, len(vals), want)
	}
	return mat.NewVecDense(want, vals), nil
}

// embedding maps token ids to dense vectors. It is not a layer: its input is
// ids, not vectors.
type embedding struct {
	name    string
	weights *mat.Dense
}

func newEmbedding(s layerSpec) (*embedding, error) {
	w, err := matrix(s.Embeddings, 0, 0, s.label()+" embeddings")
	if err != nil {
		return nil, err
	}
	return &embedding{name: s.label(), weights: w}, nil
}

func (e *embedding) lookup(ids []int) ([]mat.Vector, error) {
	rows, _ := e.weights.Dims()
	seq := make([]mat.Vector, len(ids))
	for t, id := range ids {
		if id < 0 || id >= rows {
			return nil, fmt.Errorf("%w: id %d at position %d, vocabulary has %d rows", ErrTokenOutOfRange, id, t, rows)
		}
		seq[t] = e.weights.RowView(id)
	}
	return seq, nil
}

func (e *embedding) info() LayerInfo {
	r, c := e.weights.Dims()
	return LayerInfo{Name: e.name, Type: "embedding", OutputSize: c, Sequence: true, Params: r * c}
}

// recurrent holds the weights shared by simple_rnn, lstm and gru. gates is the
// number of unit-wide blocks in the kernels.
type recurrent struct {
	name            string
	kind            string
	units           int
	gates           int
	kernel          *mat.Dense // in x gates*units
	recurrentKernel *mat.Dense // units x gates*units
	bias            *mat.VecDense
	recurrentBias   *mat.VecDense // gru with reset_after only
	resetAfter      bool
	act             activation
	recAct          activation
	returnSequences bool
}

func newRecurrent(s layerSpec, in int) (*recurrent, error) {
	gates := map[string]int{"simple_rnn": 1, "lstm": 4, "gru": 3}[s.Type]
	if s.Units <= 0 {
		return nil, fmt.Errorf("%s: units must be positive", s.label())
	}
	width := gates * s.Units
	l := &recurrent{
		name:            s.label(),
		kind:            s.Type,
		units:           s.Units,
		gates:           gates,
		returnSequences: s.ReturnSequences,
	}

	var err error
	if l.act, err = activationByName(s.Activation, "tanh"); err != nil {
		return nil, fmt.Errorf("%s: %w", l.name, err)
	}
	if l.recAct, err = activationByName(s.RecurrentActivation, "sigmoid"); err != nil {
		return nil, fmt.Errorf("%s: %w", l.name, err)
	}
	if l.kernel, err = matrix(s.Kernel, in, width, l.name+" kernel"); err != nil {
		return nil, err
	}
	if l.recurrentKernel, err = matrix(s.RecurrentKernel, s.Units, width, l.name+" recurrent_kernel"); err != nil {
		return nil, err
	}

	l.resetAfter = s.Type == "gru" && (s.ResetAfter == nil || *s.ResetAfter)
	if !l.resetAfter {
		if l.bias, err = vector(s.Bias, width, l.name+" bias"); err != nil {
			return nil, err
		}
		return l, nil
	}

	var pair [][]float64
	if err := json.Unmarshal(s.Bias, &pair); err != nil {
		return nil, fmt.Errorf("decode %s bias: %w", l.name, err)
	}
	biases, err := matrix(pair, 2, width, l.name+" bias")
	if err != nil {
		return nil, err
	}
	l.bias = mat.VecDenseCopyOf(biases.RowView(0))
	l.recurrentBias = mat.VecDenseCopyOf(biases.RowView(1))
	return l, nil
}

func (l *recurrent) forward(seq []mat.Vector) []mat.Vector {
	u := l.units
	h := mat.NewVecDense(u, nil)
	c := mat.NewVecDense(u, nil)
	xz := mat.NewVecDense(l.gates*u, nil)
	hz := mat.NewVecDense(l.gates*u, nil)

	var out []mat.Vector
	for _, x := range seq {
		xz.MulVec(l.kernel.T(), x)
		switch l.kind {
		case "simple_rnn":
			hz.MulVec(l.recurrentKernel.T(), h)
			for j := 0; j < u; j++ {
				h.SetVec(j, l.act(xz.AtVec(j)+hz.AtVec(j)+l.bias.AtVec(j)))
			}
		case "lstm":
			hz.MulVec(l.recurrentKernel.T(), h)
			for j := 0; j < u; j++ {
				z := func(g int) float64 { return xz.AtVec(g*u+j) + hz.AtVec(g*u+j) + l.bias.AtVec(g*u+j) }
				i, f, g, o := l.recAct(z(0)), l.recAct(z(1)), l.act(z(2)), l.recAct(z(3))
				cj := f*c.AtVec(j) + i*g
				c.SetVec(j, cj)
				h.SetVec(j, o*l.act(cj))
			}
		case "gru":
			l.gruStep(xz, hz, h)
		}
		if l.returnSequences {
			out = append(out, mat.VecDenseCopyOf(h))
		}
	}
	if !l.returnSequences {
		out = []mat.Vector{h}
	}
	return out
}

// gruStep updates h in place. xz already holds x·W.
func (l *recurrent) gruStep(xz, hz, h *mat.VecDense) {
	u := l.units
	xz.AddVec(xz, l.bias)

	if l.resetAfter {
		hz.MulVec(l.recurrentKernel.T(), h)
		hz.AddVec(hz, l.recurrentBias)
		for j := 0; j < u; j++ {
			z := l.recAct(xz.AtVec(j) + hz.AtVec(j))
			r := l.recAct(xz.AtVec(u+j) + hz.AtVec(u+j))
			hh := l.act(xz.AtVec(2*u+j) + r*hz.AtVec(2*u+j))
			h.SetVec(j, z*h.AtVec(j)+(1-z)*hh)
		}
		return
	}

	// reset gate is applied to h before the candidate projection
	zr := mat.NewVecDense(2*u, nil)
	zr.MulVec(l.recurrentKernel.Slice(0, u, 0, 2*u).T(), h)
	rh := mat.NewVecDense(u, nil)
	z := make([]float64, u)
	for j := 0; j < u; j++ {
		z[j] = l.recAct(xz.AtVec(j) + zr.AtVec(j))
		r := l.recAct(xz.AtVec(u+j) + zr.AtVec(u+j))
		rh.SetVec(j, r*h.AtVec(j))
	}
	cand := mat.NewVecDense(u, nil)
	cand.MulVec(l.recurrentKernel.Slice(0, u, 2*u, 3*u).T(), rh)
	for j := 0; j < u; j++ {
		hh := l.act(xz.AtVec(2*u+j) + cand.AtVec(j))
		h.SetVec(j, z[j]*h.AtVec(j)+(1-z[j])*hh)
	}
}

func (l *recurrent) info() LayerInfo {
	params := countParams(l.kernel) + countParams(l.recurrentKernel) + l.bias.Len()
	if l.recurrentBias != nil {
		params += l.recurrentBias.Len()
	}
	return LayerInfo{Name: l.name, Type: l.kind, OutputSize: l.units, Sequence: l.returnSequences, Params: params}
}

type dense struct {
	name   string
	kernel *mat.Dense
	bias   *mat.VecDense
	act    activation
	actTag string
	seq    bool
}

func newDense(s layerSpec, in int, seq bool) (*dense, error) {
	k, err := matrix(s.Kernel, in, s.Units, s.label()+" kernel")
	if err != nil {
		return nil, err
	}
	_, units := k.Dims()
	b, err := vector(s.Bias, units, s.label()+" bias")
	if err != nil {
		return nil, err
	}
	act, err := activationByName(s.Activation, "linear")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.label(), err)
	}
	tag := s.Activation
	if tag == "" {
		tag = "linear"
	}
	return &dense{name: s.label(), kernel: k, bias: b, act: act, actTag: tag, seq: seq}, nil
}

func (d *dense) forward(seq []mat.Vector) []mat.Vector {
	_, units := d.kernel.Dims()
	out := make([]mat.Vector, len(seq))
	for t, x := range seq {
		y := mat.NewVecDense(units, nil)
		y.MulVec(d.kernel.T(), x)
		for j := 0; j < units; j++ {
			y.SetVec(j, d.act(y.AtVec(j)+d.bias.AtVec(j)))
		}
		out[t] = y
	}
	return out
}

func (d *dense) info() LayerInfo {
	_, units := d.kernel.Dims()
	return LayerInfo{Name: d.name, Type: "dense", OutputSize: units, Sequence: d.seq, Params: countParams(d.kernel) + d.bias.Len()}
}

// pooling collapses the time axis.
type pooling struct {
	name  string
	kind  string
	width int
}

func (p *pooling) forward(seq []mat.Vector) []mat.Vector {
	out := mat.NewVecDense(p.width, nil)
	for j := 0; j < p.width; j++ {
		acc := seq[0].AtVec(j)
		for _, x := range seq[1:] {
			v := x.AtVec(j)
			if p.kind == "global_max_pooling1d" {
				if v > acc {
					acc = v
				}
				continue
			}
			acc += v
		}
		if p.kind == "global_average_pooling1d" {
			acc /= float64(len(seq))
		}
		out.SetVec(j, acc)
	}
	return []mat.Vector{out}
}

func (p *pooling) info() LayerInfo {
	return LayerInfo{Name: p.name, Type: p.kind, OutputSize: p.width}
}

// identity stands in for dropout layers, which do nothing at inference.
type identity struct {
	name  string
	kind  string
	width int
	seq   bool
}

func (i *identity) forward(seq []mat.Vector) []mat.Vector { return seq }

func (i *identity) info() LayerInfo {
	return LayerInfo{Name: i.name, Type: i.kind, OutputSize: i.width, Sequence: i.seq}
}

func countParams(m *mat.Dense) int {
	r, c := m.Dims()
	return r * c
}
