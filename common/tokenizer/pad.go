package tokenizer

import "fmt"

// Mode says which end of a sequence is padded or truncated.
type Mode string

const (
	Pre  Mode = "pre"
	Post Mode = "post"
)

// PadOptions fixes the model input length. Empty modes mean Pre.
type PadOptions struct {
	MaxLen     int
	Padding    Mode
	Truncating Mode
}

func (o PadOptions) Validate() error {
	if o.MaxLen <= 0 {
		return fmt.Errorf("max length must be positive, got %d", o.MaxLen)
	}
	for _, m := range []Mode{o.Padding, o.Truncating} {
		if m != "" && m != Pre && m != Post {
			return fmt.Errorf("unknown pad mode %q", m)
		}
	}
	return nil
}

// Pad returns a new slice of exactly opts.MaxLen indices, zero-filled on the
// padding side and cut on the truncating side.
func Pad(seq []int, opts PadOptions) []int {
	out := make([]int, opts.MaxLen)
	if len(seq) > opts.MaxLen {
		if opts.Truncating == Post {
			seq = seq[:opts.MaxLen]
		} else {
			seq = seq[len(seq)-opts.MaxLen:]
		}
	}
	if opts.Padding == Post {
		copy(out, seq)
	} else {
		copy(out[opts.MaxLen-len(seq):], seq)
	}
	return out
}
