package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"puresearch/sentiment-analyzer/common/tokenizer"
)

// DefaultThreshold is the decision boundary used when the manifest omits one.
const DefaultThreshold = 0.5

var validate = validator.New()

// Manifest records the training-time settings that must accompany a model:
// the artifacts themselves, the sequence length and the decision threshold.
type Manifest struct {
	Name       string   `yaml:"name" validate:"required"`
	Model      string   `yaml:"model" validate:"required"`
	Tokenizer  string   `yaml:"tokenizer" validate:"required"`
	MaxLen     int      `yaml:"max_len" validate:"required,gt=0"`
	Threshold  *float64 `yaml:"threshold" validate:"required,gte=0,lte=1"`
	Padding    string   `yaml:"padding" validate:"oneof=pre post"`
	Truncating string   `yaml:"truncating" validate:"oneof=pre post"`

	dir string
}

// LoadManifest reads and validates a manifest file. Artifact paths are
// resolved against the manifest's directory.
func LoadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	m.applyDefaults()
	if err := validate.Struct(m); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Threshold == nil {
		t := DefaultThreshold
		m.Threshold = &t
	}
	if m.Padding == "" {
		m.Padding = string(tokenizer.Pre)
	}
	if m.Truncating == "" {
		m.Truncating = string(tokenizer.Pre)
	}
}

func (m Manifest) ModelPath() string     { return m.resolve(m.Model) }
func (m Manifest) TokenizerPath() string { return m.resolve(m.Tokenizer) }

func (m Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.dir, p)
}

func (m Manifest) DecisionThreshold() float64 {
	if m.Threshold == nil {
		return DefaultThreshold
	}
	return *m.Threshold
}

func (m Manifest) PadOptions() tokenizer.PadOptions {
	return tokenizer.PadOptions{
		MaxLen:     m.MaxLen,
		Padding:    tokenizer.Mode(m.Padding),
		Truncating: tokenizer.Mode(m.Truncating),
	}
}
