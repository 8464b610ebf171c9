// Package artifacts loads the model and tokenizer a manifest points at. Both
// are read once at startup and never change afterwards.
package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"puresearch/sentiment-analyzer/common/rnn"
	"puresearch/sentiment-analyzer/common/tokenizer"
)

// Bundle is the immutable pair of artifacts plus the manifest that ties them
// together.
type Bundle struct {
	Manifest  Manifest
	Model     *rnn.Model
	Tokenizer *tokenizer.Tokenizer
}

// Load reads the manifest at path and both artifacts it names, in parallel.
func Load(ctx context.Context, path string, logger *zap.Logger) (*Bundle, error) {
	manifest, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Manifest: manifest}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		raw, err := readArtifact(ctx, manifest.ModelPath())
		if err != nil {
			return err
		}
		if b.Model, err = rnn.Load(bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("failed to load model %s: %w", manifest.ModelPath(), err)
		}
		logger.Info("Model loaded",
			zap.String("path", manifest.ModelPath()),
			zap.Int("layers", len(b.Model.Summary())),
			zap.Duration("took", time.Since(start)))
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		raw, err := readArtifact(ctx, manifest.TokenizerPath())
		if err != nil {
			return err
		}
		if b.Tokenizer, err = tokenizer.Load(bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("failed to load tokenizer %s: %w", manifest.TokenizerPath(), err)
		}
		logger.Info("Tokenizer loaded",
			zap.String("path", manifest.TokenizerPath()),
			zap.Int("vocabulary", b.Tokenizer.VocabularySize()),
			zap.Duration("took", time.Since(start)))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := b.check(); err != nil {
		return nil, err
	}
	return b, nil
}

// check verifies the artifacts agree with each other and with the manifest.
func (b *Bundle) check() error {
	if n := b.Model.InputLength(); n != 0 && n != b.Manifest.MaxLen {
		return fmt.Errorf("model expects input length %d but manifest max_len is %d", n, b.Manifest.MaxLen)
	}
	if tv, mv := b.Tokenizer.VocabularySize(), b.Model.VocabularySize(); tv > mv {
		return fmt.Errorf("tokenizer emits ids up to %d but the embedding table has %d rows", tv-1, mv)
	}
	return nil
}

// readArtifact returns the file contents, transparently inflating gzip. The
// format is sniffed from the bytes rather than trusted from the file name.
func readArtifact(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	mtype := mimetype.Detect(raw)
	if mtype.Is("application/gzip") {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip artifact %s: %w", path, err)
		}
		defer zr.Close()
		if raw, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("failed to inflate artifact %s: %w", path, err)
		}
		mtype = mimetype.Detect(raw)
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("artifact %s is %s, expected a JSON export", path, mtype.String())
	}
	return raw, nil
}
