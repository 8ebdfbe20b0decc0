// Package artwork turns the player's artwork reference into a grayscale image.
package artwork

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kantiankant/musicwidget/internal/domain"
	"github.com/kantiankant/musicwidget/internal/fetcher"
	"github.com/kantiankant/musicwidget/internal/processor"
	"go.uber.org/zap"
)

const (
	filePrefix    = "file://"
	sourcePattern = "musicwidget-src-*"
	outputPattern = "musicwidget-art-*.png"
)

// Resolver converts, decodes and desaturates artwork files
type Resolver struct {
	logger    *zap.Logger
	converter domain.Converter
	fetcher   domain.Fetcher
	cfg       domain.Config
}

// NewResolver creates a new artwork resolver
func NewResolver(logger *zap.Logger, converter domain.Converter, fetcher domain.Fetcher, cfg domain.Config) *Resolver {
	return &Resolver{
		logger:    logger,
		converter: converter,
		fetcher:   fetcher,
		cfg:       cfg,
	}
}

// Resolve returns the desaturated artwork for ref.
// ok is false when the reference is empty or any step fails.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*image.NRGBA, bool) {
	src := strings.TrimPrefix(ref, filePrefix)
	if src == "" {
		return nil, false
	}

	if fetcher.IsRemote(src) {
		path, err := r.download(ctx, src)
		if err != nil {
			r.logger.Debug("Artwork download failed", zap.String("ref", ref), zap.Error(err))
			return nil, false
		}
		defer os.Remove(path)
		src = path
	}

	img, err := r.convert(ctx, src)
	if err != nil {
		r.logger.Debug("Artwork unavailable", zap.String("ref", ref), zap.Error(err))
		return nil, false
	}

	processor.Desaturate(img)
	return img, true
}

// convert runs the external converter into a fresh PNG and decodes it.
// The PNG is removed on every path once its pixels are read.
func (r *Resolver) convert(ctx context.Context, src string) (*image.NRGBA, error) {
	dst, err := createTemp(r.cfg.GetTempDir(), outputPattern, nil)
	if err != nil {
		return nil, err
	}
	defer os.Remove(dst)

	cctx, cancel := context.WithTimeout(ctx, r.cfg.GetConvertTimeout())
	defer cancel()

	if err := r.converter.Convert(cctx, src, dst); err != nil {
		return nil, err
	}

	decoded, err := imaging.Open(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to decode converted artwork: %w", err)
	}

	img := imaging.Clone(decoded)
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("converted artwork is empty")
	}
	return img, nil
}

func (r *Resolver) download(ctx context.Context, url string) (string, error) {
	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return createTemp(r.cfg.GetTempDir(), sourcePattern, data)
}

// createTemp creates a uniquely named file holding data and returns its path
func createTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", werr)
	}
	return f.Name(), nil
}
