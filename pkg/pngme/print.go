package pngme

import (
	"context"
	"fmt"
	"io"

	"github.com/beam-cloud/pngme/pkg/png"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 8

type PrintOptions struct {
	Paths       []string
	Concurrency int
	Storage     StorageOptions
}

// PngSummary describes the layout of one png.
type PngSummary struct {
	Path      string
	Signature [8]byte
	Chunks    []*png.Chunk
	Inventory *png.Inventory
}

func newPngSummary(path string, p *png.Png) *PngSummary {
	return &PngSummary{
		Path:      path,
		Signature: p.Signature(),
		Chunks:    p.Chunks(),
		Inventory: png.NewInventory(p),
	}
}

// Write renders the summary in the human readable form used by the print command.
func (s *PngSummary) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\nSignature: %v\nContains %d chunks...\n", s.Path, s.Signature, len(s.Chunks)); err != nil {
		return err
	}

	for i, chunk := range s.Chunks {
		if _, err := fmt.Fprintf(w, "%d: %s (%d bytes)\n", i, chunk.Type(), chunk.Length()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Chunk types:\n"); err != nil {
		return err
	}

	for _, entry := range s.Inventory.Entries() {
		_, err := fmt.Fprintf(w, "  %s x%d, %d bytes, first at %d, critical=%t public=%t safe-to-copy=%t valid=%t\n",
			entry.Type, entry.Count, entry.DataBytes, entry.FirstIndex,
			entry.Type.IsCritical(), entry.Type.IsPublic(), entry.Type.IsSafeToCopy(), entry.Type.IsValid())
		if err != nil {
			return err
		}
	}

	return nil
}

// PrintPngs loads every path concurrently and returns their summaries in the
// order the paths were given. The first failure cancels the rest.
func PrintPngs(ctx context.Context, options PrintOptions) ([]*PngSummary, error) {
	summaries := make([]*PngSummary, len(options.Paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency(options.Concurrency))

	for i, path := range options.Paths {
		i, path := i, path
		g.Go(func() error {
			s, err := options.Storage.open(gctx, path)
			if err != nil {
				return err
			}

			p, err := LoadPng(gctx, s)
			if err != nil {
				return err
			}

			log.Debug().Str("path", path).Str("png", p.String()).Msg("loaded png")
			summaries[i] = newPngSummary(path, p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func concurrency(n int) int {
	if n <= 0 {
		return DefaultConcurrency
	}
	return n
}
