package pngme

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/beam-cloud/pngme/pkg/common"
	"github.com/beam-cloud/pngme/pkg/png"
	"github.com/beam-cloud/pngme/pkg/storage"
	"github.com/karrick/godirwalk"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type ScanOptions struct {
	Root        string
	ChunkType   string
	Concurrency int
}

// ScanResult is a png that holds at least one chunk of the scanned type.
type ScanResult struct {
	Path  string
	Count int
	// First is the earliest chunk of the scanned type.
	First *png.Chunk
}

// Scan walks a local directory tree and reports every png that contains a
// chunk of the requested type. Files that cannot be parsed are skipped.
func Scan(ctx context.Context, options ScanOptions) ([]ScanResult, error) {
	if common.StorageModeForPath(options.Root) != common.StorageModeLocal {
		return nil, fmt.Errorf("scan supports local directories only, got <%s>", options.Root)
	}

	chunkType, err := png.ChunkTypeFromString(options.ChunkType)
	if err != nil {
		return nil, err
	}

	log.Info().Msgf("scanning %s for %s chunks", options.Root, chunkType)

	paths, err := findPngs(options.Root)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("files", len(paths)).Msg("found png files")

	found := make([]*ScanResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency(options.Concurrency))

	var skippedMu sync.Mutex
	skipped := 0

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			s := storage.NewLocalPngStorage(storage.LocalPngStorageOpts{Path: path})

			p, err := LoadPng(gctx, s)
			if err != nil {
				if png.IsFormatError(err) {
					log.Warn().Err(err).Str("path", path).Msg("skipping malformed png")
					skippedMu.Lock()
					skipped++
					skippedMu.Unlock()
					return nil
				}
				return err
			}

			entry, ok := png.NewInventory(p).Get(chunkType)
			if !ok {
				return nil
			}

			found[i] = &ScanResult{
				Path:  path,
				Count: entry.Count,
				First: p.ChunkByType(options.ChunkType),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := []ScanResult{}
	for _, r := range found {
		if r != nil {
			results = append(results, *r)
		}
	}

	log.Info().Int("matches", len(results)).Int("skipped", skipped).Msg("scan complete")
	return results, nil
}

// findPngs returns the png files below root in lexical order.
func findPngs(root string) ([]string, error) {
	var paths []string

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsRegular() {
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".png") {
				paths = append(paths, path)
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			return godirwalk.SkipNode
		},
		Unsorted: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk <%s>: %w", root, err)
	}

	return paths, nil
}
