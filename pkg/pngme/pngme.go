package pngme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beam-cloud/pngme/pkg/common"
	"github.com/beam-cloud/pngme/pkg/metrics"
	"github.com/beam-cloud/pngme/pkg/png"
	"github.com/beam-cloud/pngme/pkg/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetLogLevel configures the logging verbosity for pngme.
// Valid levels: "debug", "info", "warn", "error", "disabled"
func SetLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled", "none", "off":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		return fmt.Errorf("invalid log level %q: must be one of: debug, info, warn, error, disabled", level)
	}
	return nil
}

// StorageOptions configure how png paths are resolved. They only matter for
// s3:// paths.
type StorageOptions struct {
	StorageInfo *common.S3StorageInfo
	Credentials storage.PngStorageCredentials
}

func (o StorageOptions) open(ctx context.Context, path string) (storage.PngStorageInterface, error) {
	return storage.NewPngStorage(ctx, storage.PngStorageOpts{
		Path:        path,
		StorageInfo: o.StorageInfo,
		Credentials: o.Credentials,
	})
}

type EncodeOptions struct {
	Path       string
	OutputPath string
	ChunkType  string
	Message    string
	Storage    StorageOptions
}

type DecodeOptions struct {
	Path      string
	ChunkType string
	Storage   StorageOptions
}

type RemoveOptions struct {
	Path      string
	ChunkType string
	Storage   StorageOptions
}

// LoadPng reads the whole png from s and parses it.
func LoadPng(ctx context.Context, s storage.PngStorageInterface) (*png.Png, error) {
	start := time.Now()

	data, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}

	p, err := png.Parse(data)
	if err != nil {
		metrics.RecordParseFailure(s.Path(), int64(len(data)), time.Since(start))
		return nil, fmt.Errorf("failed to parse png <%s>: %w", s.Path(), err)
	}

	metrics.RecordLoad(s.Path(), int64(len(data)), len(p.Chunks()), time.Since(start))
	return p, nil
}

// SavePng serializes p and writes it to s.
func SavePng(ctx context.Context, s storage.PngStorageInterface, p *png.Png) error {
	data := p.Bytes()
	if err := s.Write(ctx, data); err != nil {
		return err
	}

	metrics.RecordWrite(s.Path(), int64(len(data)))
	return nil
}

// EncodeMessage appends a chunk carrying the message and writes the png to
// OutputPath, or back to Path when no output is given.
func EncodeMessage(ctx context.Context, options EncodeOptions) (*png.Chunk, error) {
	chunkType, err := png.ParseChunkType(options.ChunkType)
	if err != nil {
		return nil, err
	}

	outputPath := options.OutputPath
	if outputPath == "" {
		outputPath = options.Path
	}

	log.Info().Msgf("encoding %s chunk into %s", chunkType, outputPath)

	src, err := options.Storage.open(ctx, options.Path)
	if err != nil {
		return nil, err
	}

	dst := src
	if outputPath != options.Path {
		dst, err = options.Storage.open(ctx, outputPath)
		if err != nil {
			return nil, err
		}
	}

	unlock, err := dst.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := LoadPng(ctx, src)
	if err != nil {
		return nil, err
	}

	chunk := png.NewChunk(chunkType, []byte(options.Message))
	p.AppendChunk(chunk)

	log.Debug().Str("chunk", chunk.String()).Msg("appended chunk")

	if err := SavePng(ctx, dst, p); err != nil {
		return nil, err
	}

	log.Info().Msg("message encoded successfully")
	return chunk, nil
}

// DecodeMessage returns the text of the first chunk of the given type.
func DecodeMessage(ctx context.Context, options DecodeOptions) (string, error) {
	log.Info().Msgf("decoding %s chunk from %s", options.ChunkType, options.Path)

	s, err := options.Storage.open(ctx, options.Path)
	if err != nil {
		return "", err
	}

	p, err := LoadPng(ctx, s)
	if err != nil {
		return "", err
	}

	chunk := p.ChunkByType(options.ChunkType)
	if chunk == nil {
		return "", fmt.Errorf("%w: %q in <%s>", common.ErrNotFound, options.ChunkType, s.Path())
	}

	return chunk.DataAsString()
}

// RemoveMessage removes the first chunk of the given type and writes the png
// back. Nothing is written when no chunk matches.
func RemoveMessage(ctx context.Context, options RemoveOptions) (*png.Chunk, error) {
	log.Info().Msgf("removing %s chunk from %s", options.ChunkType, options.Path)

	s, err := options.Storage.open(ctx, options.Path)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := LoadPng(ctx, s)
	if err != nil {
		return nil, err
	}

	chunk, err := p.RemoveChunk(options.ChunkType)
	if err != nil {
		return nil, fmt.Errorf("failed to remove chunk from <%s>: %w", s.Path(), err)
	}

	if err := SavePng(ctx, s, p); err != nil {
		return nil, err
	}

	log.Info().Msg("chunk removed successfully")
	return chunk, nil
}

// IsNotFound reports whether err means the requested chunk type is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
