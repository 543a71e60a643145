package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/beam-cloud/pngme/pkg/common"
)

// PngStorageInterface is the byte source and sink a png is loaded from and saved to.
type PngStorageInterface interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	// Lock serializes read-modify-write cycles on the same png. The returned
	// function releases the lock.
	Lock(ctx context.Context) (func() error, error)
	Path() string
	Mode() common.StorageMode
}

type PngStorageCredentials struct {
	S3 *S3PngStorageCredentials
}

type PngStorageOpts struct {
	Path string
	// StorageInfo overrides region, endpoint and addressing for s3 paths.
	// Bucket and key always come from Path.
	StorageInfo *common.S3StorageInfo
	Credentials PngStorageCredentials
}

func NewPngStorage(ctx context.Context, opts PngStorageOpts) (PngStorageInterface, error) {
	if opts.Path == "" {
		return nil, errors.New("storage path not provided")
	}

	switch common.StorageModeForPath(opts.Path) {
	case common.StorageModeS3:
		bucket, key, ok := common.ParseS3Path(opts.Path)
		if !ok {
			return nil, fmt.Errorf("invalid s3 path <%s>: expected s3://bucket/key", opts.Path)
		}

		s3Opts := S3PngStorageOpts{Bucket: bucket, Key: key}
		if opts.StorageInfo != nil {
			s3Opts.Region = opts.StorageInfo.Region
			s3Opts.Endpoint = opts.StorageInfo.Endpoint
			s3Opts.ForcePathStyle = opts.StorageInfo.ForcePathStyle
		}
		if opts.Credentials.S3 != nil {
			s3Opts.AccessKey = opts.Credentials.S3.AccessKey
			s3Opts.SecretKey = opts.Credentials.S3.SecretKey
		}

		return NewS3PngStorage(ctx, s3Opts)
	case common.StorageModeLocal:
		return NewLocalPngStorage(LocalPngStorageOpts{Path: opts.Path}), nil
	default:
		return nil, errors.New("unsupported storage type")
	}
}
