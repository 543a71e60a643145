package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/beam-cloud/pngme/pkg/common"
	"github.com/rs/zerolog/log"
)

type S3PngStorageCredentials struct {
	AccessKey string
	SecretKey string
}

// s3API is the subset of the s3 client the transfer managers need.
type s3API interface {
	manager.DownloadAPIClient
	manager.UploadAPIClient
}

type S3PngStorage struct {
	svc    s3API
	bucket string
	key    string
}

type S3PngStorageOpts struct {
	Bucket         string
	Key            string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

func NewS3PngStorage(ctx context.Context, opts S3PngStorageOpts) (*S3PngStorage, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if opts.AccessKey != "" && opts.SecretKey != "" {
		accessKey = opts.AccessKey
		secretKey = opts.SecretKey
	}

	cfg, err := getAWSConfig(ctx, accessKey, secretKey, opts.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.ForcePathStyle {
			o.UsePathStyle = true
		}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return newS3PngStorage(svc, opts.Bucket, opts.Key), nil
}

func newS3PngStorage(svc s3API, bucket, key string) *S3PngStorage {
	return &S3PngStorage{
		svc:    svc,
		bucket: bucket,
		key:    key,
	}
}

func getAWSConfig(ctx context.Context, accessKey string, secretKey string, region string) (aws.Config, error) {
	if accessKey == "" || secretKey == "" {
		return config.LoadDefaultConfig(ctx, config.WithRegion(region))
	}

	creds := credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	return config.LoadDefaultConfig(ctx, config.WithRegion(region), config.WithCredentialsProvider(creds))
}

func (s3c *S3PngStorage) Read(ctx context.Context) ([]byte, error) {
	downloader := manager.NewDownloader(s3c.svc)

	buf := manager.NewWriteAtBuffer([]byte{})
	n, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s3c.bucket),
		Key:    aws.String(s3c.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download png <%s>: %w", s3c.Path(), err)
	}

	log.Debug().Str("path", s3c.Path()).Int64("bytes", n).Msg("downloaded png")
	return buf.Bytes()[:n], nil
}

func (s3c *S3PngStorage) Write(ctx context.Context, data []byte) error {
	uploader := manager.NewUploader(s3c.svc)

	length := int64(len(data))
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s3c.bucket),
		Key:           aws.String(s3c.key),
		Body:          bytes.NewReader(data),
		ContentLength: &length,
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload png <%s>: %w", s3c.Path(), err)
	}

	log.Debug().Str("path", s3c.Path()).Int64("bytes", length).Msg("uploaded png")
	return nil
}

// Lock is a no-op: s3 offers no advisory locking, so concurrent writers to
// the same key resolve as last-write-wins.
func (s3c *S3PngStorage) Lock(ctx context.Context) (func() error, error) {
	return func() error { return nil }, nil
}

func (s3c *S3PngStorage) Path() string {
	return common.S3StorageInfo{Bucket: s3c.bucket, Key: s3c.key}.String()
}

func (s3c *S3PngStorage) Mode() common.StorageMode {
	return common.StorageModeS3
}
