package common

import "strings"

type StorageMode string

const (
	StorageModeLocal StorageMode = "local"
	StorageModeS3    StorageMode = "s3"
)

const s3Scheme = "s3://"

// S3StorageInfo describes where a png lives in an s3 bucket
type S3StorageInfo struct {
	Bucket         string
	Region         string
	Key            string
	Endpoint       string
	ForcePathStyle bool
}

func (ssi S3StorageInfo) Type() string {
	return string(StorageModeS3)
}

func (ssi S3StorageInfo) String() string {
	return s3Scheme + ssi.Bucket + "/" + ssi.Key
}

// StorageModeForPath returns the storage mode implied by a path's scheme.
func StorageModeForPath(path string) StorageMode {
	if strings.HasPrefix(path, s3Scheme) {
		return StorageModeS3
	}
	return StorageModeLocal
}

// ParseS3Path splits an s3://bucket/key path into its bucket and key.
func ParseS3Path(path string) (bucket string, key string, ok bool) {
	rest, found := strings.CutPrefix(path, s3Scheme)
	if !found {
		return "", "", false
	}

	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}

	return bucket, key, true
}
