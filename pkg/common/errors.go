package common

import "errors"

var (
	ErrBadSignature     = errors.New("unexpected png signature")
	ErrTruncated        = errors.New("truncated chunk")
	ErrChecksumMismatch = errors.New("crc32 mismatch")
	ErrInvalidFormat    = errors.New("invalid chunk type")
	ErrInvalidLength    = errors.New("chunk type must be 4 bytes")
	ErrInvalidUtf8      = errors.New("data is not valid utf-8")
	ErrNotFound         = errors.New("chunk not found")
)
