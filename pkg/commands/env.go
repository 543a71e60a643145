package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/beam-cloud/pngme/pkg/common"
	"github.com/beam-cloud/pngme/pkg/pngme"
)

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// storageOptionsFromEnv reads the s3 settings shared by every command.
func storageOptionsFromEnv() pngme.StorageOptions {
	return pngme.StorageOptions{
		StorageInfo: &common.S3StorageInfo{
			Region:         os.Getenv("AWS_REGION"),
			Endpoint:       os.Getenv("PNGME_S3_ENDPOINT"),
			ForcePathStyle: getEnvBool("PNGME_S3_PATH_STYLE"),
		},
	}
}
