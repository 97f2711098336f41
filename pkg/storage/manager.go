package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/bazaar/config"
)

// FromConfig builds the disk selected by STORAGE_DISK ("local" or "s3").
func FromConfig(ctx context.Context) (Disk, error) {
	switch disk := config.StorageDefault(); disk {
	case "local":
		return NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", disk)
	}
}
