// Package s3 builds the S3-compatible object storage client.
package s3

import (
	"github.com/Laisky/errors/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config is the object storage connection information.
type Config struct {
	Endpoint,
	AccessKey,
	SecretKey,
	Region string
	UseSSL bool
}

// New creates a minio client for the configured endpoint. Credential or
// bucket problems surface on the first API call, not here.
func New(cfg Config) (*minio.Client, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "new s3 client for `%s`", cfg.Endpoint)
	}

	return cli, nil
}
