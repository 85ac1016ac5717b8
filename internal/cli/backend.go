package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage/dynamodb"
	miniostore "github.com/vinicius-lino-figueiredo/docstore/adapter/storage/minio"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage/s3"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage/sqlite"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
	"github.com/vinicius-lino-figueiredo/docstore/internal/config"
)

func nopClose() error { return nil }

// openStorage builds the storage selected by cfg. The returned function
// releases its resources.
func openStorage(ctx context.Context, cfg config.Config) (domain.Storage, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return storage.NewStorage(storage.WithDir(cfg.Dir)), nopClose, nil
	case config.BackendMemory:
		return storage.NewMemory(), nopClose, nil
	case config.BackendSQLite:
		st, err := sqlite.NewStorage(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		return st, st.Close, nil
	case config.BackendS3:
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
				o.UsePathStyle = true
			}
		})
		return s3.NewStorage(client, cfg.Bucket, cfg.Prefix), nopClose, nil
	case config.BackendDynamoDB:
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
		})
		return dynamodb.NewStorage(client, cfg.Table), nopClose, nil
	case config.BackendMinio:
		client, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: !cfg.Insecure,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating minio client: %w", err)
		}
		return miniostore.NewStorage(client, cfg.Bucket, cfg.Prefix), nopClose, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

func loadAWSConfig(ctx context.Context, cfg config.Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	return awsCfg, nil
}

// newLogger builds the logger selected by cfg, writing to w.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
