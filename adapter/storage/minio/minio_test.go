package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/suite"
)

// MinioTestSuite requires a running MinIO instance and skips otherwise.
type MinioTestSuite struct {
	suite.Suite
	client *minio.Client
	store  *Storage
}

func (s *MinioTestSuite) SetupSuite() {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		s.T().Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		s.T().Skipf("MinIO not available: %v", err)
	}

	bucket := "test-docstore"
	exists, err := client.BucketExists(ctx, bucket)
	s.Require().NoError(err)
	if !exists {
		s.Require().NoError(client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}
	s.client = client
	s.store = NewStorage(client, bucket, "test-prefix/")
}

func (s *MinioTestSuite) TestLifecycle() {
	ctx := context.Background()
	s.NoError(s.store.Remove(ctx, "users"))

	exists, err := s.store.Exists(ctx, "users")
	s.NoError(err)
	s.False(exists)

	_, err = s.store.Read(ctx, "users")
	s.ErrorIs(err, os.ErrNotExist)

	s.NoError(s.store.Write(ctx, "users", []byte(`[{"id": 1}]`)))

	r, err := s.store.Read(ctx, "users")
	s.Require().NoError(err)
	b, err := io.ReadAll(r)
	s.NoError(err)
	s.NoError(r.Close())
	s.Equal(`[{"id": 1}]`, string(b))

	names, err := s.store.List(ctx)
	s.NoError(err)
	s.Contains(names, "users")

	s.NoError(s.store.Remove(ctx, "users"))
}

func TestMinioTestSuite(t *testing.T) {
	suite.Run(t, new(MinioTestSuite))
}
