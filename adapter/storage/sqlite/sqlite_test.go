package sqlite

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SqliteTestSuite struct {
	suite.Suite
	store *Storage
}

func (s *SqliteTestSuite) SetupTest() {
	var err error
	s.store, err = NewStorage(context.Background(), filepath.Join(s.T().TempDir(), "docstore.db"))
	s.Require().NoError(err)
}

func (s *SqliteTestSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *SqliteTestSuite) TestEmptyPath() {
	_, err := NewStorage(context.Background(), "")
	s.Error(err)
}

func (s *SqliteTestSuite) TestLifecycle() {
	ctx := context.Background()

	exists, err := s.store.Exists(ctx, "users")
	s.NoError(err)
	s.False(exists)

	_, err = s.store.Read(ctx, "users")
	s.ErrorIs(err, os.ErrNotExist)

	names, err := s.store.List(ctx)
	s.NoError(err)
	s.Equal([]string{}, names)

	s.NoError(s.store.Write(ctx, "users", []byte("[]\n")))
	s.NoError(s.store.Write(ctx, "users", []byte(`[{"id": 1}]`)))
	s.NoError(s.store.Write(ctx, "orders", []byte("[]")))

	exists, err = s.store.Exists(ctx, "users")
	s.NoError(err)
	s.True(exists)

	r, err := s.store.Read(ctx, "users")
	s.NoError(err)
	b, err := io.ReadAll(r)
	s.NoError(err)
	s.Equal(`[{"id": 1}]`, string(b))

	names, err = s.store.List(ctx)
	s.NoError(err)
	s.Equal([]string{"orders", "users"}, names)

	s.NoError(s.store.Remove(ctx, "users"))
	s.NoError(s.store.Remove(ctx, "users"))
	names, err = s.store.List(ctx)
	s.NoError(err)
	s.Equal([]string{"orders"}, names)
}

func TestSqliteTestSuite(t *testing.T) {
	suite.Run(t, new(SqliteTestSuite))
}
