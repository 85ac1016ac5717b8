package ctxsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/docstore/pkg/ctxsync"
	"golang.org/x/sync/errgroup"
)

type RegistryTestSuite struct {
	suite.Suite
	r *ctxsync.Registry
}

func (s *RegistryTestSuite) SetupTest() {
	s.r = ctxsync.NewRegistry()
}

// The same name always yields the same mutex.
func (s *RegistryTestSuite) TestSameName() {
	const workers = 100

	got := make([]*ctxsync.Mutex, workers)
	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			got[i] = s.r.Get("users")
			return nil
		})
	}
	s.NoError(g.Wait())

	for _, m := range got {
		s.Same(got[0], m)
	}
}

// Different names never contend.
func (s *RegistryTestSuite) TestDifferentNames() {
	unlock, err := s.r.Lock(context.Background(), "users")
	s.Require().NoError(err)
	defer unlock()

	s.NotSame(s.r.Get("users"), s.r.Get("orders"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockOrders, err := s.r.Lock(ctx, "orders")
	s.Require().NoError(err)
	unlockOrders()

	s.False(s.r.Get("users").TryLock())
}

func (s *RegistryTestSuite) TestLockReleases() {
	unlock, err := s.r.Lock(context.Background(), "users")
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = s.r.Lock(ctx, "users")
	s.ErrorIs(err, context.DeadlineExceeded)

	unlock()
	unlock, err = s.r.Lock(context.Background(), "users")
	s.NoError(err)
	unlock()
}

func (s *RegistryTestSuite) TestDoneContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	unlock, err := s.r.Lock(ctx, "users")
	s.ErrorIs(err, context.Canceled)
	s.Nil(unlock)
	s.True(s.r.Get("users").TryLock())
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}
