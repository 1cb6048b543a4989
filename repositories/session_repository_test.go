package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type SessionRepositorySuite struct {
	suite.Suite
	mini *miniredis.Miniredis
	repo SessionRepository
	ctx  context.Context
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}

func (s *SessionRepositorySuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })

	s.repo = NewRedisSessionRepository(client)
	s.ctx = context.Background()
}

func (s *SessionRepositorySuite) TestSaveAndLookup() {
	s.Require().NoError(s.repo.Save(s.ctx, "jti-1", 42, time.Hour))

	userID, err := s.repo.Lookup(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.Equal(42, userID)
	s.Equal(time.Hour, s.mini.TTL("session:jti-1"))
}

func (s *SessionRepositorySuite) TestLookupUnknown() {
	_, err := s.repo.Lookup(s.ctx, "missing")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *SessionRepositorySuite) TestExpiredSessionIsGone() {
	s.Require().NoError(s.repo.Save(s.ctx, "jti-2", 7, time.Minute))
	s.mini.FastForward(2 * time.Minute)

	_, err := s.repo.Lookup(s.ctx, "jti-2")
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *SessionRepositorySuite) TestRevoke() {
	s.Require().NoError(s.repo.Save(s.ctx, "jti-3", 7, time.Hour))
	s.Require().NoError(s.repo.Revoke(s.ctx, "jti-3"))

	_, err := s.repo.Lookup(s.ctx, "jti-3")
	s.ErrorIs(err, ErrSessionNotFound)

	s.ErrorIs(s.repo.Revoke(s.ctx, "jti-3"), ErrSessionNotFound)
}

func (s *SessionRepositorySuite) TestCorruptedValue() {
	s.Require().NoError(s.mini.Set("session:bad", "not-a-number"))

	_, err := s.repo.Lookup(s.ctx, "bad")
	s.Error(err)
	s.NotErrorIs(err, ErrSessionNotFound)
}
