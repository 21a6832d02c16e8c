//go:build integration

package records

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dealaudit/internal/listing"
	"dealaudit/pkg/testutil/containers"
)

type countingSource struct {
	mu      sync.Mutex
	records map[string]*listing.CorroboratingRecord
	err     error
	calls   int
}

func (c *countingSource) Lookup(_ context.Context, address string) (*listing.CorroboratingRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	rec, ok := c.records[address]
	if !ok {
		return nil, ErrNoRecord
	}
	return rec, nil
}

func (c *countingSource) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type RedisCacheSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	source *countingSource
	cache  *RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.source = &countingSource{records: map[string]*listing.CorroboratingRecord{}}
	s.cache = NewRedisCache(s.redis.Client, s.source, time.Hour)
}

func (s *RedisCacheSuite) TestSecondLookupServedFromCache() {
	ctx := context.Background()
	addr := "412 S Quebec Ave, Tulsa, OK"
	sqft := 1410
	s.source.records[addr] = &listing.CorroboratingRecord{Address: addr, Sqft: &sqft}

	first, err := s.cache.Lookup(ctx, addr)
	s.Require().NoError(err)
	s.Equal(1, s.source.callCount())

	second, err := s.cache.Lookup(ctx, addr)
	s.Require().NoError(err)
	s.Equal(1, s.source.callCount(), "second lookup must not reach the source")
	s.Equal(first, second)
}

func (s *RedisCacheSuite) TestKeyNormalizationCollapsesAddressVariants() {
	ctx := context.Background()
	addr := "412 S Quebec Ave, Tulsa, OK"
	s.source.records[addr] = &listing.CorroboratingRecord{Address: addr}

	_, err := s.cache.Lookup(ctx, addr)
	s.Require().NoError(err)

	_, err = s.cache.Lookup(ctx, "412  s quebec AVE,   Tulsa, OK")
	s.Require().NoError(err)
	s.Equal(1, s.source.callCount(), "case and whitespace variants must share a cache entry")
}

func (s *RedisCacheSuite) TestNoRecordIsNotCached() {
	ctx := context.Background()
	addr := "1 Nowhere Ln"

	_, err := s.cache.Lookup(ctx, addr)
	s.ErrorIs(err, ErrNoRecord)

	_, err = s.cache.Lookup(ctx, addr)
	s.ErrorIs(err, ErrNoRecord)
	s.Equal(2, s.source.callCount(), "negative results pass through every time")
}

func (s *RedisCacheSuite) TestSourceErrorPropagates() {
	s.source.err = errors.New("upstream down")

	_, err := s.cache.Lookup(context.Background(), "412 S Quebec Ave")
	s.Error(err)
	s.NotErrorIs(err, ErrNoRecord)
}
