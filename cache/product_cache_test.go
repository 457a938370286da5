package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProductCacheTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	cache ProductCache
}

func TestProductCacheSuite(t *testing.T) {
	suite.Run(t, new(ProductCacheTestSuite))
}

func (s *ProductCacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client, err := NewRedisClient(context.Background(), s.mr.Addr(), "", 0)
	require.NoError(s.T(), err)
	s.T().Cleanup(func() { client.Close() })
	s.cache = NewRedisProductCache(client, "test", time.Minute)
}

func (s *ProductCacheTestSuite) TestMissReturnsNil() {
	p, err := s.cache.Get(context.Background(), 42)
	require.NoError(s.T(), err)
	require.Nil(s.T(), p)
}

func (s *ProductCacheTestSuite) TestSetThenGet() {
	ctx := context.Background()
	in := &models.Product{ID: 7, Name: "Linen shirt", Price: decimal.RequireFromString("39.90"), Stock: 4}
	require.NoError(s.T(), s.cache.Set(ctx, in))

	out, err := s.cache.Get(ctx, 7)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), out)
	require.Equal(s.T(), "Linen shirt", out.Name)
	require.True(s.T(), in.Price.Equal(out.Price))
	require.Equal(s.T(), 4, out.Stock)
	require.True(s.T(), s.mr.Exists("test:product:7"))
}

func (s *ProductCacheTestSuite) TestEntriesExpire() {
	ctx := context.Background()
	require.NoError(s.T(), s.cache.Set(ctx, &models.Product{ID: 1, Name: "x"}))

	s.mr.FastForward(2 * time.Minute)

	out, err := s.cache.Get(ctx, 1)
	require.NoError(s.T(), err)
	require.Nil(s.T(), out)
}

func (s *ProductCacheTestSuite) TestInvalidate() {
	ctx := context.Background()
	require.NoError(s.T(), s.cache.Set(ctx, &models.Product{ID: 1, Name: "a"}))
	require.NoError(s.T(), s.cache.Set(ctx, &models.Product{ID: 2, Name: "b"}))

	require.NoError(s.T(), s.cache.Invalidate(ctx, 1, 2))
	require.NoError(s.T(), s.cache.Invalidate(ctx))

	require.False(s.T(), s.mr.Exists("test:product:1"))
	require.False(s.T(), s.mr.Exists("test:product:2"))
}

func TestNewRedisClientFailsFast(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "127.0.0.1:1", "", 0)
	require.Error(t, err)
}

func TestNoop(t *testing.T) {
	c := Noop()
	p, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Nil(t, p)
	require.NoError(t, c.Set(context.Background(), &models.Product{ID: 1}))
	require.NoError(t, c.Invalidate(context.Background(), 1))
}
