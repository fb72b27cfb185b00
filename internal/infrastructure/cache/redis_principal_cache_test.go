package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

func TestPrincipalCodec_ConCompania(t *testing.T) {
	p := scope.Principal{
		UserID: "u1", Email: "ana@example.com", Role: "admin", Verified: true,
		Company: &scope.CompanyRef{ID: "c1", Name: "Reformas SL", CIF: "B1"},
	}
	raw, err := encodePrincipal(p)
	require.NoError(t, err)

	got, err := decodePrincipal(raw)
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestPrincipalCodec_SinCompania(t *testing.T) {
	raw, err := encodePrincipal(scope.Principal{UserID: "u1"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "company")

	got, err := decodePrincipal(raw)
	require.NoError(t, err)
	assert.Nil(t, got.Company)
	assert.False(t, got.HasCompany())
}

func TestRedisPrincipalCache_RedisCaidoEsFalloDeCache(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	c := NewRedisPrincipalCacheWithClient(client, 0, logger.Nop())
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, scope.Principal{UserID: "u1"})
	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
	c.Invalidate(ctx, "u1")
	assert.Equal(t, defaultTTL, c.ttl)
}
