// Package cache implementa auth.PrincipalCache sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Albaranes-api/internal/application/auth"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
	"github.com/jhoicas/Albaranes-api/pkg/config"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

var _ auth.PrincipalCache = (*RedisPrincipalCache)(nil)

const (
	keyPrefix  = "albaranes:principal:"
	defaultTTL = 5 * time.Minute
)

// RedisPrincipalCache guarda el principal resuelto de cada usuario con TTL.
// Los fallos de Redis se registran y se tratan como fallo de caché.
type RedisPrincipalCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisPrincipalCache conecta con Redis y comprueba la conexión.
func NewRedisPrincipalCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisPrincipalCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewRedisPrincipalCacheWithClient(client, cfg.TTL, log), nil
}

// NewRedisPrincipalCacheWithClient construye la caché sobre un cliente existente.
func NewRedisPrincipalCacheWithClient(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisPrincipalCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisPrincipalCache{client: client, ttl: ttl, log: log}
}

type cachedCompany struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CIF  string `json:"cif"`
}

type cachedPrincipal struct {
	UserID   string         `json:"user_id"`
	Email    string         `json:"email"`
	Role     string         `json:"role"`
	Verified bool           `json:"verified"`
	Company  *cachedCompany `json:"company,omitempty"`
}

// Get devuelve el principal cacheado, si existe.
func (c *RedisPrincipalCache) Get(ctx context.Context, userID string) (*scope.Principal, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("user_id", userID).Msg("redis: leer principal")
		}
		return nil, false
	}
	p, err := decodePrincipal(raw)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("redis: principal corrupto")
		return nil, false
	}
	return p, true
}

// Set guarda el principal con el TTL configurado.
func (c *RedisPrincipalCache) Set(ctx context.Context, p scope.Principal) {
	raw, err := encodePrincipal(p)
	if err != nil {
		c.log.Warn().Err(err).Msg("redis: serializar principal")
		return
	}
	if err := c.client.Set(ctx, keyPrefix+p.UserID, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", p.UserID).Msg("redis: guardar principal")
	}
}

// Invalidate borra los principales de los usuarios indicados.
func (c *RedisPrincipalCache) Invalidate(ctx context.Context, userIDs ...string) {
	if len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, keyPrefix+id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("user_ids", userIDs).Msg("redis: invalidar principal")
	}
}

// Close cierra el cliente.
func (c *RedisPrincipalCache) Close() error {
	return c.client.Close()
}

func encodePrincipal(p scope.Principal) ([]byte, error) {
	cp := cachedPrincipal{UserID: p.UserID, Email: p.Email, Role: p.Role, Verified: p.Verified}
	if p.Company != nil {
		cp.Company = &cachedCompany{ID: p.Company.ID, Name: p.Company.Name, CIF: p.Company.CIF}
	}
	return json.Marshal(cp)
}

func decodePrincipal(raw []byte) (*scope.Principal, error) {
	var cp cachedPrincipal
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	p := &scope.Principal{UserID: cp.UserID, Email: cp.Email, Role: cp.Role, Verified: cp.Verified}
	if cp.Company != nil {
		p.Company = &scope.CompanyRef{ID: cp.Company.ID, Name: cp.Company.Name, CIF: cp.Company.CIF}
	}
	return p, nil
}
