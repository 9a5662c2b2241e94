// Package testutil holds helpers shared by service and handler tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

const TestSecret = "test-secret-key"

// JWTService returns a token service signing with TestSecret.
func JWTService() jwt.Service {
	return jwt.NewJWTService(TestSecret, "1h", "168h")
}

// AccessToken issues a signed access token for the given identity.
func AccessToken(t *testing.T, userID, companyID, role string) string {
	t.Helper()
	token, _, err := JWTService().GenerateAccessToken(userID, userID+"@example.com", companyID, role)
	require.NoError(t, err)
	return token
}

// AuthContext returns a context carrying verified claims, as the auth middleware would.
func AuthContext(t *testing.T, userID, companyID, role string) context.Context {
	t.Helper()
	svc := JWTService()
	ctx, err := jwt.ContextWithToken(context.Background(), svc.JWTAuth(), AccessToken(t, userID, companyID, role))
	require.NoError(t, err)
	return ctx
}

// Transactor runs fn inline and counts calls.
type Transactor struct {
	mu    sync.Mutex
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return fn(ctx)
}

// MemoryCache is an in-process cache.Cache that ignores TTLs.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]any
	Sets  int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]any)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return false, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.Sets++
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}
