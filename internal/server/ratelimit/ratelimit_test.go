package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/templates", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/templates", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 6.0, info.RetryAfter.Seconds(), 0.001, "one token every 6s")
	assert.True(t, info.ResetTime.After(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})

	for i := 0; i < 60; i++ {
		l.Allow("c", "/x", "GET")
	}
	allowed, _ := l.Allow("c", "/x", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.True(t, allowed, "one token refilled after a second")

	allowed, _ = l.Allow("c", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/resumes", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})

	allowed, _ := l.Allow("10.0.0.2", "/resumes", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false, DefaultLimit: 1})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("c", "/resumes", "GET")
		assert.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointRules(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})

	// Export shares one bucket across resume ids.
	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("c", fmt.Sprintf("/resumes/r%d/export.pdf", i), "GET")
		require.True(t, allowed)
		assert.Equal(t, 10, info.Limit)
	}
	allowed, _ := l.Allow("c", "/resumes/other/export.pdf", "GET")
	assert.False(t, allowed, "burst of 3 exhausted")

	// Other routes are unaffected.
	allowed, info := l.Allow("c", "/resumes/r1", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	// Different clients have separate buckets.
	allowed, _ = l.Allow("d", "/resumes/r1/export.pdf", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Unlimited(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		assert.True(t, allowed)
		allowed, _ = l.Allow("c", "/metrics", "GET")
		assert.True(t, allowed)
	}
	assert.Zero(t, l.size())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := l.Allow("c", "/resumes", "GET"); ok {
					mu.Lock()
					allowedCount++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_Cleanup(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Hour})

	l.Allow("a", "/x", "GET")
	clock.Advance(30 * time.Minute)
	l.Allow("b", "/x", "GET")
	require.Equal(t, 2, l.size())

	clock.Advance(45 * time.Minute)
	l.cleanupBuckets()
	assert.Equal(t, 1, l.size(), "only the idle bucket is dropped")
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("c", "/x", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestMatchEndpoint(t *testing.T) {
	rules := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		want         string
	}{
		{"/auth/login", "POST", "/auth/login"},
		{"/resumes/abc/export.pdf", "GET", "/resumes/*/export.pdf"},
		{"/sessions/abc/export.pdf", "GET", "/sessions/*/export.pdf"},
		{"/resumes/abc", "PUT", "/resumes/"},
		{"/p/jane-doe-1a2b3c4d", "GET", "/p/"},
		{"/health", "GET", "/health"},
		{"/resumes/abc", "GET", ""},
		{"/auth/login", "GET", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, rules)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2,")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

func TestLoadConfig_MalformedValuesUseDefaults(t *testing.T) {
	vars := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":  "lots",
		"RATE_LIMIT_DEFAULT_WINDOW": "soon",
		"RATE_LIMIT_ENABLED":        "maybe",
	}
	cfg := loadConfig(func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Empty(t, cfg.Blacklist)
}
