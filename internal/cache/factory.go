package cache

import "fmt"

// New constructs the configured cache backend. A "none" (or empty) backend
// returns nil, which the data layer treats as caching disabled.
func New(cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryCache(cfg.Size, cfg.TTL), nil
	case "redis":
		c, err := NewRedisCache(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("cache: redis: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
