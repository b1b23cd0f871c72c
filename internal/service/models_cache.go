package service

import (
	"sync"
	"time"

	"github.com/paperchat/paperchat/internal/domain"
)

type ModelsCache struct {
	mu        sync.RWMutex
	models    []domain.AIModel
	defaultID string
	cachedAt  time.Time
	ttl       time.Duration
}

func NewModelsCache(ttl time.Duration) *ModelsCache {
	return &ModelsCache{ttl: ttl}
}

func (c *ModelsCache) Get() []domain.AIModel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.models == nil || time.Since(c.cachedAt) > c.ttl {
		return nil
	}
	return c.models
}

func (c *ModelsCache) Default() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultID
}

func (c *ModelsCache) Set(models []domain.AIModel, defaultID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = models
	c.defaultID = defaultID
	c.cachedAt = time.Now()
}
