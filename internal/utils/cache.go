package utils

import (
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

// Cache keys shared between handlers that read and services that invalidate.
const (
	CacheKeyTopIdeas   = "ideas:top"
	CacheKeyCategories = "categories:all"
	CacheKeyIdeaPrefix = "ideas:detail:"
)

// CacheItem 包装缓存数据和过期时间
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache 本地 LRU 缓存，带 TTL
type Cache struct {
	lruCache *lru.Cache[string, CacheItem]
}

var (
	cacheInstance *Cache
	cacheOnce     sync.Once
)

func NewCache(size int) *Cache {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		log.WithError(err).Fatal("failed to create LRU cache")
	}
	return &Cache{lruCache: l}
}

// GetCache 获取单例缓存实例
func GetCache() *Cache {
	cacheOnce.Do(func() {
		cacheInstance = NewCache(500)
	})
	return cacheInstance
}

// Set 设置缓存，TTL 为过期时间
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *Cache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

func (c *Cache) Delete(key string) {
	c.lruCache.Remove(key)
}

// DeletePrefix drops every key starting with prefix.
func (c *Cache) DeletePrefix(prefix string) {
	for _, key := range c.lruCache.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lruCache.Remove(key)
		}
	}
}

// InvalidateIdea drops the cached views that embed the idea.
func (c *Cache) InvalidateIdea(ideaID string) {
	c.Delete(CacheKeyIdeaPrefix + ideaID)
	c.Delete(CacheKeyTopIdeas)
}
