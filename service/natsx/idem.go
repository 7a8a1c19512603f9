package natsx

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdemStore 幂等存储：SeenOnce 返回 key 是否已出现过
type IdemStore interface {
	SeenOnce(key string, ttl time.Duration) (seen bool, err error)
}

// ----- 内存实现（单进程） -----

type memIdem struct {
	mu  sync.Mutex
	m   map[string]int64 // key -> expireUnix
	ttl time.Duration
}

func NewMemIdem(defaultTTL time.Duration) IdemStore {
	mi := &memIdem{m: make(map[string]int64), ttl: defaultTTL}
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for range t.C {
			now := time.Now().Unix()
			mi.mu.Lock()
			for k, exp := range mi.m {
				if exp <= now {
					delete(mi.m, k)
				}
			}
			mi.mu.Unlock()
		}
	}()
	return mi
}

func (mi *memIdem) SeenOnce(key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = mi.ttl
	}
	exp := time.Now().Add(ttl).Unix()
	mi.mu.Lock()
	defer mi.mu.Unlock()
	if old, ok := mi.m[key]; ok && old > time.Now().Unix() {
		return true, nil
	}
	mi.m[key] = exp
	return false, nil
}

// ----- Redis 实现（多实例共享） -----

type redisIdem struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisIdem(rdb *redis.Client, prefix string) IdemStore {
	if prefix == "" {
		prefix = "fb:idem:"
	}
	return &redisIdem{rdb: rdb, prefix: prefix}
}

func (ri *redisIdem) SeenOnce(key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ok, err := ri.rdb.SetNX(ctx, ri.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil // SetNX 失败说明已存在
}
