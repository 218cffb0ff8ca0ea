package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	// IdentityCache remembers recently verified tokens so the hot path
	// skips signature verification. Entries expire on their own, well
	// before any token could, so a token near the end of its life is
	// re-verified at most ten minutes late.
	IdentityCache struct {
		cache *bigcache.BigCache
	}
)

func NewIdentityCache() *IdentityCache {
	cache, _ := bigcache.New(context.Background(), bigcache.DefaultConfig(10*time.Minute))
	return &IdentityCache{cache: cache}
}

func (c *IdentityCache) Put(token string, id Identity) {
	c.cache.Set(token, []byte(strconv.FormatInt(id.UserID, 10)+"\n"+id.Username))
}

func (c *IdentityCache) Get(token string) (Identity, bool) {
	buf, err := c.cache.Get(token)
	if err != nil {
		return Identity{}, false
	}
	userID, username, found := strings.Cut(string(buf), "\n")
	if !found {
		return Identity{}, false
	}
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: id, Username: username}, true
}
