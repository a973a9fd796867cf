package folio

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// PostCache is an in-memory read cache over a PostStore with a TTL.
// Mutating handlers call Invalidate after a successful write, so list
// views reflect recent writes without any client-side polling.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	fetched time.Time
	ttl     time.Duration
	store   PostStore
}

// NewPostCache creates a PostCache backed by the given store.
func NewPostCache(s PostStore, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached posts after ensuring the cache is
// fresh. It tries a read lock first; only takes a write lock when a
// reload is needed.
func (c *PostCache) ensureLoaded() ([]BlogPost, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPosts(false)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}

// ListPosts returns cached posts, optionally only the featured ones.
func (c *PostCache) ListPosts(featuredOnly bool) ([]BlogPost, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if !featuredOnly {
		return posts, nil
	}
	var featured []BlogPost
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// GetPostBySlug returns a single cached post by slug. The slug is
// matched exactly; callers percent-decode first.
func (c *PostCache) GetPostBySlug(slug string) (BlogPost, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// ListTags returns the sorted unique lowercase tags of cached posts.
func (c *PostCache) ListTags() ([]string, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}
