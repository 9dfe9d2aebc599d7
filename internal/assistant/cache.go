package assistant

import "sync"

// AnswerCache memoizes resolved answers for the lifetime of the process.
// Keys are the exact composite of model, API version, and the raw query
// text: queries differing only in case or punctuation are distinct entries.
// There is no eviction; expected query volume is small.
type AnswerCache struct {
	mu      sync.RWMutex
	answers map[string]string
}

// NewAnswerCache creates an empty answer cache.
func NewAnswerCache() *AnswerCache {
	return &AnswerCache{answers: make(map[string]string)}
}

// CacheKey builds the composite cache key from the raw (non-normalized)
// query text.
func CacheKey(model, apiVersion, query string) string {
	return model + "|" + apiVersion + "|" + query
}

// Get returns the cached answer for key, if any.
func (c *AnswerCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	answer, ok := c.answers[key]
	return answer, ok
}

// Set stores an answer under key, replacing any previous value.
func (c *AnswerCache) Set(key, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers[key] = answer
}

// Len returns the number of cached answers.
func (c *AnswerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.answers)
}
