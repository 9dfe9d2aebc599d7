package assistant

import "testing"

func TestAnswerCache(t *testing.T) {
	c := NewAnswerCache()

	if _, ok := c.Get(CacheKey("m", "v1beta", "q")); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set(CacheKey("m", "v1beta", "q"), "answer")
	if got, ok := c.Get(CacheKey("m", "v1beta", "q")); !ok || got != "answer" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	c.Set(CacheKey("m", "v1beta", "q"), "replaced")
	if got, _ := c.Get(CacheKey("m", "v1beta", "q")); got != "replaced" {
		t.Errorf("Set did not replace: %q", got)
	}

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheKeyUsesRawQuery(t *testing.T) {
	c := NewAnswerCache()
	c.Set(CacheKey("m", "v1beta", "Test Query"), "answer")

	// Case and punctuation are significant: the key is the raw query text.
	if _, ok := c.Get(CacheKey("m", "v1beta", "test query")); ok {
		t.Error("differently-cased query must be a distinct entry")
	}
	if _, ok := c.Get(CacheKey("m", "v1", "Test Query")); ok {
		t.Error("different api version must be a distinct entry")
	}
	if _, ok := c.Get(CacheKey("other", "v1beta", "Test Query")); ok {
		t.Error("different model must be a distinct entry")
	}
}
