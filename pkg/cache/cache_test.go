package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTimed(t *testing.T) {
	c := NewTimed(5 * time.Minute)

	tstart := time.Now()

	c.set("key", []byte("value"), tstart)

	_, ok := c.get("key", tstart.Add(time.Minute))
	if !ok {
		t.Errorf("failed to get key that should not be expired")
	}

	_, ok = c.get("key", tstart.Add(10*time.Minute))
	if ok {
		t.Errorf("succeeded in getting expired key")
	}

	_, ok = c.get("key", tstart.Add(time.Minute))
	if ok {
		t.Errorf("succeeded in getting key that was previously evicted")
	}
}

func TestTimedConcurrent(t *testing.T) {
	c := NewTimed(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("GET /api/v1/lowtides?zip=%d", i)
			c.Set(key, []byte("rows"))
			if _, ok := c.Get(key); !ok {
				t.Errorf("lost %q", key)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() != 16 {
		t.Errorf("got %d elements, want 16", c.Len())
	}
}
