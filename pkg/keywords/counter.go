package keywords

import (
	"fmt"
	"sync"

	"github.com/joeydtaylor/steeze-remote/pkg/keyword"
)

// Counter hands out successive integers; each value is observed by exactly
// one caller.
type Counter struct {
	mu   sync.Mutex
	next int64
}

func NewCounter(start int64) *Counter { return &Counter{next: start} }

func (c *Counter) Next() int64 {
	c.mu.Lock()
	v := c.next
	c.next++
	c.mu.Unlock()
	return v
}

// Keyword is the handler for the Increment Counter keyword.
func (c *Counter) Keyword() keyword.Outcome {
	v := c.Next()
	return keyword.Pass(v, fmt.Sprintf("Counter value is %d", v))
}
