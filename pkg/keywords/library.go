// Package keywords holds the demonstration keyword library served by
// steeze-remote.
package keywords

import (
	"fmt"

	"github.com/joeydtaylor/steeze-remote/pkg/keyword"
)

const (
	NameAddone                = "Addone"
	NameStringsShouldBeEqual  = "Strings Should Be Equal"
	NameCountItemsInDirectory = "Count Items In Directory"
	NameIncrementCounter      = "Increment Counter"

	DefaultMaxDirectoryEntries = 100_000
)

type Settings struct {
	CounterStart        int64
	MaxDirectoryEntries int
	Disabled            []string
}

// Library owns the state shared by its keywords across calls.
type Library struct {
	counter    *Counter
	maxEntries int
	disabled   map[string]struct{}
}

func New(s Settings) *Library {
	limit := s.MaxDirectoryEntries
	if limit <= 0 {
		limit = DefaultMaxDirectoryEntries
	}
	disabled := make(map[string]struct{}, len(s.Disabled))
	for _, n := range s.Disabled {
		disabled[n] = struct{}{}
	}
	return &Library{
		counter:    NewCounter(s.CounterStart),
		maxEntries: limit,
		disabled:   disabled,
	}
}

// Names lists every keyword the library can provide, disabled or not.
func Names() []string {
	return []string{NameAddone, NameStringsShouldBeEqual, NameCountItemsInDirectory, NameIncrementCounter}
}

// Register adds the enabled keywords to b in listing order.
func (l *Library) Register(b *keyword.Builder) error {
	entries := []struct {
		name string
		fn   any
	}{
		{NameAddone, Addone},
		{NameStringsShouldBeEqual, StringsShouldBeEqual},
		{NameCountItemsInDirectory, l.countItemsInDirectory},
		{NameIncrementCounter, l.counter.Keyword},
	}
	for _, e := range entries {
		if _, off := l.disabled[e.name]; off {
			continue
		}
		if _, err := b.RegisterFunc(e.name, e.fn); err != nil {
			return fmt.Errorf("keywords: %w", err)
		}
	}
	return nil
}

func (l *Library) Counter() *Counter { return l.counter }
