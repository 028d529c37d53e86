package keywords

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/steeze-remote/pkg/keyword"
)

const readDirBatch = 256

// countItemsInDirectory counts the entries of dir, optionally only those
// whose base name matches one of the glob patterns.
func (l *Library) countItemsInDirectory(dir string, patterns ...string) keyword.Outcome {
	desc := dir
	if len(patterns) > 0 {
		desc = fmt.Sprintf("%s matching %s", dir, strings.Join(patterns, ", "))
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return keyword.Fail("", fmt.Sprintf("Invalid pattern '%s'.", p), err.Error())
		}
	}

	n, err := l.count(dir, patterns)
	if err != nil {
		return keyword.Fail("", fmt.Sprintf("Cannot count items in '%s': %v", desc, err), fmt.Sprintf("%+v", err))
	}
	return keyword.Pass(n, fmt.Sprintf("Directory '%s' contains %d items.", desc, n))
}

var errTooManyEntries = errors.New("entry limit exceeded")

func (l *Library) count(dir string, patterns []string) (int, error) {
	f, err := os.Open(dir)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, seen := 0, 0
	for {
		entries, err := f.ReadDir(readDirBatch)
		for _, e := range entries {
			seen++
			if seen > l.maxEntries {
				return 0, fmt.Errorf("%w (%d)", errTooManyEntries, l.maxEntries)
			}
			if matchesAny(e.Name(), patterns) {
				n++
			}
		}
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
