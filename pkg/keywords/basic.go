package keywords

import (
	"fmt"
	"math"

	"github.com/joeydtaylor/steeze-remote/pkg/keyword"
)

func Addone(n int) keyword.Outcome {
	out := fmt.Sprintf("Adding one to %d", n)
	if n == math.MaxInt {
		return keyword.Fail(out, fmt.Sprintf("%d cannot be incremented without overflow.", n), "")
	}
	return keyword.Pass(n+1, out)
}

func StringsShouldBeEqual(first, second string) keyword.Outcome {
	out := fmt.Sprintf("Comparing '%s' to '%s'.", first, second)
	if first == second {
		return keyword.Pass(nil, out)
	}
	tb := fmt.Sprintf("%s\n  first:  %q\n  second: %q", NameStringsShouldBeEqual, first, second)
	return keyword.Fail(out, "Given strings are not equal.", tb)
}
