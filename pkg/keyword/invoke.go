package keyword

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

// Invoke runs h with already marshalled args. A panicking handler is
// reported as a FAIL outcome carrying the stack in its traceback.
func Invoke(h Handler, args []reflect.Value) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = Fail("", fmt.Sprintf("Keyword raised an unexpected error: %v", r), string(debug.Stack()))
		}
	}()
	return h.Call(args)
}
