// pkg/keyword/outcome.go
package keyword

// Status is the keyword verdict reported to the driver.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Outcome is what a keyword handler produces. Build it with Pass or Fail;
// the zero value encodes as a FAIL with default error text.
type Outcome struct {
	Status    Status
	Return    any
	Output    string
	Error     string
	Traceback string
}

// Pass reports a successful keyword run. ret may be nil.
func Pass(ret any, output string) Outcome {
	return Outcome{Status: StatusPass, Return: ret, Output: output}
}

// Fail reports a keyword whose check did not hold.
func Fail(output, err, traceback string) Outcome {
	return Outcome{Status: StatusFail, Output: output, Error: err, Traceback: traceback}
}

func (o Outcome) Passed() bool { return o.Status == StatusPass }
