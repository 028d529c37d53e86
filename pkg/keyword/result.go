package keyword

// RemoteResult is the response dictionary returned for a dispatched keyword.
type RemoteResult map[string]any

const (
	KeyStatus    = "status"
	KeyReturn    = "return"
	KeyOutput    = "output"
	KeyError     = "error"
	KeyTraceback = "traceback"

	defaultFailError = "Keyword failed."
)

// Encode maps an outcome onto the wire dictionary. It never fails:
// missing fields are filled with defaults and unknown statuses encode as FAIL.
func Encode(o Outcome) RemoteResult {
	if o.Status == StatusPass {
		ret := o.Return
		if ret == nil {
			ret = ""
		}
		return RemoteResult{
			KeyStatus: string(StatusPass),
			KeyReturn: ret,
			KeyOutput: o.Output,
		}
	}

	msg := o.Error
	if msg == "" {
		msg = defaultFailError
	}
	return RemoteResult{
		KeyStatus:    string(StatusFail),
		KeyOutput:    o.Output,
		KeyError:     msg,
		KeyTraceback: o.Traceback,
	}
}

func (r RemoteResult) Status() Status {
	s, _ := r[KeyStatus].(string)
	return Status(s)
}
