package metrics

import (
	"strconv"
	"time"

	"github.com/joeydtaylor/steeze-remote/pkg/keyword"
)

// Keywords records dispatch outcomes. It satisfies core.Observer and
// jsonrpc.FaultRecorder.
type Keywords struct{}

func (Keywords) KeywordCall(name string, status keyword.Status, took time.Duration) {
	keywordCalls.WithLabelValues(name, string(status)).Inc()
	keywordDuration.WithLabelValues(name).Observe(took.Seconds())
}

func (Keywords) Fault(_ string, code int) {
	rpcFaults.WithLabelValues(strconv.Itoa(code)).Inc()
}
