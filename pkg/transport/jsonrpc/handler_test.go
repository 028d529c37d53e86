package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedErr struct{ code int }

func (e codedErr) Error() string      { return "coded" }
func (e codedErr) RPCCode() int       { return e.code }
func (e codedErr) RPCMessage() string { return "coded failure" }

type stubDispatcher struct {
	method string
	params []any
	result any
	err    error
	calls  int
}

func (s *stubDispatcher) Dispatch(_ context.Context, method string, params []any) (any, error) {
	s.calls++
	s.method, s.params = method, params
	return s.result, s.err
}

type faultLog struct{ codes []int }

func (f *faultLog) Fault(_ string, code int) { f.codes = append(f.codes, code) }

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/RPC2", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type wireResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) wireResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp wireResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, Version, resp.JSONRPC)
	return resp
}

func TestDispatchesPositionalParams(t *testing.T) {
	d := &stubDispatcher{result: map[string]any{"status": "PASS", "return": 89}}
	h := NewHandler(d, nil, nil)

	resp := decode(t, post(t, h, `{"jsonrpc":"2.0","id":7,"method":"run_keyword","params":["Addone",[88]]}`))

	assert.Equal(t, "run_keyword", d.method)
	assert.Equal(t, []any{"Addone", []any{json.Number("88")}}, d.params)
	assert.JSONEq(t, `7`, string(resp.ID))
	assert.JSONEq(t, `{"status":"PASS","return":89}`, string(resp.Result))
	assert.Nil(t, resp.Error)
}

func TestMissingParamsIsEmpty(t *testing.T) {
	d := &stubDispatcher{result: []string{"Addone"}}
	h := NewHandler(d, nil, nil)

	resp := decode(t, post(t, h, `{"jsonrpc":"2.0","id":"a","method":"get_keyword_names"}`))
	assert.Nil(t, d.params)
	assert.JSONEq(t, `["Addone"]`, string(resp.Result))
}

func TestCoderErrorsKeepTheirCode(t *testing.T) {
	d := &stubDispatcher{err: codedErr{code: -32001}}
	h := NewHandler(d, nil, nil)

	resp := decode(t, post(t, h, `{"jsonrpc":"2.0","id":1,"method":"run_keyword","params":["Nope",[]]}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32001, resp.Error.Code)
	assert.Equal(t, "coded failure", resp.Error.Message)
	assert.Empty(t, resp.Result)
}

func TestPlainErrorsAreInternal(t *testing.T) {
	d := &stubDispatcher{err: errors.New("boom")}
	h := NewHandler(d, nil, nil)

	resp := decode(t, post(t, h, `{"jsonrpc":"2.0","id":1,"method":"x"}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
}

func TestRejectedRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"garbage", `{not json`, CodeParseError},
		{"batch", `[{"jsonrpc":"2.0","id":1,"method":"x"}]`, CodeInvalidRequest},
		{"trailing", `{"jsonrpc":"2.0","id":1,"method":"x"} {}`, CodeInvalidRequest},
		{"version", `{"jsonrpc":"1.0","id":1,"method":"x"}`, CodeInvalidRequest},
		{"noMethod", `{"jsonrpc":"2.0","id":1}`, CodeInvalidRequest},
		{"namedParams", `{"jsonrpc":"2.0","id":1,"method":"x","params":{"a":1}}`, CodeInvalidParams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &stubDispatcher{}
			faults := &faultLog{}
			h := NewHandler(d, nil, faults)

			resp := decode(t, post(t, h, tc.body))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.Equal(t, []int{tc.code}, faults.codes)
			assert.Zero(t, d.calls)
		})
	}
}

func TestParseErrorHasNullID(t *testing.T) {
	h := NewHandler(&stubDispatcher{}, nil, nil)
	resp := decode(t, post(t, h, `{`))
	assert.Equal(t, "null", string(resp.ID))
}

func TestNotificationGetsNoBody(t *testing.T) {
	d := &stubDispatcher{result: []string{}}
	h := NewHandler(d, nil, nil)

	rec := post(t, h, `{"jsonrpc":"2.0","method":"get_keyword_names"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, 1, d.calls)
}

func TestBodyTooLarge(t *testing.T) {
	h := NewHandler(&stubDispatcher{}, nil, nil)
	big := `{"jsonrpc":"2.0","id":1,"method":"x","params":["` + strings.Repeat("a", int(MaxBodyBytes)) + `"]}`

	rec := post(t, h, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestOnlyPost(t *testing.T) {
	h := NewHandler(&stubDispatcher{}, nil, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/RPC2", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}
