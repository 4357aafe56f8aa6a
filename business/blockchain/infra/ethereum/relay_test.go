package ethereum

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/flashloan-bot/internal/apperror"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// relayServer answers every JSON-RPC call with result, or an error when fail
// is set, and records the requests it saw.
func relayServer(t *testing.T, result string, fail bool) (*httptest.Server, *[]rpcRequest) {
	t.Helper()
	var seen []rpcRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req rpcRequest
		require.NoError(t, json.Unmarshal(body, &req))
		seen = append(seen, req)

		w.Header().Set("Content-Type", "application/json")
		if fail {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"error":{"code":-32000,"message":"bundle rejected"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestSendBundlePayload(t *testing.T) {
	srv, seen := relayServer(t, `{"bundleHash":"0x01"}`, false)
	relay, err := DialRelay(context.Background(), srv.URL)
	require.NoError(t, err)
	defer relay.Close()

	require.NoError(t, relay.SendBundle(context.Background(), []byte{0xde, 0xad}, 1001))

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "eth_sendBundle", req.Method)

	var params bundleParams
	require.NoError(t, json.Unmarshal(req.Params[0], &params))
	assert.Equal(t, []string{"0xdead"}, params.Txs)
	assert.Equal(t, "0x3e9", params.BlockNumber)
}

func TestSendRawTransaction(t *testing.T) {
	hash := `"0xab` + strings.Repeat("0", 62) + `"`
	srv, seen := relayServer(t, hash, false)
	relay, err := DialRelay(context.Background(), srv.URL)
	require.NoError(t, err)
	defer relay.Close()

	got, err := relay.SendRawTransaction(context.Background(), []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), got[0])
	assert.Equal(t, "eth_sendRawTransaction", (*seen)[0].Method)
}

func TestRelayErrorsAreExecutionErrors(t *testing.T) {
	srv, _ := relayServer(t, "", true)
	relay, err := DialRelay(context.Background(), srv.URL)
	require.NoError(t, err)
	defer relay.Close()

	err = relay.SendBundle(context.Background(), []byte{0x01}, 1)
	assert.Equal(t, apperror.CodeRelayFailed, apperror.GetCode(err))
	assert.True(t, apperror.IsKind(err, apperror.KindExecution))
}
