package ethereum

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fd1az/flashloan-bot/business/blockchain/app"
	"github.com/fd1az/flashloan-bot/internal/apperror"
)

var _ app.Relay = (*Relay)(nil)

// bundleParams is the eth_sendBundle payload.
type bundleParams struct {
	Txs         []string `json:"txs"`
	BlockNumber string   `json:"blockNumber"`
}

// Relay submits transactions to a private JSON-RPC relay.
type Relay struct {
	client *rpc.Client
	url    string
}

// DialRelay connects to the relay endpoint.
func DialRelay(ctx context.Context, url string) (*Relay, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, apperror.New(apperror.CodeEthereumConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("dial relay"))
	}
	return &Relay{client: client, url: url}, nil
}

// SendBundle submits a one-transaction bundle for blockNumber.
func (r *Relay) SendBundle(ctx context.Context, rawTx []byte, blockNumber uint64) error {
	params := bundleParams{
		Txs:         []string{hexutil.Encode(rawTx)},
		BlockNumber: hexutil.EncodeUint64(blockNumber),
	}

	var result any
	if err := r.client.CallContext(ctx, &result, "eth_sendBundle", params); err != nil {
		return apperror.New(apperror.CodeRelayFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("eth_sendBundle for block %d", blockNumber)))
	}
	return nil
}

// SendRawTransaction submits a signed transaction to the relay.
func (r *Relay) SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error) {
	var hash common.Hash
	if err := r.client.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(rawTx)); err != nil {
		return common.Hash{}, apperror.New(apperror.CodeRelayFailed,
			apperror.WithCause(err),
			apperror.WithContext("eth_sendRawTransaction"))
	}
	return hash, nil
}

// Close closes the relay connection.
func (r *Relay) Close() {
	r.client.Close()
}
