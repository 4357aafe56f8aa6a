package app

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/flashloan-bot/business/blockchain/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

// ExecutorConfig holds signer and routing settings.
type ExecutorConfig struct {
	PrivateKey string // hex, with or without 0x
	Contract   common.Address
	ChainID    *big.Int
	UseBundle  bool
}

// Executor builds, signs and submits initiateFlashloan transactions. It
// never waits for inclusion.
type Executor struct {
	chain  Chain
	gas    GasOracle
	relay  Relay      // nil when no relay is configured
	lock   SignerLock // nil when single-process
	logger logger.LoggerInterface
	tracer trace.Tracer

	key       *ecdsa.PrivateKey
	from      common.Address
	contract  common.Address
	signer    types.Signer
	useBundle bool

	// one in-flight submission per process
	mu sync.Mutex
}

// NewExecutor creates an executor. relay and lock may be nil.
func NewExecutor(cfg ExecutorConfig, chain Chain, gas GasOracle, relay Relay, lock SignerLock, log logger.LoggerInterface) (*Executor, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, apperror.Config("invalid signer private key")
	}
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, apperror.Config("chain id is required for signing")
	}

	return &Executor{
		chain:     chain,
		gas:       gas,
		relay:     relay,
		lock:      lock,
		logger:    log,
		tracer:    otel.Tracer("executor"),
		key:       key,
		from:      crypto.PubkeyToAddress(key.PublicKey),
		contract:  cfg.Contract,
		signer:    types.LatestSignerForChainID(cfg.ChainID),
		useBundle: cfg.UseBundle,
	}, nil
}

// From returns the signer address.
func (e *Executor) From() common.Address {
	return e.from
}

// Execute simulates the call, prices it, signs it and submits it through the
// relay when one is configured, falling back to the public node.
func (e *Executor) Execute(ctx context.Context, call domain.FlashloanCall) (*domain.Submission, error) {
	ctx, span := e.tracer.Start(ctx, "executor.execute",
		trace.WithAttributes(
			attribute.String("asset", call.Asset.Hex()),
			attribute.String("amount", call.Amount.String()),
			attribute.Int("dex", int(call.Dex)),
		),
	)
	defer span.End()

	sub, err := e.execute(ctx, call)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "execution failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("tx_hash", sub.TxHash.Hex()),
		attribute.String("route", string(sub.Route)),
	)
	span.SetStatus(codes.Ok, "submitted")
	return sub, nil
}

func (e *Executor) execute(ctx context.Context, call domain.FlashloanCall) (*domain.Submission, error) {
	data, err := call.Pack()
	if err != nil {
		return nil, apperror.Execution(apperror.CodeExecutionError, "encode initiateFlashloan", err)
	}

	msg := ethereum.CallMsg{From: e.from, To: &e.contract, Data: data}

	if _, err := e.chain.CallContract(ctx, msg, nil); err != nil {
		return nil, apperror.Execution(apperror.CodeSimulationReverted, "initiateFlashloan simulation", err)
	}

	gasLimit, err := e.gas.EstimateGas(ctx, msg)
	if err != nil {
		return nil, err
	}
	price, err := e.gas.LiveGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lock != nil {
		release, err := e.lock.Acquire(ctx, e.from)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	nonce, err := e.chain.PendingNonceAt(ctx, e.from)
	if err != nil {
		return nil, apperror.New(apperror.CodeEthereumRPCError,
			apperror.WithCause(err),
			apperror.WithContext("pending nonce"))
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &e.contract,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: price.Wei,
		Data:     data,
	})
	signed, err := types.SignTx(tx, e.signer, e.key)
	if err != nil {
		return nil, apperror.Execution(apperror.CodeSigningFailed, "sign initiateFlashloan", err)
	}

	sub := &domain.Submission{
		TxHash:   signed.Hash(),
		Nonce:    nonce,
		GasLimit: gasLimit,
		GasPrice: price.Wei,
	}

	if e.relay != nil {
		relayErr := e.sendPrivate(ctx, signed, sub)
		if relayErr == nil {
			e.logSubmitted(ctx, sub)
			return sub, nil
		}
		sub.RelayError = relayErr.Error()
		e.logger.Warn(ctx, "relay submission failed, falling back to public node",
			"tx_hash", sub.TxHash.Hex(),
			"error", relayErr,
		)
	}

	if err := e.chain.SendTransaction(ctx, signed); err != nil {
		return nil, apperror.Execution(apperror.CodeSubmissionFailed,
			fmt.Sprintf("public broadcast of %s", sub.TxHash.Hex()), err)
	}
	sub.Route = domain.RoutePublic
	e.logSubmitted(ctx, sub)
	return sub, nil
}

func (e *Executor) sendPrivate(ctx context.Context, tx *types.Transaction, sub *domain.Submission) error {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return err
	}

	if e.useBundle {
		head, err := e.chain.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("block number for bundle: %w", err)
		}
		if err := e.relay.SendBundle(ctx, raw, head+1); err != nil {
			return err
		}
		sub.Route = domain.RouteBundle
		sub.TargetBlock = head + 1
		return nil
	}

	if _, err := e.relay.SendRawTransaction(ctx, raw); err != nil {
		return err
	}
	sub.Route = domain.RouteRelay
	return nil
}

func (e *Executor) logSubmitted(ctx context.Context, sub *domain.Submission) {
	e.logger.Info(ctx, "flashloan submitted",
		"tx_hash", sub.TxHash.Hex(),
		"route", sub.Route,
		"nonce", sub.Nonce,
		"gas_limit", sub.GasLimit,
		"gas_price_wei", sub.GasPrice.String(),
	)
}
