// Package ethrpc реализует шлюз реестра поверх JSON-RPC узла, совместимого с Ethereum.
package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"anchornote/internal/anchornote/config"
	"anchornote/internal/anchornote/ports/ledger"
	"anchornote/internal/anchornote/resilience"
)

// Константы для сообщений об ошибках.
const (
	MsgDialFailed        = "failed to dial ledger node"
	MsgAccountsFailed    = "failed to list signing accounts"
	MsgNonceFailed       = "failed to fetch account nonce"
	MsgSubmitFailed      = "failed to submit transaction"
	MsgReceiptFailed     = "failed to fetch transaction receipt"
	MsgTransactionFailed = "failed to fetch transaction"
)

// Вес одного gwei в wei.
const weiPerGwei = 1_000_000_000

// Статус успешно выполненной транзакции в квитанции.
const receiptStatusOK = 1

// txArgs - аргументы eth_sendTransaction.
type txArgs struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Value    *hexutil.Big   `json:"value"`
	Input    hexutil.Bytes  `json:"input"`
	Gas      hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big   `json:"gasPrice"`
	Nonce    hexutil.Uint64 `json:"nonce"`
	ChainID  hexutil.Uint64 `json:"chainId"`
}

// rpcTransaction - транзакция, возвращаемая eth_getTransactionByHash.
type rpcTransaction struct {
	Hash  string        `json:"hash"`
	Input hexutil.Bytes `json:"input"`
}

// rpcReceipt - квитанция, возвращаемая eth_getTransactionReceipt.
type rpcReceipt struct {
	Status      hexutil.Uint64 `json:"status"`
	BlockNumber *hexutil.Big   `json:"blockNumber"`
}

// Client - шлюз реестра поверх JSON-RPC. Отправляет нагрузку как данные
// транзакции с нулевой суммой на адрес отправителя.
type Client struct {
	rpc          *rpc.Client
	res          *resilience.LedgerResilience
	chainID      uint64
	gasLimit     uint64
	gasPrice     *big.Int
	dialTimeout  time.Duration
	pollInterval time.Duration
}

// New создает новый клиент узла реестра.
func New(ctx context.Context, cfg *config.LedgerConfig, res *resilience.LedgerResilience) (*Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	rpcClient, err := rpc.DialContext(dialCtx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MsgDialFailed, err)
	}

	return &Client{
		rpc:          rpcClient,
		res:          res,
		chainID:      cfg.ChainID,
		gasLimit:     cfg.GasLimit,
		gasPrice:     new(big.Int).Mul(new(big.Int).SetUint64(cfg.GasPriceGwei), big.NewInt(weiPerGwei)),
		dialTimeout:  cfg.DialTimeout,
		pollInterval: cfg.ConfirmPolling,
	}, nil
}

// IsReachable проверяет доступность узла реестра.
func (c *Client) IsReachable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	var version string
	err := c.rpc.CallContext(probeCtx, &version, "web3_clientVersion")
	return err == nil
}

// SigningAccounts возвращает счета узла, способные подписывать транзакции.
func (c *Client) SigningAccounts(ctx context.Context) ([]ledger.AccountID, error) {
	var raw []string
	err := c.res.ExecuteRead(ctx, "eth_accounts", func() error {
		return c.rpc.CallContext(ctx, &raw, "eth_accounts")
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MsgAccountsFailed, errors.Join(ledger.ErrLedgerUnavailable, err))
	}

	accounts := make([]ledger.AccountID, 0, len(raw))
	for _, addr := range raw {
		accounts = append(accounts, ledger.AccountID(addr))
	}

	return accounts, nil
}

// Submit отправляет нагрузку как транзакцию с нулевой суммой на адрес
// отправителя и блокируется до включения транзакции в блок.
func (c *Client) Submit(ctx context.Context, payload []byte, from ledger.AccountID) (*ledger.Receipt, error) {
	nonce, err := c.pendingNonce(ctx, from)
	if err != nil {
		return nil, err
	}

	args := txArgs{
		From:     string(from),
		To:       string(from),
		Value:    (*hexutil.Big)(big.NewInt(0)),
		Input:    hexutil.Bytes(payload),
		Gas:      hexutil.Uint64(c.gasLimit),
		GasPrice: (*hexutil.Big)(c.gasPrice),
		Nonce:    hexutil.Uint64(nonce),
		ChainID:  hexutil.Uint64(c.chainID),
	}

	var txHash string
	err = c.res.ExecuteWrite(ctx, func() error {
		return c.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", args)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MsgSubmitFailed, err)
	}

	receipt, err := c.waitMined(ctx, txHash)
	if err != nil {
		return nil, err
	}

	if uint64(receipt.Status) != receiptStatusOK {
		return nil, fmt.Errorf("%s: %w", MsgSubmitFailed, ledger.ErrSubmissionRejected)
	}

	return &ledger.Receipt{
		Reference:   ledger.Reference(txHash),
		BlockMarker: blockMarker(receipt.BlockNumber),
	}, nil
}

// Fetch возвращает запись реестра по хэшу транзакции.
func (c *Client) Fetch(ctx context.Context, ref ledger.Reference) (*ledger.Record, error) {
	var tx *rpcTransaction
	err := c.res.ExecuteRead(ctx, "eth_getTransactionByHash", func() error {
		return c.rpc.CallContext(ctx, &tx, "eth_getTransactionByHash", string(ref))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MsgTransactionFailed, errors.Join(ledger.ErrLedgerUnavailable, err))
	}

	if tx == nil {
		return nil, fmt.Errorf("%s: %w", MsgTransactionFailed, ledger.ErrReferenceNotFound)
	}

	var receipt *rpcReceipt
	err = c.res.ExecuteRead(ctx, "eth_getTransactionReceipt", func() error {
		return c.rpc.CallContext(ctx, &receipt, "eth_getTransactionReceipt", string(ref))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MsgReceiptFailed, errors.Join(ledger.ErrLedgerUnavailable, err))
	}

	record := &ledger.Record{
		Payload: []byte(tx.Input),
		Status:  ledger.StatusPending,
	}

	if receipt != nil {
		if uint64(receipt.Status) == receiptStatusOK {
			record.Status = ledger.StatusConfirmed
			record.BlockMarker = blockMarker(receipt.BlockNumber)
		} else {
			record.Status = ledger.StatusFailed
		}
	}

	return record, nil
}

// Close закрывает соединение с узлом реестра.
func (c *Client) Close() {
	c.rpc.Close()
}

// pendingNonce возвращает nonce счета с учетом неподтвержденных транзакций.
func (c *Client) pendingNonce(ctx context.Context, from ledger.AccountID) (uint64, error) {
	var nonce hexutil.Uint64
	err := c.res.ExecuteRead(ctx, "eth_getTransactionCount", func() error {
		return c.rpc.CallContext(ctx, &nonce, "eth_getTransactionCount", string(from), "pending")
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", MsgNonceFailed, err)
	}

	return uint64(nonce), nil
}

// waitMined опрашивает узел до включения транзакции в блок или истечения контекста.
func (c *Client) waitMined(ctx context.Context, txHash string) (*rpcReceipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *rpcReceipt
		if err := c.rpc.CallContext(ctx, &receipt, "eth_getTransactionReceipt", txHash); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%s: %w", MsgReceiptFailed, err)
		}

		if receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// blockMarker преобразует номер блока квитанции в маркер блока записи.
func blockMarker(blockNumber *hexutil.Big) *int64 {
	if blockNumber == nil {
		return nil
	}

	marker := blockNumber.ToInt().Int64()
	return &marker
}
