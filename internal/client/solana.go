package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"veil/internal/common"
	"veil/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
)

const confirmPollInterval = 500 * time.Millisecond

// LedgerClient wraps Solana RPC for the operations the wallet session needs:
// balance lookup, faucet funding, and native transfers. Amounts cross the RPC
// boundary in lamports and are converted to whole SOL here.
type LedgerClient struct {
	rpcClient *rpc.Client
	rpcURL    string
}

// NewLedgerClient creates a new ledger client for the given RPC endpoint.
func NewLedgerClient(rpcURL string) *LedgerClient {
	return &LedgerClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
	}
}

// Balance gets the current balance for the address in whole SOL units.
func (c *LedgerClient) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return decimal.Zero, &model.InvalidAddressError{Address: address, Err: err}
	}

	out, err := c.rpcClient.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return decimal.Zero, &model.NetworkError{Op: "balance query", Err: err}
	}

	return common.LamportsToSOL(out.Value), nil
}

// RequestFunding requests a testnet faucet grant for the address and blocks
// until the network reports confirmation. A confirmation failure after a
// successful submission is reported the same way as outright rejection, so
// the funds may have landed even when an error comes back.
func (c *LedgerClient) RequestFunding(ctx context.Context, address string, amount decimal.Decimal) (string, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return "", &model.InvalidAddressError{Address: address, Err: err}
	}

	lamports, err := common.SOLToLamports(amount)
	if err != nil {
		return "", fmt.Errorf("invalid funding amount: %w", err)
	}

	sig, err := c.rpcClient.RequestAirdrop(ctx, pubkey, lamports, rpc.CommitmentConfirmed)
	if err != nil {
		return "", &model.NetworkError{Op: "funding request", Err: err}
	}

	if err := c.waitForConfirmation(ctx, sig); err != nil {
		return "", &model.NetworkError{Op: "funding confirmation", Err: err}
	}

	return sig.String(), nil
}

// Transfer constructs a single native SOL transfer, signs it with the
// supplied key, submits it, and awaits confirmation before returning the
// transaction signature.
func (c *LedgerClient) Transfer(ctx context.Context, key solana.PrivateKey, toAddress string, amount decimal.Decimal) (string, error) {
	toPubkey, err := solana.PublicKeyFromBase58(toAddress)
	if err != nil {
		return "", &model.InvalidAddressError{Address: toAddress, Err: err}
	}

	fromPubkey := key.PublicKey()

	lamports, err := common.SOLToLamports(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount: %w", err)
	}

	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", &model.NetworkError{Op: "blockhash fetch", Err: err}
	}

	transferInstruction := system.NewTransferInstruction(
		lamports,
		fromPubkey,
		toPubkey,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(fromPubkey),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(k solana.PublicKey) *solana.PrivateKey {
		if fromPubkey.Equals(k) {
			return &key
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		if isInsufficientFundsError(err) {
			return "", &model.InsufficientFundsError{Err: err}
		}
		return "", &model.NetworkError{Op: "broadcast", Err: err}
	}

	if err := c.waitForConfirmation(ctx, sig); err != nil {
		return "", &model.NetworkError{Op: "confirmation", Err: err}
	}

	return sig.String(), nil
}

// waitForConfirmation polls signature status until the network reports the
// transaction confirmed or finalized. No timeout of its own; cancellation
// comes from the caller's context.
func (c *LedgerClient) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation wait aborted: %w", ctx.Err())
		case <-ticker.C:
		}

		out, err := c.rpcClient.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return fmt.Errorf("failed to get signature status: %w", err)
		}
		if len(out.Value) == 0 || out.Value[0] == nil {
			continue
		}

		status := out.Value[0]
		if status.Err != nil {
			return fmt.Errorf("transaction rejected by network: %v", status.Err)
		}
		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
			return nil
		}
	}
}

// isInsufficientFundsError checks if an RPC error indicates the network
// rejected the transfer for balance reasons
func isInsufficientFundsError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "insufficient lamports") ||
		strings.Contains(errStr, "insufficient funds") ||
		strings.Contains(errStr, "found no record of a prior credit")
}
