package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"veil/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerGateway is the slice of the ledger network the session needs.
type LedgerGateway interface {
	Balance(ctx context.Context, address string) (decimal.Decimal, error)
	RequestFunding(ctx context.Context, address string, amount decimal.Decimal) (string, error)
	Transfer(ctx context.Context, key solana.PrivateKey, toAddress string, amount decimal.Decimal) (string, error)
}

// Recorder appends and queries the session's transaction records.
type Recorder interface {
	Record(ctx context.Context, rec *model.TransactionRecord) error
	QueryByAddress(ctx context.Context, address string) ([]model.TransactionRecord, error)
}

const tokenSOL = "SOL"

// Session owns the local keypair and cached balance and orchestrates the
// ledger gateway and the recorder. At most one keypair is live per session;
// key material never leaves process memory unless explicitly exported.
//
// The cached balance is only consistent with the network immediately after a
// successful RefreshBalance. It is stale after any send or airdrop until the
// caller refreshes again.
type Session struct {
	gateway    LedgerGateway
	recorder   Recorder
	airdropSOL decimal.Decimal
	logger     *zap.Logger

	mu      sync.Mutex
	key     solana.PrivateKey // nil while no wallet exists
	balance decimal.Decimal
	lastErr error
}

// NewSession creates a session in the no-wallet state. airdropSOL is the
// fixed testnet funding amount per airdrop request.
func NewSession(gateway LedgerGateway, recorder Recorder, airdropSOL decimal.Decimal, logger *zap.Logger) *Session {
	return &Session{
		gateway:    gateway,
		recorder:   recorder,
		airdropSOL: airdropSOL,
		logger:     logger,
	}
}

// CreateWallet generates a fresh keypair, replacing any existing one, resets
// the cached balance to zero, and kicks off a background balance refresh.
// The refresh is fire-and-forget: a failure lands in the session error state
// rather than being returned here. Returns the new public address.
func (s *Session) CreateWallet() string {
	w := solana.NewWallet()

	s.mu.Lock()
	if s.key != nil {
		clear(s.key)
	}
	s.key = w.PrivateKey
	s.balance = decimal.Zero
	s.lastErr = nil
	address := w.PublicKey().String()
	s.mu.Unlock()

	s.logger.Info("wallet created", zap.String("address", address))

	go s.RefreshBalance(context.Background())

	return address
}

// RefreshBalance re-queries the ledger for the current address and overwrites
// the cached balance on success. With no keypair it is a no-op. A query
// failure leaves the balance unchanged and is captured in the session error
// state, not returned; re-observe it via LastError.
func (s *Session) RefreshBalance(ctx context.Context) {
	s.mu.Lock()
	if s.key == nil {
		s.mu.Unlock()
		return
	}
	address := s.key.PublicKey().String()
	s.mu.Unlock()

	balance, err := s.gateway.Balance(ctx, address)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Discard the result if the keypair was replaced while the query ran; a
	// prior wallet's balance must never land on a fresh one
	if s.key == nil || s.key.PublicKey().String() != address {
		return
	}
	if err != nil {
		s.lastErr = err
		s.logger.Warn("balance refresh failed", zap.String("address", address), zap.Error(err))
		return
	}
	s.balance = balance
	s.lastErr = nil
}

// RequestAirdrop requests the fixed testnet funding amount, waits for
// confirmation, records the grant, and refreshes the balance. Failures are
// captured in the session error state. A confirmation failure after the
// request reached the network is surfaced the same way; the grant is neither
// retried nor rolled back.
func (s *Session) RequestAirdrop(ctx context.Context) {
	s.mu.Lock()
	if s.key == nil {
		s.lastErr = model.ErrNoWallet
		s.mu.Unlock()
		return
	}
	address := s.key.PublicKey().String()
	s.mu.Unlock()

	sig, err := s.gateway.RequestFunding(ctx, address, s.airdropSOL)
	if err != nil {
		s.setError(err)
		s.logger.Warn("airdrop failed", zap.String("address", address), zap.Error(err))
		return
	}

	rec := &model.TransactionRecord{
		Kind:      model.RecordKindAirdrop,
		Amount:    s.airdropSOL,
		Token:     tokenSOL,
		ToAddress: address,
		Signature: sig,
		CreatedAt: time.Now(),
	}
	var recErr error
	if err := s.recorder.Record(ctx, rec); err != nil {
		// The grant already landed on the network; the local history is now
		// missing an entry. Surface it, nothing to roll back.
		recErr = err
		s.logger.Warn("airdrop record append failed", zap.String("signature", sig), zap.Error(err))
	}

	s.RefreshBalance(ctx)

	// A successful refresh clears the session error; the missing history
	// entry must stay observable past it
	if recErr != nil {
		s.setError(recErr)
	}
}

// Send broadcasts a native transfer to toAddress and returns the network
// signature. Destination and amount are validated locally before any network
// call. The isPrivate flag is recorded as supplied; it does not alter how the
// transaction is constructed. The cached balance is not adjusted; callers
// refresh it separately.
func (s *Session) Send(ctx context.Context, toAddress string, amount decimal.Decimal, isPrivate bool) (string, error) {
	if toAddress == "" {
		return "", fmt.Errorf("destination address is empty")
	}
	if !amount.IsPositive() {
		return "", fmt.Errorf("amount must be positive")
	}

	s.mu.Lock()
	if s.key == nil {
		s.mu.Unlock()
		return "", model.ErrNoWallet
	}
	// Copy the key so a concurrent CreateWallet clearing the old material
	// cannot zero it mid-signing
	key := make(solana.PrivateKey, len(s.key))
	copy(key, s.key)
	address := s.key.PublicKey().String()
	s.mu.Unlock()
	defer clear(key)

	sig, err := s.gateway.Transfer(ctx, key, toAddress, amount)
	if err != nil {
		s.logger.Warn("send failed",
			zap.String("from", address),
			zap.String("to", toAddress),
			zap.Error(err))
		return "", &model.TransactionFailedError{Err: err}
	}

	rec := &model.TransactionRecord{
		Kind:        model.RecordKindSend,
		Amount:      amount,
		Token:       tokenSOL,
		FromAddress: address,
		ToAddress:   toAddress,
		Signature:   sig,
		IsPrivate:   isPrivate,
		CreatedAt:   time.Now(),
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		// Broadcast succeeded but the record append did not. The transfer is
		// final either way, so the signature is still returned.
		s.setError(err)
		s.logger.Warn("send record append failed", zap.String("signature", sig), zap.Error(err))
	}

	s.logger.Info("sent transfer",
		zap.String("from", address),
		zap.String("to", toAddress),
		zap.String("amount", amount.String()),
		zap.Bool("private", isPrivate),
		zap.String("signature", sig))

	return sig, nil
}

// History returns the session's locally recorded transactions, newest first.
// With no keypair the history is empty.
func (s *Session) History(ctx context.Context) ([]model.TransactionRecord, error) {
	address, ok := s.Address()
	if !ok {
		return []model.TransactionRecord{}, nil
	}
	return s.recorder.QueryByAddress(ctx, address)
}

// Address returns the current public address, or false while no wallet
// exists.
func (s *Session) Address() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return "", false
	}
	return s.key.PublicKey().String(), true
}

// Balance returns the cached balance in whole SOL units. Zero while no
// wallet exists.
func (s *Session) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// LastError returns the most recent fire-and-forget failure. It is
// overwritten by the next operation: a success clears it on the refresh path,
// a later failure replaces it. Tests relying on it must order their calls.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// PrivateKey returns a copy of the active key material for export, or false
// while no wallet exists. Callers must zero the copy after use.
func (s *Session) PrivateKey() (solana.PrivateKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return nil, false
	}
	out := make(solana.PrivateKey, len(s.key))
	copy(out, s.key)
	return out, true
}

// ImportKey replaces the active keypair with previously exported key
// material, resets the cached balance, and kicks off a background refresh.
func (s *Session) ImportKey(key solana.PrivateKey) (string, error) {
	if len(key) != 64 {
		return "", fmt.Errorf("invalid private key length: expected 64 bytes")
	}

	s.mu.Lock()
	if s.key != nil {
		clear(s.key)
	}
	s.key = key
	s.balance = decimal.Zero
	s.lastErr = nil
	address := s.key.PublicKey().String()
	s.mu.Unlock()

	s.logger.Info("wallet imported", zap.String("address", address))

	go s.RefreshBalance(context.Background())

	return address, nil
}

func (s *Session) setError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
