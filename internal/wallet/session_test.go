package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"veil/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	mu sync.Mutex

	balance     decimal.Decimal
	balanceErr  error
	fundingErr  error
	transferErr error
	sig         string

	balanceCalls  int
	fundingCalls  int
	transferCalls int
}

func (f *fakeGateway) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++
	if f.balanceErr != nil {
		return decimal.Zero, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeGateway) RequestFunding(ctx context.Context, address string, amount decimal.Decimal) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fundingCalls++
	if f.fundingErr != nil {
		return "", f.fundingErr
	}
	return f.sig, nil
}

func (f *fakeGateway) Transfer(ctx context.Context, key solana.PrivateKey, toAddress string, amount decimal.Decimal) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transferCalls++
	if f.transferErr != nil {
		return "", f.transferErr
	}
	return f.sig, nil
}

func (f *fakeGateway) calls() (balance, funding, transfer int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balanceCalls, f.fundingCalls, f.transferCalls
}

func (f *fakeGateway) setBalance(d decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance = d
}

func (f *fakeGateway) setBalanceErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceErr = err
}

type fakeRecorder struct {
	mu        sync.Mutex
	records   []model.TransactionRecord
	recordErr error
}

func (f *fakeRecorder) Record(ctx context.Context, rec *model.TransactionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeRecorder) QueryByAddress(ctx context.Context, address string) ([]model.TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.TransactionRecord, 0, len(f.records))
	for _, r := range f.records {
		if r.FromAddress == address || r.ToAddress == address {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecorder) all() []model.TransactionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.TransactionRecord(nil), f.records...)
}

func newTestSession(gw *fakeGateway, rec *fakeRecorder) *Session {
	return NewSession(gw, rec, decimal.NewFromInt(1), zap.NewNop())
}

// waitForRefresh waits for the background refresh spawned by CreateWallet or
// ImportKey to finish, so later assertions don't race it.
func waitForRefresh(t *testing.T, gw *fakeGateway, atLeast int) {
	t.Helper()
	require.Eventually(t, func() bool {
		n, _, _ := gw.calls()
		return n >= atLeast
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRefreshBalanceNoWallet(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestSession(gw, &fakeRecorder{})

	s.RefreshBalance(context.Background())

	assert.NoError(t, s.LastError())
	assert.True(t, s.Balance().IsZero())

	n, _, _ := gw.calls()
	assert.Zero(t, n, "no network call without a keypair")
}

func TestRefreshBalanceSuccessAndFailure(t *testing.T) {
	gw := &fakeGateway{balance: decimal.RequireFromString("2.5")}
	s := newTestSession(gw, &fakeRecorder{})

	s.CreateWallet()
	waitForRefresh(t, gw, 1)

	s.RefreshBalance(context.Background())
	assert.Equal(t, "2.5", s.Balance().String())
	assert.NoError(t, s.LastError())

	// A failed refresh keeps the last-known balance and surfaces the error
	gw.setBalanceErr(&model.NetworkError{Op: "balance query", Err: errors.New("rpc down")})
	s.RefreshBalance(context.Background())
	assert.Equal(t, "2.5", s.Balance().String())
	require.Error(t, s.LastError())
	assert.True(t, model.IsNetworkError(s.LastError()))

	// The next success clears it
	gw.setBalanceErr(nil)
	gw.setBalance(decimal.RequireFromString("3"))
	s.RefreshBalance(context.Background())
	assert.Equal(t, "3", s.Balance().String())
	assert.NoError(t, s.LastError())
}

func TestCreateWalletReplacesKeypair(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestSession(gw, &fakeRecorder{})

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		address := s.CreateWallet()
		require.NotEmpty(t, address)
		assert.False(t, seen[address], "repeated address after create")
		seen[address] = true

		got, ok := s.Address()
		require.True(t, ok)
		assert.Equal(t, address, got)
	}
}

func TestCreateWalletResetsBalance(t *testing.T) {
	gw := &fakeGateway{balance: decimal.RequireFromString("9")}
	s := newTestSession(gw, &fakeRecorder{})

	s.CreateWallet()
	waitForRefresh(t, gw, 1)
	s.RefreshBalance(context.Background())
	require.Equal(t, "9", s.Balance().String())

	// Replacing the keypair must not carry the old wallet's balance even for
	// an instant; the refresh that follows is asynchronous
	gw.setBalanceErr(errors.New("unreachable"))
	s.CreateWallet()
	assert.True(t, s.Balance().IsZero())
}

func TestSendValidatesLocally(t *testing.T) {
	gw := &fakeGateway{sig: "sig1"}
	s := newTestSession(gw, &fakeRecorder{})
	s.CreateWallet()
	waitForRefresh(t, gw, 1)

	testCases := []struct {
		name   string
		to     string
		amount decimal.Decimal
	}{
		{"empty destination", "", decimal.NewFromInt(1)},
		{"zero amount", "9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde", decimal.Zero},
		{"negative amount", "9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde", decimal.NewFromInt(-1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, before := gw.calls()
			_, err := s.Send(context.Background(), tc.to, tc.amount, false)
			require.Error(t, err)

			_, _, after := gw.calls()
			assert.Equal(t, before, after, "no network round-trip on invalid input")
		})
	}
}

func TestSendRequiresWallet(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestSession(gw, &fakeRecorder{})

	_, err := s.Send(context.Background(), "9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde", decimal.NewFromInt(1), false)
	assert.ErrorIs(t, err, model.ErrNoWallet)
}

func TestSendRecordsAndReturnsSignature(t *testing.T) {
	gw := &fakeGateway{sig: "sig-send-1"}
	rec := &fakeRecorder{}
	s := newTestSession(gw, rec)
	address := s.CreateWallet()
	waitForRefresh(t, gw, 1)

	sig, err := s.Send(context.Background(), "9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde", decimal.RequireFromString("0.5"), true)
	require.NoError(t, err)
	assert.Equal(t, "sig-send-1", sig)

	records := rec.all()
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, model.RecordKindSend, r.Kind)
	assert.Equal(t, "0.5", r.Amount.String())
	assert.Equal(t, "SOL", r.Token)
	assert.Equal(t, address, r.FromAddress)
	assert.Equal(t, "9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde", r.ToAddress)
	assert.Equal(t, "sig-send-1", r.Signature)
	assert.True(t, r.IsPrivate, "isPrivate recorded as supplied")
	assert.False(t, r.CreatedAt.IsZero())
}

func TestSendBroadcastFailure(t *testing.T) {
	gw := &fakeGateway{transferErr: &model.NetworkError{Op: "broadcast", Err: errors.New("timeout")}}
	rec := &fakeRecorder{}
	s := newTestSession(gw, rec)
	s.CreateWallet()
	waitForRefresh(t, gw, 1)

	_, err := s.Send(context.Background(), "9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde", decimal.NewFromInt(1), false)
	require.Error(t, err)
	assert.True(t, model.IsTransactionFailedError(err))
	assert.True(t, model.IsNetworkError(err), "cause stays observable through the wrap")
	assert.Empty(t, rec.all(), "nothing recorded for a failed broadcast")
}

func TestSendRecordFailureStillReturnsSignature(t *testing.T) {
	gw := &fakeGateway{sig: "sig-orphan"}
	rec := &fakeRecorder{recordErr: &model.PersistenceError{Err: errors.New("disk full")}}
	s := newTestSession(gw, rec)
	s.CreateWallet()
	waitForRefresh(t, gw, 1)

	// The transfer already hit the network; a failed append cannot undo it,
	// so the signature still comes back and the gap is surfaced on the session
	sig, err := s.Send(context.Background(), "9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde", decimal.NewFromInt(1), false)
	require.NoError(t, err)
	assert.Equal(t, "sig-orphan", sig)
	assert.True(t, model.IsPersistenceError(s.LastError()))
}

func TestRequestAirdropNoWallet(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestSession(gw, &fakeRecorder{})

	s.RequestAirdrop(context.Background())
	assert.ErrorIs(t, s.LastError(), model.ErrNoWallet)

	_, funding, _ := gw.calls()
	assert.Zero(t, funding)
}

func TestRequestAirdropRecordsAndRefreshes(t *testing.T) {
	gw := &fakeGateway{sig: "sig-air-1"}
	rec := &fakeRecorder{}
	s := newTestSession(gw, rec)
	address := s.CreateWallet()
	waitForRefresh(t, gw, 1)

	gw.setBalance(decimal.NewFromInt(1))
	s.RequestAirdrop(context.Background())

	require.NoError(t, s.LastError())
	assert.Equal(t, "1", s.Balance().String(), "airdrop refreshes the balance")

	records := rec.all()
	require.Len(t, records, 1)
	assert.Equal(t, model.RecordKindAirdrop, records[0].Kind)
	assert.Equal(t, address, records[0].ToAddress)
	assert.Equal(t, "sig-air-1", records[0].Signature)
	assert.Equal(t, "1", records[0].Amount.String())
}

func TestRequestAirdropFundingFailure(t *testing.T) {
	gw := &fakeGateway{fundingErr: &model.NetworkError{Op: "funding request", Err: errors.New("faucet dry")}}
	rec := &fakeRecorder{}
	s := newTestSession(gw, rec)
	s.CreateWallet()
	waitForRefresh(t, gw, 1)
	before := s.Balance()

	s.RequestAirdrop(context.Background())

	assert.True(t, model.IsNetworkError(s.LastError()))
	assert.True(t, s.Balance().Equal(before), "failed airdrop leaves balance alone")
	assert.Empty(t, rec.all())
}

func TestRequestAirdropRecordFailureStaysObservable(t *testing.T) {
	gw := &fakeGateway{sig: "sig-air-orphan", balance: decimal.NewFromInt(1)}
	rec := &fakeRecorder{recordErr: &model.PersistenceError{Err: errors.New("disk full")}}
	s := newTestSession(gw, rec)
	s.CreateWallet()
	waitForRefresh(t, gw, 1)

	s.RequestAirdrop(context.Background())

	// The grant confirmed and the trailing refresh succeeded, but the gap in
	// the local history must stay visible on the session past that refresh
	require.Error(t, s.LastError())
	assert.True(t, model.IsPersistenceError(s.LastError()))
	assert.Equal(t, "1", s.Balance().String(), "refresh still ran")
}

// gatedGateway parks Balance calls on a per-address gate so tests can control
// when each wallet's query answers.
type gatedGateway struct {
	mu           sync.Mutex
	gates        map[string]chan struct{}
	waiting      map[string]int
	balances     map[string]decimal.Decimal
	balanceCalls int
}

func newGatedGateway() *gatedGateway {
	return &gatedGateway{
		gates:    map[string]chan struct{}{},
		waiting:  map[string]int{},
		balances: map[string]decimal.Decimal{},
	}
}

func (g *gatedGateway) gateFor(address string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	gate, ok := g.gates[address]
	if !ok {
		gate = make(chan struct{})
		g.gates[address] = gate
	}
	return gate
}

func (g *gatedGateway) release(address string) {
	close(g.gateFor(address))
}

func (g *gatedGateway) setBalance(address string, d decimal.Decimal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balances[address] = d
}

func (g *gatedGateway) waitingOn(address string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.waiting[address]
}

func (g *gatedGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balanceCalls
}

func (g *gatedGateway) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	gate := g.gateFor(address)
	g.mu.Lock()
	g.waiting[address]++
	g.mu.Unlock()
	<-gate
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balanceCalls++
	return g.balances[address], nil
}

func (g *gatedGateway) RequestFunding(ctx context.Context, address string, amount decimal.Decimal) (string, error) {
	return "", errors.New("not used")
}

func (g *gatedGateway) Transfer(ctx context.Context, key solana.PrivateKey, toAddress string, amount decimal.Decimal) (string, error) {
	return "", errors.New("not used")
}

func TestStaleRefreshDoesNotCrossKeypairs(t *testing.T) {
	gw := newGatedGateway()
	s := NewSession(gw, &fakeRecorder{}, decimal.NewFromInt(1), zap.NewNop())

	addr1 := s.CreateWallet()
	// Make sure the first wallet's refresh is parked on its own gate before
	// the keypair is replaced
	require.Eventually(t, func() bool { return gw.waitingOn(addr1) == 1 }, 2*time.Second, 10*time.Millisecond)

	addr2 := s.CreateWallet()

	gw.setBalance(addr1, decimal.NewFromInt(9))
	gw.setBalance(addr2, decimal.NewFromInt(2))

	gw.release(addr2)
	require.Eventually(t, func() bool { return s.Balance().Equal(decimal.NewFromInt(2)) }, 2*time.Second, 10*time.Millisecond)

	// The first wallet's query answers late; its result belongs to a
	// replaced keypair and must be discarded, whatever the write order
	gw.release(addr1)
	require.Eventually(t, func() bool { return gw.calls() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return s.Balance().Equal(decimal.NewFromInt(9)) }, 300*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, "2", s.Balance().String())
}

func TestHistoryNoWallet(t *testing.T) {
	s := newTestSession(&fakeGateway{}, &fakeRecorder{})

	records, err := s.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
