package model

import "errors"

// InvalidAddressError is an error for an address that cannot be parsed as a
// Solana public key.
type InvalidAddressError struct {
	Address string
	Err     error
}

func (e *InvalidAddressError) Error() string {
	return "invalid address: " + e.Address
}

func (e *InvalidAddressError) Unwrap() error { return e.Err }

// IsInvalidAddressError checks if error is InvalidAddressError
func IsInvalidAddressError(err error) bool {
	var target *InvalidAddressError
	return errors.As(err, &target)
}

// InsufficientFundsError is an error for a transfer the network rejected for
// balance reasons.
type InsufficientFundsError struct {
	Err error
}

func (e *InsufficientFundsError) Error() string {
	return "insufficient funds: " + e.Err.Error()
}

func (e *InsufficientFundsError) Unwrap() error { return e.Err }

// IsInsufficientFundsError checks if error is InsufficientFundsError
func IsInsufficientFundsError(err error) bool {
	var target *InsufficientFundsError
	return errors.As(err, &target)
}

// NetworkError covers balance-query, funding, broadcast and confirmation
// transport failures. Confirmation failure after a successful submission is
// reported the same way as outright rejection.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return "network error during " + e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError checks if error is NetworkError
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// TransactionFailedError is an error for a send whose broadcast or
// confirmation failed.
type TransactionFailedError struct {
	Err error
}

func (e *TransactionFailedError) Error() string {
	return "transaction failed: " + e.Err.Error()
}

func (e *TransactionFailedError) Unwrap() error { return e.Err }

// IsTransactionFailedError checks if error is TransactionFailedError
func IsTransactionFailedError(err error) bool {
	var target *TransactionFailedError
	return errors.As(err, &target)
}

// PersistenceError is an error for a failed transaction-record append or
// query. It never implies the network transaction was rolled back.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence error: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistenceError checks if error is PersistenceError
func IsPersistenceError(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// AuthProviderError is an error from the external identity provider.
type AuthProviderError struct {
	Op  string
	Err error
}

func (e *AuthProviderError) Error() string {
	return "auth provider error during " + e.Op + ": " + e.Err.Error()
}

func (e *AuthProviderError) Unwrap() error { return e.Err }

// IsAuthProviderError checks if error is AuthProviderError
func IsAuthProviderError(err error) bool {
	var target *AuthProviderError
	return errors.As(err, &target)
}

// ErrNoWallet is returned by wallet operations that require an active keypair.
var ErrNoWallet = errors.New("no wallet: create a wallet first")

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
