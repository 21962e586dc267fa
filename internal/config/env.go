package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the keystore password is prompted at runtime and stored in memory -
// use GetKeystorePasswordBytes()
type Config struct {
	Port             string `envconfig:"PORT" default:"8080"`
	SolanaRPCURL     string `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	DatabasePath     string `envconfig:"DATABASE_PATH" default:"veil.db"`
	IdentityBaseURL  string `envconfig:"IDENTITY_BASE_URL" default:"https://auth.civic.com/api"`
	IdentityClientID string `envconfig:"IDENTITY_CLIENT_ID"`
	KeystorePath     string `envconfig:"KEYSTORE_PATH"` // optional; enables wallet export/import
	AirdropSOL       string `envconfig:"AIRDROP_SOL" default:"1"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

// GetDatabasePath returns the sqlite database path from configuration
func GetDatabasePath() string {
	return Get().DatabasePath
}

// GetIdentityBaseURL returns the identity provider base URL from configuration
func GetIdentityBaseURL() string {
	return Get().IdentityBaseURL
}

// GetIdentityClientID returns the identity provider client id from configuration
func GetIdentityClientID() string {
	return Get().IdentityClientID
}

// GetKeystorePath returns the optional encrypted keystore path from configuration
func GetKeystorePath() string {
	return Get().KeystorePath
}

// GetAirdropSOL returns the fixed testnet funding amount from configuration
func GetAirdropSOL() string {
	return Get().AirdropSOL
}

var passwordBytes []byte

// PromptForPassword prompts the user for the keystore password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup, before the server begins handling requests, if a
// keystore path is configured.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter keystore password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetKeystorePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use.
func GetKeystorePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
