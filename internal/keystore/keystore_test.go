package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.veil")
	w := solana.NewWallet()
	address := w.PublicKey().String()
	password := []byte("correct horse battery staple")

	require.NoError(t, Export(path, address, w.PrivateKey, password))

	gotAddress, gotKey, err := Import(path, password)
	require.NoError(t, err)
	assert.Equal(t, address, gotAddress)
	assert.Equal(t, []byte(w.PrivateKey), gotKey)
}

func TestImportWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.veil")
	w := solana.NewWallet()

	require.NoError(t, Export(path, w.PublicKey().String(), w.PrivateKey, []byte("right")))

	_, _, err := Import(path, []byte("wrong"))
	assert.Error(t, err)
}

func TestExportRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.veil")
	w := solana.NewWallet()
	password := []byte("pw")

	require.NoError(t, Export(path, w.PublicKey().String(), w.PrivateKey, password))

	err := Export(path, w.PublicKey().String(), w.PrivateKey, password)
	require.Error(t, err)
	assert.True(t, IsFileExistsError(err))
}

func TestExportRequiresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.txt")
	w := solana.NewWallet()

	err := Export(path, w.PublicKey().String(), w.PrivateKey, []byte("pw"))
	assert.Error(t, err)
}

func TestFileDoesNotLeakKeyMaterial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.veil")
	w := solana.NewWallet()

	require.NoError(t, Export(path, w.PublicKey().String(), w.PrivateKey, []byte("pw")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var f File
	require.NoError(t, json.Unmarshal(raw, &f))
	assert.Equal(t, "solana", f.Network)
	assert.Equal(t, w.PublicKey().String(), f.Address)
	assert.NotEmpty(t, f.CipherText)
	assert.NotContains(t, string(raw), w.PrivateKey.String(), "private key must only appear encrypted")
}

func TestImportMissingFile(t *testing.T) {
	_, _, err := Import(filepath.Join(t.TempDir(), "absent.veil"), []byte("pw"))
	assert.Error(t, err)
}
