// Package keystore implements the optional encrypted on-disk wallet file.
// The session holds key material in memory only; export is an explicit,
// opt-in action.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters. N=2^17 keeps derivation under a second on commodity
	// hardware while staying expensive to brute-force.
	scryptN      = 1 << 17
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12

	fileExt = ".veil"
	network = "solana"
)

// File is the on-disk keystore structure. Only the address is readable
// without the password.
type File struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

type payload struct {
	PrivateKey []byte `json:"privateKey"` // 64 bytes, base64 in JSON
	CreatedAt  string `json:"createdAt"`
}

// FileExistsError is an error when the keystore file already exists and is
// not empty.
type FileExistsError struct {
	Message string
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	var target *FileExistsError
	return errors.As(err, &target)
}

// Export encrypts the private key under the password and writes it to
// filePath. Refuses to overwrite a non-empty file. password and privateKey
// are the caller's to zero after use.
func Export(filePath, address string, privateKey, password []byte) error {
	if !strings.HasSuffix(filePath, fileExt) {
		return fmt.Errorf("file must have %s extension", fileExt)
	}

	if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
		return &FileExistsError{Message: "keystore file is not empty"}
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(payload{
		PrivateKey: privateKey,
		CreatedAt:  time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key payload: %w", err)
	}
	defer clear(plaintext)

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	fileData, err := json.MarshalIndent(File{
		Network:    network,
		Address:    address,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore file: %w", err)
	}

	if err := os.WriteFile(filePath, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write keystore file: %w", err)
	}

	return nil
}

// Import decrypts the keystore file and returns the stored address and
// private key. Caller must zero the key after use.
func Import(filePath string, password []byte) (address string, privateKey []byte, err error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", nil, fmt.Errorf("failed to parse keystore file: %w", err)
	}
	if f.Network != network {
		return "", nil, fmt.Errorf("unexpected network %q in keystore file", f.Network)
	}

	salt, err := base64.StdEncoding.DecodeString(f.Salt)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(f.Nonce)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(f.CipherText)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return "", nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decrypt keystore: wrong password or corrupted file")
	}
	defer clear(plaintext)

	var p payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return "", nil, fmt.Errorf("failed to parse key payload: %w", err)
	}
	if len(p.PrivateKey) != 64 {
		return "", nil, fmt.Errorf("invalid private key length in keystore")
	}

	return f.Address, p.PrivateKey, nil
}

func newGCM(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aesGCM, nil
}
