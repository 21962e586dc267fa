package handler

import (
	"encoding/base64"
	"errors"
	"net/http"

	"veil/internal/client"
	"veil/internal/common"
	"veil/internal/config"
	"veil/internal/keystore"
	"veil/internal/model"
	"veil/internal/wallet"

	"github.com/skip2/go-qrcode"
)

// WalletHandler serves the wallet session endpoints.
type WalletHandler struct {
	session      *wallet.Session
	prices       *client.CoinGeckoClient
	keystorePath string
}

// NewWalletHandler creates a new WalletHandler around the session.
func NewWalletHandler(session *wallet.Session, prices *client.CoinGeckoClient) *WalletHandler {
	return &WalletHandler{
		session:      session,
		prices:       prices,
		keystorePath: config.GetKeystorePath(),
	}
}

// Create handles POST /wallet/create
// @Summary      Create wallet
// @Description  Generates a fresh keypair, replacing any existing one, and starts a background balance refresh
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.CreateWalletResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	address := h.session.CreateWallet()

	writeJSON(w, http.StatusOK, model.CreateWalletResponse{
		Success: true,
		Message: "Wallet created successfully",
		Address: address,
	})
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Returns the cached SOL balance after a refresh, with USD value when the rate is available
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address, ok := h.session.Address()
	if !ok {
		writeJSON(w, http.StatusOK, model.BalanceResponse{SOL: "0"})
		return
	}

	h.session.RefreshBalance(r.Context())

	resp := model.BalanceResponse{
		Address: address,
		SOL:     h.session.Balance().String(),
	}
	if lastErr := h.session.LastError(); lastErr != nil {
		resp.LastError = lastErr.Error()
	}

	// A rate outage must not break the portfolio view
	if rate, err := h.prices.SOLToUSD(r.Context()); err == nil {
		resp.USDRate = rate.String()
		resp.USDValue = h.session.Balance().Mul(rate).StringFixed(2)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Airdrop handles POST /wallet/airdrop
// @Summary      Request testnet funding
// @Description  Requests the fixed faucet grant, waits for confirmation, records it, and refreshes the balance
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.AirdropResponse
// @Router       /wallet/airdrop [post]
func (h *WalletHandler) Airdrop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := h.session.Address(); !ok {
		writeError(w, http.StatusConflict, model.ErrNoWallet)
		return
	}

	h.session.RequestAirdrop(r.Context())

	resp := model.AirdropResponse{Success: true}
	if lastErr := h.session.LastError(); lastErr != nil {
		resp.Success = false
		resp.LastError = lastErr.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

// Send handles POST /wallet/send
// @Summary      Send SOL
// @Description  Broadcasts a native transfer and returns the network signature once confirmed
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Transfer data"
// @Success      200      {object}  model.SendResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	amount, err := common.ParseSOL(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sig, err := h.session.Send(r.Context(), req.ToAddress, amount, req.IsPrivate)
	if err != nil {
		writeError(w, sendStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, model.SendResponse{Signature: sig})
}

// Receive handles GET /wallet/receive
// @Summary      Receive payment details
// @Description  Returns the wallet address and a QR code for it. The stealth flag is a display label only.
// @Tags         wallet
// @Produce      json
// @Param        stealth  query     bool  false  "Stealth address label"
// @Success      200      {object}  model.ReceiveResponse
// @Router       /wallet/receive [get]
func (h *WalletHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address, ok := h.session.Address()
	if !ok {
		writeError(w, http.StatusConflict, model.ErrNoWallet)
		return
	}

	qr, err := addressQRCode(address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ReceiveResponse{
		Address: address,
		QR:      qr,
		Stealth: r.URL.Query().Get("stealth") == "true",
	})
}

// Transactions handles GET /wallet/transactions
// @Summary      Transaction history
// @Description  Returns the transactions this app recorded for the current address, newest first
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.HistoryResponse
// @Router       /wallet/transactions [get]
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.session.History(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	address, _ := h.session.Address()
	writeJSON(w, http.StatusOK, model.HistoryResponse{
		Address: address,
		Records: records,
	})
}

// Export handles POST /wallet/export
// @Summary      Export wallet to encrypted keystore
// @Description  Writes the active keypair to the configured keystore file, encrypted with the startup password
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.KeystoreResponse
// @Router       /wallet/export [post]
func (h *WalletHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if h.keystorePath == "" {
		writeError(w, http.StatusBadRequest, errors.New("KEYSTORE_PATH not configured"))
		return
	}

	key, ok := h.session.PrivateKey()
	if !ok {
		writeError(w, http.StatusConflict, model.ErrNoWallet)
		return
	}
	defer clear(key)

	address, _ := h.session.Address()

	password, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer clear(password)

	if err := keystore.Export(h.keystorePath, address, key, password); err != nil {
		status := http.StatusInternalServerError
		if keystore.IsFileExistsError(err) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, model.KeystoreResponse{
		Success: true,
		Message: "Wallet exported successfully",
		Address: address,
	})
}

// Import handles POST /wallet/import
// @Summary      Import wallet from encrypted keystore
// @Description  Restores the keypair from the configured keystore file, replacing any active wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.KeystoreResponse
// @Router       /wallet/import [post]
func (h *WalletHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	if h.keystorePath == "" {
		writeError(w, http.StatusBadRequest, errors.New("KEYSTORE_PATH not configured"))
		return
	}

	password, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer clear(password)

	_, key, err := keystore.Import(h.keystorePath, password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	address, err := h.session.ImportKey(key)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, model.KeystoreResponse{
		Success: true,
		Message: "Wallet imported successfully",
		Address: address,
	})
}

// sendStatus maps a send failure to an HTTP status.
func sendStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrNoWallet):
		return http.StatusConflict
	case model.IsInvalidAddressError(err), model.IsInsufficientFundsError(err):
		return http.StatusBadRequest
	case model.IsNetworkError(err):
		return http.StatusBadGateway
	case model.IsTransactionFailedError(err):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// addressQRCode renders the address as a base64 PNG
func addressQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", err
	}
	png, err := qr.PNG(256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
