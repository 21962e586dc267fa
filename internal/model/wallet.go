package model

// CreateWalletResponse represents response for POST /wallet/create
type CreateWalletResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
}

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address   string `json:"address"`
	SOL       string `json:"sol"`
	USDRate   string `json:"usd_rate,omitempty"`
	USDValue  string `json:"usd_value,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// SendRequest represents request for POST /wallet/send
type SendRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	IsPrivate bool   `json:"isPrivate"`
}

// SendResponse represents response for POST /wallet/send
type SendResponse struct {
	Signature string `json:"signature"`
}

// AirdropResponse represents response for POST /wallet/airdrop
type AirdropResponse struct {
	Success   bool   `json:"success"`
	LastError string `json:"last_error,omitempty"`
}

// ReceiveResponse represents response for GET /wallet/receive
type ReceiveResponse struct {
	Address string `json:"address"`
	QR      string `json:"qr"` // base64 PNG
	Stealth bool   `json:"stealth"`
}

// HistoryResponse represents response for GET /wallet/transactions
type HistoryResponse struct {
	Address string              `json:"address"`
	Records []TransactionRecord `json:"transactions"`
}

// KeystoreResponse represents response for POST /wallet/export and /wallet/import
type KeystoreResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
}
