package model

// PrivacySettings holds the five user-facing privacy toggles. All default to
// false on session start; nothing here persists across sessions.
type PrivacySettings struct {
	DefaultTransactionPrivacy bool `json:"defaultTransactionPrivacy"`
	StealthAddressByDefault   bool `json:"stealthAddressByDefault"`
	AutoShieldLargeAmounts    bool `json:"autoShieldLargeAmounts"`
	MetadataProtection        bool `json:"transactionMetadataProtection"`
	ObfuscateConnectedApps    bool `json:"obfuscateConnectedApps"`
}

// PrivacyScores is a snapshot of the derived privacy metrics. The four
// sub-scores are fixed baseline inputs; only Overall changes when a toggle
// flips.
type PrivacyScores struct {
	Overall            int `json:"overall"`
	ShieldedBalance    int `json:"shieldedBalance"`
	TransactionPrivacy int `json:"transactionPrivacy"`
	AddressIsolation   int `json:"addressIsolation"`
	MetadataProtection int `json:"metadataProtection"`
}

// PrivacyResponse represents response for GET /privacy/scores
type PrivacyResponse struct {
	Settings PrivacySettings `json:"settings"`
	Scores   PrivacyScores   `json:"scores"`
	Level    string          `json:"privacyLevel"`
}

// ToggleRequest represents request for PUT /privacy/settings/{name}
type ToggleRequest struct {
	Value bool `json:"value"`
}

// LevelRequest represents request for PUT /privacy/level
type LevelRequest struct {
	Level string `json:"level"`
}

// AuthUser is the identity record supplied by the external provider. Its
// lifecycle is fully controlled by that provider; this system only observes it.
type AuthUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthResponse represents response for the /auth endpoints
type AuthResponse struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	User            *AuthUser `json:"user,omitempty"`
}
