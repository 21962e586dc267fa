package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind transaction record kind
type RecordKind string

const (
	RecordKindSend    RecordKind = "send"
	RecordKindReceive RecordKind = "receive"
	RecordKindAirdrop RecordKind = "airdrop"
	RecordKindShield  RecordKind = "shield"
)

// Valid reports whether the kind is one of the known record kinds.
func (k RecordKind) Valid() bool {
	switch k {
	case RecordKindSend, RecordKindReceive, RecordKindAirdrop, RecordKindShield:
		return true
	}
	return false
}

// TransactionRecord represents one completed or submitted transfer as this
// app recorded it. Immutable once created; this is the app's own view of
// history, not the full on-chain history for the address.
type TransactionRecord struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	Kind        RecordKind      `json:"type" gorm:"column:type;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:text"`
	Token       string          `json:"token"`
	FromAddress string          `json:"from_address,omitempty" gorm:"index"`
	ToAddress   string          `json:"to_address,omitempty" gorm:"index"`
	Signature   string          `json:"signature"`
	IsPrivate   bool            `json:"is_private"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
}

// TableName sets the table name for gorm.
func (TransactionRecord) TableName() string { return "transaction_records" }

// Validate checks the record is well formed before it is appended.
func (r *TransactionRecord) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown record kind: %q", r.Kind)
	}
	if r.Amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}
	if r.FromAddress == "" && r.ToAddress == "" {
		return fmt.Errorf("record needs a from or to address")
	}
	if r.Signature == "" {
		return fmt.Errorf("record needs a network signature")
	}
	return nil
}
