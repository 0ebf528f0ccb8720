package models

import (
	"time"
)

// TransferStatus outbound transfer lifecycle. A record is created Pending
// (the NFT is locked) and moves once to Finalized or Reverted.
type TransferStatus uint8

const (
	TransferPending   TransferStatus = 0 // NFT locked, awaiting relay delivery
	TransferFinalized TransferStatus = 1 // delivered on the destination chain
	TransferReverted  TransferStatus = 2 // unlocked by the authority
)

func (s TransferStatus) String() string {
	switch s {
	case TransferPending:
		return "pending"
	case TransferFinalized:
		return "finalized"
	case TransferReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// Account row of the postgres-backed ledger. Data holds the same binary
// encoding the bolt backend stores.
type Account struct {
	Address   string    `json:"address" gorm:"primaryKey;type:varchar(64)"`
	Kind      string    `json:"kind" gorm:"type:varchar(32);index"`
	Data      []byte    `json:"-" gorm:"type:bytea;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "ledger_accounts"
}
