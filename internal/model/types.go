// Package model defines domain types used by the bot.
package model

// Product represents one catalog entry. Price is an integer amount in the
// smallest currency unit (rupiah). Unit is an optional short label such as
// "kg" or "bks"; empty means no unit.
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Unit  string `json:"unit,omitempty"`
}

// AuditEntry is one append-only record of a catalog mutation.
type AuditEntry struct {
	ProductID   int64          `json:"product_id"`
	ActionType  string         `json:"action_type"`
	Details     map[string]any `json:"details,omitempty"`
	RequestedBy string         `json:"requested_by,omitempty"`
}

// Inbound is one chat message accepted for processing.
type Inbound struct {
	ChatID   int64
	UserID   string
	Text     string
	Sequence uint64
}
