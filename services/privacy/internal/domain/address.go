package domain

import (
	"strings"
	"time"
)

// AddressHistoryEntry is a previous address. DeletedAt is set once the
// customer moved away from it.
type AddressHistoryEntry struct {
	StreetAddress string     `json:"street_address"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// AddressRecord is the customer's monitored address.
type AddressRecord struct {
	CustomerID    string                `json:"customer_id"`
	StreetAddress string                `json:"street_address"`
	DeletedAt     *time.Time            `json:"deleted_at,omitempty"`
	History       []AddressHistoryEntry `json:"address_history"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// IsActive reports whether the address is currently monitored: a street
// address is present, the record is not deleted and the most recent history
// entry, if any, has been closed. A nil record is inactive.
func (a *AddressRecord) IsActive() bool {
	if a == nil || strings.TrimSpace(a.StreetAddress) == "" || a.DeletedAt != nil {
		return false
	}
	if len(a.History) == 0 {
		return true
	}
	return a.History[len(a.History)-1].DeletedAt != nil
}
