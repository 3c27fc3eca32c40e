package domain

import "time"

// AuditFields carries the who/when bookkeeping shared by every persisted
// entity. The By fields hold user IDs.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
