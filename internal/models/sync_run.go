package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncRun records the outcome of one sync execution. The newest row acts as
// the "last sync" marker the storefront and trigger worker consult.
type SyncRun struct {
	ID         string    `json:"id" gorm:"type:uuid;primary_key"`
	Trigger    string    `json:"trigger" gorm:"not null"`
	Success    bool      `json:"success"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Deleted    int       `json:"deleted"`
	Failed     int       `json:"failed"`
	Message    string    `json:"message"`
	DurationMS int64     `json:"duration_ms"`
	SyncedAt   time.Time `json:"synced_at"`
}

type SyncTrigger string

const (
	TriggerManual        SyncTrigger = "manual"
	TriggerScheduled     SyncTrigger = "scheduled"
	TriggerOpportunistic SyncTrigger = "opportunistic"
)

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
