package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded for grading events.
const (
	ActionEvaluationGraded   = "evaluation.graded"
	ActionEvaluationRegraded = "evaluation.regraded"
)

// AuditLog captures auditable grading events: who graded what, in which
// capacity, and the resulting grade. Regrades keep the trail of replaced
// evaluations that the storage layer itself no longer holds.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   *uint             `json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}
