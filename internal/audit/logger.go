package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/maxiG180/trimminflow/internal/models"
)

// Logger persists audit events into audit_logs.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Record(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		BarbershopID:  ev.BarbershopID,
		UserID:        ev.UserID,
		Action:        ev.Action,
		CorrelationID: ev.CorrelationID,
		Entity:        ev.Entity,
		EntityID:      ev.EntityID,
		Metadata:      metaJSON,
	}

	return l.db.WithContext(ctx).Create(&log).Error
}
