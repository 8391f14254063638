// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pocketledger/backend/internal/domain/entity"
)

// EntryModel represents the entries table in the database.
type EntryModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"type:varchar(3);not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Date      *time.Time      `gorm:"type:timestamp;index"` // Null when the upstream date was unresolvable
	Category  string          `gorm:"type:varchar(100);not null;index"`
	Currency  string          `gorm:"type:varchar(3);not null"`
	Note      string          `gorm:"type:text"`
	Tags      pq.StringArray  `gorm:"type:text[]"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
	DeletedAt gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the EntryModel.
func (EntryModel) TableName() string {
	return "entries"
}

// ToEntity converts an EntryModel to a domain Entry entity.
func (m *EntryModel) ToEntity() *entity.Entry {
	var date time.Time
	if m.Date != nil {
		date = *m.Date
	}

	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Entry{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      entity.EntryType(m.Type),
		Amount:    m.Amount,
		Date:      date,
		Category:  m.Category,
		Currency:  m.Currency,
		Note:      m.Note,
		Tags:      m.Tags,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAt,
	}
}

// EntryFromEntity creates an EntryModel from a domain Entry entity.
func EntryFromEntity(e *entity.Entry) *EntryModel {
	var date *time.Time
	if !e.Date.IsZero() {
		d := e.Date
		date = &d
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	return &EntryModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Type:      string(e.Type),
		Amount:    e.Amount,
		Date:      date,
		Category:  e.Category,
		Currency:  e.Currency,
		Note:      e.Note,
		Tags:      e.Tags,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		DeletedAt: deletedAt,
	}
}
