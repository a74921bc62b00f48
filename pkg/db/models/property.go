package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// Property is a listing. Exactly one of OwnerID/BrokerID is set and acts as
// the responsible party for notification routing. Soft-deleted rows are
// excluded from every read path.
type Property struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title          string               `gorm:"type:text;not null" json:"title"`
	Description    *string              `gorm:"type:text" json:"description"`
	Type           enums.PropertyType   `gorm:"type:property_type;not null" json:"type"`
	Price          decimal.Decimal      `gorm:"type:numeric(14,2);not null" json:"price"`
	Location       string               `gorm:"type:text;not null" json:"location"`
	AreaSqm        *float64             `gorm:"column:area_sqm" json:"areaSqm"`
	OwnerID        *uuid.UUID           `gorm:"type:uuid" json:"ownerId"`
	BrokerID       *uuid.UUID           `gorm:"type:uuid" json:"brokerId"`
	ApprovalStatus enums.ApprovalStatus `gorm:"type:approval_status;not null;default:'pending'" json:"approvalStatus"`
	DeletedAt      *time.Time           `gorm:"column:deleted_at" json:"-"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// ResponsibleParty returns the broker when assigned, falling back to the
// owner. Nil when the property has neither.
func (p Property) ResponsibleParty() *uuid.UUID {
	if p.BrokerID != nil {
		return p.BrokerID
	}
	return p.OwnerID
}
