package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jubahomez/jubahomez-backend/pkg/enums"
)

// ViewingRequest is a (possibly anonymous) ask to view a property. The
// recipient is the property's broker or owner. Seq feeds the public
// VR-<year>-<seq> reference.
type ViewingRequest struct {
	ID                 uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Seq                int64                      `gorm:"column:seq;autoIncrement;uniqueIndex" json:"-"`
	PropertyID         uuid.UUID                  `gorm:"type:uuid;not null;index" json:"propertyId"`
	RecipientUserID    uuid.UUID                  `gorm:"column:recipient_user_id;type:uuid;not null;index" json:"recipientUserId"`
	RequesterUserID    *uuid.UUID                 `gorm:"column:requester_user_id;type:uuid" json:"requesterUserId"`
	RequesterName      string                     `gorm:"column:requester_name;type:text;not null" json:"requesterName"`
	RequesterEmail     string                     `gorm:"column:requester_email;type:text;not null" json:"requesterEmail"`
	RequesterPhone     string                     `gorm:"column:requester_phone;type:text;not null" json:"requesterPhone"`
	PreferredDatesJSON *string                    `gorm:"column:preferred_dates_json;type:text" json:"preferredDates"`
	Message            *string                    `gorm:"type:text" json:"message"`
	Status             enums.ViewingRequestStatus `gorm:"type:viewing_request_status;not null;default:'pending'" json:"status"`
	CreatedAt          time.Time                  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
