package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Testimonial struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Content string `gorm:"size:255;not null" json:"content"`

	UserID string `gorm:"type:uuid;not null" json:"user_id"`
	User   User   `gorm:"constraint:OnDelete:CASCADE;" json:"user"`

	AppointmentID string `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
