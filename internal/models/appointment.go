package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User   `gorm:"constraint:OnDelete:CASCADE;" json:"user"`

	BarberID string `gorm:"type:uuid;not null;index" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnDelete:CASCADE;" json:"barber"`

	// Date is the exact slot start. One hourly slot per appointment.
	Date   time.Time `gorm:"not null" json:"date"`
	Status string    `gorm:"size:20;default:'PENDING'" json:"status"`

	ExtraInfo string `gorm:"size:255" json:"extra_info"`

	Services []Service `gorm:"many2many:appointment_services;" json:"services"`

	Testimonial *Testimonial `json:"testimonial,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// TotalPrice and TotalDuration are derived from the selected services and
// never stored.

func (a *Appointment) TotalPrice() float64 {
	var total float64
	for _, s := range a.Services {
		total += s.Price
	}
	return total
}

func (a *Appointment) TotalDuration() int {
	var total int
	for _, s := range a.Services {
		total += s.DurationMin
	}
	return total
}
