package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	"github.com/vagabondbarber/booking-api/internal/authz"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/models"
)

// SuspendUser flips the suspension flag. Suspended users keep their data
// but cannot log in. Admins cannot be suspended.
type SuspendUser struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewSuspendUser(db *gorm.DB, auditor *audit.Dispatcher) *SuspendUser {
	return &SuspendUser{db: db, audit: auditor}
}

func (uc *SuspendUser) Execute(
	ctx context.Context,
	actor authz.Actor,
	userID string,
	suspend bool,
) error {

	if !actor.IsAdmin() {
		return httperr.ErrBusiness(httperr.CodePermissionDenied)
	}

	var user models.User
	if err := uc.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return err
	}

	if user.HasRole(authz.RoleAdmin) {
		return httperr.ErrBusiness(httperr.CodeInvalidOperation)
	}

	if err := uc.db.WithContext(ctx).
		Model(&user).
		Update("is_suspended", suspend).Error; err != nil {
		return err
	}

	action := "user_suspended"
	if !suspend {
		action = "user_unsuspended"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   action,
		Entity:   "user",
		EntityID: &user.ID,
	})

	return nil
}
