package admin

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	"github.com/vagabondbarber/booking-api/internal/authz"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/models"
	"github.com/vagabondbarber/booking-api/internal/notify"
)

// ChangeRole promotes a user to barber or demotes a barber back to plain
// user. Demotion is a cascade: it snapshots the barber's appointments with
// their clients before any destructive write, runs profile + appointment
// deletion and permission narrowing in one transaction, and only then
// notifies from the snapshot.
type ChangeRole struct {
	db       *gorm.DB
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewChangeRole(
	db *gorm.DB,
	notifier notify.Notifier,
	auditor *audit.Dispatcher,
) *ChangeRole {
	return &ChangeRole{
		db:       db,
		notifier: notifier,
		audit:    auditor,
	}
}

func (uc *ChangeRole) Execute(
	ctx context.Context,
	actor authz.Actor,
	userID string,
	newRole string,
) error {

	if !actor.IsAdmin() {
		return httperr.ErrBusiness(httperr.CodePermissionDenied)
	}

	if newRole != authz.RoleUser && newRole != authz.RoleBarber {
		return httperr.ErrBusiness(httperr.CodeInvalidOperation)
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

	switch {
	case newRole == authz.RoleBarber && !user.HasRole(authz.RoleBarber):
		return uc.promote(ctx, actor, &user)
	case newRole == authz.RoleUser && user.HasRole(authz.RoleBarber):
		return uc.demote(ctx, actor, &user)
	}

	// already holding the requested role
	return nil
}

func (uc *ChangeRole) promote(
	ctx context.Context,
	actor authz.Actor,
	user *models.User,
) error {

	roles := append([]string(user.Roles), authz.RoleBarber)
	perms := append([]string(user.Permissions),
		authz.PermUpdateAppointments,
		authz.PermViewAppointments,
	)

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Updates(map[string]any{
			"roles":       datatypes.NewJSONSlice(roles),
			"permissions": datatypes.NewJSONSlice(perms),
		}).Error; err != nil {
			return err
		}

		return tx.Create(&models.Barber{UserID: user.ID}).Error
	})
	if err != nil {
		return err
	}

	uc.notifier.Dispatch(user.PhoneNumber,
		"Congratulations! You have been promoted to barber. Log in to your account to complete your profile.")

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "user_promoted",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return nil
}

func (uc *ChangeRole) demote(
	ctx context.Context,
	actor authz.Actor,
	user *models.User,
) error {

	var barber models.Barber
	if err := uc.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		First(&barber).Error; err != nil {
		return err
	}

	// Snapshot before the destructive writes; notifications go out from
	// this snapshot after the transaction commits.
	var affected []models.Appointment
	if err := uc.db.WithContext(ctx).
		Preload("User").
		Where("barber_id = ?", barber.ID).
		Find(&affected).Error; err != nil {
		return err
	}

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		if r != authz.RoleBarber {
			roles = append(roles, r)
		}
	}

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(affected) > 0 {
			ids := make([]string, 0, len(affected))
			for _, ap := range affected {
				ids = append(ids, ap.ID)
			}
			if err := tx.Exec(
				"DELETE FROM appointment_services WHERE appointment_id IN ?", ids,
			).Error; err != nil {
				return err
			}
			if err := tx.Where("barber_id = ?", barber.ID).
				Delete(&models.Appointment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&barber).Error; err != nil {
			return err
		}

		return tx.Model(user).Updates(map[string]any{
			"roles":       datatypes.NewJSONSlice(roles),
			"permissions": datatypes.NewJSONSlice([]string{authz.PermCreateAppointment}),
		}).Error
	})
	if err != nil {
		return err
	}

	uc.notifier.Dispatch(user.PhoneNumber,
		"Your role has been changed to client. All your appointments have been cancelled.")

	for _, ap := range affected {
		uc.notifier.Dispatch(ap.User.PhoneNumber, fmt.Sprintf(
			"Your appointment on %s at %s has been cancelled because the barber is no longer available.",
			ap.Date.Format("02.01.2006"), ap.Date.Format("15:04"),
		))
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "user_demoted",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"cancelled_appointments": len(affected)},
	})

	return nil
}
