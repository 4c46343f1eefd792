package admin

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	"github.com/vagabondbarber/booking-api/internal/authz"
	dbpkg "github.com/vagabondbarber/booking-api/internal/db"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Barber{},
		&models.Service{},
		&models.Appointment{},
		&models.Testimonial{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := dbpkg.EnsureBookingConstraints(db); err != nil {
		t.Fatalf("constraints: %v", err)
	}

	return db
}

func newAudit(db *gorm.DB) *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(db))
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	To   string
	Body string
}

func (r *recordingNotifier) Dispatch(to, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{To: to, Body: body})
}

func (r *recordingNotifier) messages() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentMessage, len(r.sent))
	copy(out, r.sent)
	return out
}

func seedUser(t *testing.T, db *gorm.DB, name, phone string, roles, perms []string) models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		PhoneNumber:  phone,
		Roles:        datatypes.NewJSONSlice(roles),
		Permissions:  datatypes.NewJSONSlice(perms),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	return seedUser(t, db, "admin", "40722000000",
		[]string{authz.RoleUser, authz.RoleAdmin},
		[]string{authz.PermCreateAppointment})
}

func seedClient(t *testing.T, db *gorm.DB, name, phone string) models.User {
	t.Helper()
	return seedUser(t, db, name, phone,
		[]string{authz.RoleUser},
		[]string{authz.PermCreateAppointment})
}

func seedWorkingBarber(t *testing.T, db *gorm.DB, name, phone string) (models.User, models.Barber) {
	t.Helper()

	user := seedUser(t, db, name, phone,
		[]string{authz.RoleUser, authz.RoleBarber},
		[]string{
			authz.PermCreateAppointment,
			authz.PermUpdateAppointments,
			authz.PermViewAppointments,
		})
	barber := models.Barber{UserID: user.ID}
	if err := db.Create(&barber).Error; err != nil {
		t.Fatalf("seed barber %s: %v", name, err)
	}
	return user, barber
}

func actorFor(user models.User) authz.Actor {
	return authz.Actor{
		ID:          user.ID,
		Roles:       []string(user.Roles),
		Permissions: []string(user.Permissions),
	}
}

func TestChangeRole_Promote(t *testing.T) {
	db := openTestDB(t)
	recorder := &recordingNotifier{}
	uc := NewChangeRole(db, recorder, newAudit(db))

	admin := seedAdmin(t, db)
	client := seedClient(t, db, "andrei", "40722000002")

	if err := uc.Execute(
		context.Background(), actorFor(admin), client.ID, authz.RoleBarber,
	); err != nil {
		t.Fatalf("promote: %v", err)
	}

	var updated models.User
	if err := db.First(&updated, "id = ?", client.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !updated.HasRole(authz.RoleBarber) {
		t.Fatalf("expected barber role, got %v", updated.Roles)
	}

	hasPerm := func(p string) bool {
		for _, have := range updated.Permissions {
			if have == p {
				return true
			}
		}
		return false
	}
	for _, p := range []string{
		authz.PermCreateAppointment,
		authz.PermUpdateAppointments,
		authz.PermViewAppointments,
	} {
		if !hasPerm(p) {
			t.Fatalf("expected permission %s after promotion, got %v", p, updated.Permissions)
		}
	}

	var barber models.Barber
	if err := db.First(&barber, "user_id = ?", client.ID).Error; err != nil {
		t.Fatalf("expected a barber profile: %v", err)
	}

	msgs := recorder.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(msgs))
	}
	if msgs[0].To != client.PhoneNumber {
		t.Fatalf("expected sms to the promoted user, got %s", msgs[0].To)
	}
}

func TestChangeRole_DemoteCascade(t *testing.T) {
	db := openTestDB(t)
	recorder := &recordingNotifier{}
	uc := NewChangeRole(db, recorder, newAudit(db))

	admin := seedAdmin(t, db)
	barberUser, barber := seedWorkingBarber(t, db, "marius", "40722000001")

	service := models.Service{Name: "Haircut", Price: 60, DurationMin: 30, Active: true}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}

	clients := make([]models.User, 0, 3)
	for i := 0; i < 3; i++ {
		client := seedClient(t, db,
			fmt.Sprintf("client%d", i), fmt.Sprintf("407220001%02d", i))
		clients = append(clients, client)

		ap := models.Appointment{
			UserID:   client.ID,
			BarberID: barber.ID,
			Date:     time.Date(2024, time.June, 10+i, 14, 0, 0, 0, time.UTC),
			Status:   "CONFIRMED",
			Services: []models.Service{service},
		}
		if err := db.Create(&ap).Error; err != nil {
			t.Fatalf("seed appointment %d: %v", i, err)
		}
	}

	if err := uc.Execute(
		context.Background(), actorFor(admin), barberUser.ID, authz.RoleUser,
	); err != nil {
		t.Fatalf("demote: %v", err)
	}

	var appointments int64
	if err := db.Model(&models.Appointment{}).
		Where("barber_id = ?", barber.ID).Count(&appointments).Error; err != nil {
		t.Fatalf("count appointments: %v", err)
	}
	if appointments != 0 {
		t.Fatalf("expected all appointments removed, got %d", appointments)
	}

	var joinRows int64
	if err := db.Table("appointment_services").Count(&joinRows).Error; err != nil {
		t.Fatalf("count join rows: %v", err)
	}
	if joinRows != 0 {
		t.Fatalf("expected appointment_services cleared, got %d", joinRows)
	}

	var profiles int64
	if err := db.Model(&models.Barber{}).
		Where("user_id = ?", barberUser.ID).Count(&profiles).Error; err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if profiles != 0 {
		t.Fatalf("expected barber profile removed, got %d", profiles)
	}

	var updated models.User
	if err := db.First(&updated, "id = ?", barberUser.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.HasRole(authz.RoleBarber) {
		t.Fatalf("expected barber role removed, got %v", updated.Roles)
	}
	if len(updated.Permissions) != 1 || updated.Permissions[0] != authz.PermCreateAppointment {
		t.Fatalf("expected permissions narrowed to create_appointment, got %v", updated.Permissions)
	}

	// One sms to the demoted barber plus one per affected client.
	msgs := recorder.messages()
	if len(msgs) != 1+len(clients) {
		t.Fatalf("expected %d notifications, got %d", 1+len(clients), len(msgs))
	}
	if msgs[0].To != barberUser.PhoneNumber {
		t.Fatalf("expected first sms to the demoted barber, got %s", msgs[0].To)
	}
	notified := map[string]bool{}
	for _, m := range msgs[1:] {
		notified[m.To] = true
	}
	for _, c := range clients {
		if !notified[c.PhoneNumber] {
			t.Fatalf("expected client %s to be notified", c.Name)
		}
	}
}

func TestChangeRole_NonAdminDenied(t *testing.T) {
	db := openTestDB(t)
	uc := NewChangeRole(db, &recordingNotifier{}, newAudit(db))

	client := seedClient(t, db, "andrei", "40722000002")
	target := seedClient(t, db, "target", "40722000003")

	err := uc.Execute(
		context.Background(), actorFor(client), target.ID, authz.RoleBarber)
	if !httperr.IsBusiness(err, httperr.CodePermissionDenied) {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}

func TestChangeRole_AdminTargetRejected(t *testing.T) {
	db := openTestDB(t)
	uc := NewChangeRole(db, &recordingNotifier{}, newAudit(db))

	admin := seedAdmin(t, db)
	other := seedUser(t, db, "root2", "40722000009",
		[]string{authz.RoleUser, authz.RoleAdmin}, nil)

	err := uc.Execute(
		context.Background(), actorFor(admin), other.ID, authz.RoleUser)
	if !httperr.IsBusiness(err, httperr.CodeInvalidOperation) {
		t.Fatalf("expected invalid_operation, got %v", err)
	}
}

func TestChangeRole_UnknownRole(t *testing.T) {
	db := openTestDB(t)
	uc := NewChangeRole(db, &recordingNotifier{}, newAudit(db))

	admin := seedAdmin(t, db)
	client := seedClient(t, db, "andrei", "40722000002")

	err := uc.Execute(
		context.Background(), actorFor(admin), client.ID, "manager")
	if !httperr.IsBusiness(err, httperr.CodeInvalidOperation) {
		t.Fatalf("expected invalid_operation, got %v", err)
	}
}

func TestChangeRole_NoopWhenAlreadyHeld(t *testing.T) {
	db := openTestDB(t)
	recorder := &recordingNotifier{}
	uc := NewChangeRole(db, recorder, newAudit(db))

	admin := seedAdmin(t, db)
	client := seedClient(t, db, "andrei", "40722000002")

	if err := uc.Execute(
		context.Background(), actorFor(admin), client.ID, authz.RoleUser,
	); err != nil {
		t.Fatalf("noop demote: %v", err)
	}
	if got := len(recorder.messages()); got != 0 {
		t.Fatalf("expected no notifications on a no-op, got %d", got)
	}
}

func TestSuspendUser(t *testing.T) {
	db := openTestDB(t)
	uc := NewSuspendUser(db, newAudit(db))

	admin := seedAdmin(t, db)
	client := seedClient(t, db, "andrei", "40722000002")

	if err := uc.Execute(
		context.Background(), actorFor(admin), client.ID, true,
	); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	var updated models.User
	if err := db.First(&updated, "id = ?", client.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !updated.IsSuspended {
		t.Fatalf("expected is_suspended set")
	}

	if err := uc.Execute(
		context.Background(), actorFor(admin), client.ID, false,
	); err != nil {
		t.Fatalf("unsuspend: %v", err)
	}
	if err := db.First(&updated, "id = ?", client.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.IsSuspended {
		t.Fatalf("expected is_suspended cleared")
	}
}

func TestSuspendUser_AdminTargetRejected(t *testing.T) {
	db := openTestDB(t)
	uc := NewSuspendUser(db, newAudit(db))

	admin := seedAdmin(t, db)
	other := seedUser(t, db, "root2", "40722000009",
		[]string{authz.RoleUser, authz.RoleAdmin}, nil)

	err := uc.Execute(context.Background(), actorFor(admin), other.ID, true)
	if !httperr.IsBusiness(err, httperr.CodeInvalidOperation) {
		t.Fatalf("expected invalid_operation, got %v", err)
	}
}
