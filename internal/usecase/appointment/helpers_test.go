package appointment

import (
	"sync"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	"github.com/vagabondbarber/booking-api/internal/authz"
	dbpkg "github.com/vagabondbarber/booking-api/internal/db"
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

	// The same partial unique indexes production runs with; sqlite
	// supports them too.
	if err := dbpkg.EnsureBookingConstraints(db); err != nil {
		t.Fatalf("constraints: %v", err)
	}

	return db
}

func newAudit(db *gorm.DB) *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(db))
}

// recordingNotifier captures dispatched SMS for assertions.
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

// ---------- seeding ----------

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

func seedClient(t *testing.T, db *gorm.DB, name, phone string) models.User {
	t.Helper()
	return seedUser(t, db, name, phone,
		[]string{authz.RoleUser},
		[]string{authz.PermCreateAppointment},
	)
}

func seedBarber(t *testing.T, db *gorm.DB, name, phone string) (models.User, models.Barber) {
	t.Helper()

	user := seedUser(t, db, name, phone,
		[]string{authz.RoleUser, authz.RoleBarber},
		[]string{
			authz.PermCreateAppointment,
			authz.PermUpdateAppointments,
			authz.PermViewAppointments,
		},
	)

	barber := models.Barber{UserID: user.ID}
	if err := db.Create(&barber).Error; err != nil {
		t.Fatalf("seed barber %s: %v", name, err)
	}
	return user, barber
}

func seedService(t *testing.T, db *gorm.DB, name string, price float64, durationMin int) models.Service {
	t.Helper()

	service := models.Service{
		Name:        name,
		Price:       price,
		DurationMin: durationMin,
		Active:      true,
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("seed service %s: %v", name, err)
	}
	return service
}

func seedAppointment(
	t *testing.T,
	db *gorm.DB,
	client models.User,
	barber models.Barber,
	date time.Time,
	status string,
) models.Appointment {
	t.Helper()

	ap := models.Appointment{
		UserID:   client.ID,
		BarberID: barber.ID,
		Date:     date,
		Status:   status,
	}
	if err := db.Create(&ap).Error; err != nil {
		t.Fatalf("seed appointment at %v: %v", date, err)
	}
	return ap
}

func actorFor(user models.User) authz.Actor {
	return authz.Actor{
		ID:          user.ID,
		Roles:       []string(user.Roles),
		Permissions: []string(user.Permissions),
	}
}

func slotAt(t *testing.T, year int, month time.Month, day, hour int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
