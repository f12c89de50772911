package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-reservations/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write collides with a unique constraint,
	// e.g. two reservations racing for the same table, date and slot.
	ErrConflict = errors.New("unique constraint conflict")
)

// Store is the entity store for customers, tables, staff, users and
// reservations. A Store returned by Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn in a single database transaction. The transaction is
// rolled back when fn returns an error or ctx is cancelled before commit.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps driver errors onto the store's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicateKey(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "unique constraint") || strings.Contains(lc, "duplicate entry")
}

// NormalizeEmail is the stored form of an email: trimmed and lower-cased,
// so the unique indexes on email hold for case variants too.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ---- Tables ----

func (s *Store) CreateTable(ctx context.Context, t *models.Table) error {
	if t.Capacity < 1 {
		return fmt.Errorf("table capacity must be positive, got %d", t.Capacity)
	}
	return translate(s.conn(ctx).Omit(clause.Associations).Create(t).Error)
}

func (s *Store) GetTable(ctx context.Context, id uint) (models.Table, error) {
	var t models.Table
	err := s.conn(ctx).First(&t, id).Error
	return t, translate(err)
}

func (s *Store) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.conn(ctx).Order("capacity ASC, id ASC").Find(&tables).Error
	return tables, translate(err)
}

// TablesWithCapacity returns tables seating at least minCapacity, smallest
// first, ties broken by id.
func (s *Store) TablesWithCapacity(ctx context.Context, minCapacity int) ([]models.Table, error) {
	var tables []models.Table
	err := s.conn(ctx).
		Where("capacity >= ?", minCapacity).
		Order("capacity ASC, id ASC").
		Find(&tables).Error
	return tables, translate(err)
}

func (s *Store) UpdateTableCapacity(ctx context.Context, id uint, capacity int) (models.Table, error) {
	if capacity < 1 {
		return models.Table{}, fmt.Errorf("table capacity must be positive, got %d", capacity)
	}
	res := s.conn(ctx).Model(&models.Table{}).Where("id = ?", id).Update("capacity", capacity)
	if res.Error != nil {
		return models.Table{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Table{}, ErrNotFound
	}
	return s.GetTable(ctx, id)
}

// DeleteTable removes the table and every reservation held on it.
func (s *Store) DeleteTable(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Where("table_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		res := tx.db.Delete(&models.Table{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---- Customers ----

func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	c.Email = NormalizeEmail(c.Email)
	return translate(s.conn(ctx).Omit(clause.Associations).Create(c).Error)
}

func (s *Store) GetCustomer(ctx context.Context, id uint) (models.Customer, error) {
	var c models.Customer
	err := s.conn(ctx).First(&c, id).Error
	return c, translate(err)
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (models.Customer, error) {
	var c models.Customer
	err := s.conn(ctx).Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).First(&c).Error
	return c, translate(err)
}

// ListCustomers returns customers ordered by name, skipping excluded emails.
func (s *Store) ListCustomers(ctx context.Context, excludeEmails []string) ([]models.Customer, error) {
	q := s.conn(ctx).Order("name ASC, id ASC")
	if len(excludeEmails) > 0 {
		q = q.Where("email NOT IN ?", excludeEmails)
	}
	var customers []models.Customer
	err := q.Find(&customers).Error
	return customers, translate(err)
}

func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	c.Email = NormalizeEmail(c.Email)
	res := s.conn(ctx).Model(&models.Customer{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":       c.Name,
		"phone":      c.Phone,
		"email":      c.Email,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCustomer removes the customer together with their reservations.
func (s *Store) DeleteCustomer(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Where("customer_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		res := tx.db.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---- Staff ----

func (s *Store) CreateStaff(ctx context.Context, st *models.Staff) error {
	st.Email = NormalizeEmail(st.Email)
	return translate(s.conn(ctx).Omit(clause.Associations).Create(st).Error)
}

func (s *Store) GetStaff(ctx context.Context, id uint) (models.Staff, error) {
	var st models.Staff
	err := s.conn(ctx).First(&st, id).Error
	return st, translate(err)
}

func (s *Store) FindStaffByEmail(ctx context.Context, email string) (models.Staff, error) {
	var st models.Staff
	err := s.conn(ctx).Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).First(&st).Error
	return st, translate(err)
}

func (s *Store) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	err := s.conn(ctx).Order("name ASC, id ASC").Find(&staff).Error
	return staff, translate(err)
}

func (s *Store) UpdateStaff(ctx context.Context, st *models.Staff) error {
	st.Email = NormalizeEmail(st.Email)
	res := s.conn(ctx).Model(&models.Staff{}).Where("id = ?", st.ID).Updates(map[string]interface{}{
		"name":       st.Name,
		"email":      st.Email,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStaff removes the staff record; reservations they handled keep
// existing with a cleared staff reference.
func (s *Store) DeleteStaff(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Model(&models.Reservation{}).Where("staff_id = ?", id).Update("staff_id", nil).Error; err != nil {
			return err
		}
		res := tx.db.Delete(&models.Staff{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---- Users ----

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	return translate(s.conn(ctx).Create(u).Error)
}

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := s.conn(ctx).First(&u, id).Error
	return u, translate(err)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.conn(ctx).Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).First(&u).Error
	return u, translate(err)
}

// EmailsWithRoles lists the login emails holding any of the given roles.
func (s *Store) EmailsWithRoles(ctx context.Context, roles ...models.Role) ([]string, error) {
	var emails []string
	err := s.conn(ctx).Model(&models.User{}).Where("role IN ?", roles).Pluck("email", &emails).Error
	return emails, translate(err)
}

func (s *Store) DeleteUserByEmail(ctx context.Context, email string) error {
	return translate(s.conn(ctx).Where("LOWER(email) = LOWER(?)", email).Delete(&models.User{}).Error)
}

// ---- Reservations ----

// ReservationFilter narrows ListReservations. Zero values mean "any".
type ReservationFilter struct {
	CustomerID uint
	Date       *time.Time
}

func (s *Store) CreateReservation(ctx context.Context, r *models.Reservation) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(r).Error)
}

// UpdateReservation rewrites the bookable fields of an existing row.
func (s *Store) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	r.UpdatedAt = time.Now()
	res := s.conn(ctx).Model(&models.Reservation{}).Where("id = ?", r.ID).Updates(map[string]interface{}{
		"table_id":         r.TableID,
		"staff_id":         r.StaffID,
		"reservation_date": r.ReservationDate,
		"time_slot":        r.TimeSlot,
		"number_of_guests": r.NumberOfGuests,
		"updated_at":       r.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetReservation(ctx context.Context, id uint) (models.Reservation, error) {
	var r models.Reservation
	err := s.conn(ctx).Preload("Customer").Preload("Table").Preload("Staff").First(&r, id).Error
	return r, translate(err)
}

// DeleteReservation reports whether a row was removed.
func (s *Store) DeleteReservation(ctx context.Context, id uint) (bool, error) {
	res := s.conn(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := s.conn(ctx).Preload("Customer").Preload("Table").Preload("Staff")
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Date != nil {
		q = q.Where("reservation_date = ?", *f.Date)
	}
	var out []models.Reservation
	err := q.Order("reservation_date ASC, time_slot ASC, id ASC").Find(&out).Error
	return out, translate(err)
}

// CountReservationsAt counts reservations holding tableID at date/slot,
// ignoring excludeID (0 excludes nothing).
func (s *Store) CountReservationsAt(ctx context.Context, tableID uint, date time.Time, slot models.TimeSlot, excludeID uint) (int64, error) {
	var n int64
	q := s.conn(ctx).Model(&models.Reservation{}).
		Where("table_id = ? AND reservation_date = ? AND time_slot = ?", tableID, date, slot)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n, translate(err)
}

// CustomerHasReservationOn reports whether the customer already holds a
// reservation on date, ignoring excludeID.
func (s *Store) CustomerHasReservationOn(ctx context.Context, customerID uint, date time.Time, excludeID uint) (bool, error) {
	var n int64
	q := s.conn(ctx).Model(&models.Reservation{}).
		Where("customer_id = ? AND reservation_date = ?", customerID, date)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

// ---- Dashboard ----

// ReservationStats summarizes bookings for one service day.
type ReservationStats struct {
	TotalReservations    int64                     `json:"total_reservations"`
	DayReservations      int64                     `json:"day_reservations"`
	DayGuests            int64                     `json:"day_guests"`
	UpcomingReservations int64                     `json:"upcoming_reservations"`
	Tables               int64                     `json:"tables"`
	Seats                int64                     `json:"seats"`
	BookedPerSlot        map[models.TimeSlot]int64 `json:"booked_per_slot"`
}

// ReservationStats aggregates counts for day; upcoming means on or after day.
func (s *Store) ReservationStats(ctx context.Context, day time.Time) (ReservationStats, error) {
	stats := ReservationStats{BookedPerSlot: make(map[models.TimeSlot]int64, len(models.TimeSlots))}
	db := s.conn(ctx)

	if err := db.Model(&models.Reservation{}).Count(&stats.TotalReservations).Error; err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Reservation{}).Where("reservation_date = ?", day).Count(&stats.DayReservations).Error; err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Reservation{}).Where("reservation_date >= ?", day).Count(&stats.UpcomingReservations).Error; err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Reservation{}).Where("reservation_date = ?", day).
		Select("COALESCE(SUM(number_of_guests), 0)").Row().Scan(&stats.DayGuests); err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Table{}).Count(&stats.Tables).Error; err != nil {
		return stats, translate(err)
	}
	if err := db.Model(&models.Table{}).Select("COALESCE(SUM(capacity), 0)").Row().Scan(&stats.Seats); err != nil {
		return stats, translate(err)
	}

	var rows []struct {
		TimeSlot models.TimeSlot
		N        int64
	}
	err := db.Model(&models.Reservation{}).
		Select("time_slot, COUNT(*) AS n").
		Where("reservation_date = ?", day).
		Group("time_slot").
		Scan(&rows).Error
	if err != nil {
		return stats, translate(err)
	}
	for _, ts := range models.TimeSlots {
		stats.BookedPerSlot[ts] = 0
	}
	for _, r := range rows {
		stats.BookedPerSlot[r.TimeSlot] = r.N
	}
	return stats, nil
}
