package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

// allocationAttempts is the number of transactions tried before a lost
// commit race is reported as exhausted capacity.
const allocationAttempts = 2

type CreateInput struct {
	// CustomerID is optional for staff and admins booking for themselves.
	CustomerID uint
	Date       time.Time
	TimeSlot   models.TimeSlot
	Guests     int
}

type EditInput struct {
	Date     time.Time
	TimeSlot models.TimeSlot
	Guests   int
}

// ReservationService coordinates validation, table allocation,
// persistence and notification for every reservation change.
type ReservationService struct {
	store     *database.Store
	resolver  *AvailabilityResolver
	validator *ReservationValidator
	locks     *SlotLocker
	publisher Publisher
	now       func() time.Time
	loc       *time.Location
}

type Option func(*ReservationService)

func WithClock(now func() time.Time) Option {
	return func(s *ReservationService) { s.now = now }
}

// WithLocation sets the restaurant's time zone used for "today".
func WithLocation(loc *time.Location) Option {
	return func(s *ReservationService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *ReservationService) { s.publisher = p }
}

func NewReservationService(store *database.Store, opts ...Option) *ReservationService {
	s := &ReservationService{
		store:     store,
		resolver:  NewAvailabilityResolver(),
		validator: NewValidator(),
		locks:     NewSlotLocker(),
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseRequest turns raw date and time slot strings into typed values.
// Anything outside the accepted formats is ErrMalformedInput.
func ParseRequest(date, slot string) (time.Time, models.TimeSlot, error) {
	d, err := models.ParseDate(date)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	ts, err := models.ParseTimeSlot(slot)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return d, ts, nil
}

func checkWellFormed(date time.Time, slot models.TimeSlot) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("%w: reservation date is required", ErrMalformedInput)
	}
	if _, err := models.ParseTimeSlot(string(slot)); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ResolveRequester links an authenticated identity to its customer and
// staff records. Missing records leave the ids empty.
func (s *ReservationService) ResolveRequester(ctx context.Context, id Identity) (Requester, error) {
	req := Requester{Role: id.Role, Email: strings.TrimSpace(id.Email)}
	if req.Role == models.RoleAnonymous || req.Email == "" {
		return Requester{Role: models.RoleAnonymous}, nil
	}

	c, err := s.store.FindCustomerByEmail(ctx, req.Email)
	switch {
	case err == nil:
		req.CustomerID = c.ID
	case !errors.Is(err, database.ErrNotFound):
		return Requester{}, fmt.Errorf("resolve customer: %w", err)
	}

	if req.Role.IsStaffOrAdmin() {
		st, err := s.store.FindStaffByEmail(ctx, req.Email)
		switch {
		case err == nil:
			staffID := st.ID
			req.StaffID = &staffID
		case !errors.Is(err, database.ErrNotFound):
			return Requester{}, fmt.Errorf("resolve staff: %w", err)
		}
	}
	return req, nil
}

// EnsureCustomer returns the customer for email, creating a placeholder
// profile when none exists.
func (s *ReservationService) EnsureCustomer(ctx context.Context, email string) (models.Customer, error) {
	c, err := s.store.FindCustomerByEmail(ctx, email)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return models.Customer{}, err
	}

	c = models.Customer{Name: email, Phone: "N/A", Email: email}
	if err := s.store.CreateCustomer(ctx, &c); err != nil {
		// Request lain sudah membuatnya duluan
		if errors.Is(err, database.ErrConflict) {
			return s.store.FindCustomerByEmail(ctx, email)
		}
		return models.Customer{}, err
	}
	return c, nil
}

func (s *ReservationService) clock() (today, now time.Time) {
	now = s.now().In(s.loc)
	return models.DateOf(now, s.loc), now
}

func (s *ReservationService) customerFor(ctx context.Context, req Requester, requested uint) (models.Customer, error) {
	if !req.Role.IsStaffOrAdmin() {
		if req.CustomerID == 0 {
			return models.Customer{}, Violations{{Field: FieldCustomerID, Message: "No customer profile exists for your account."}}
		}
		if requested != 0 && requested != req.CustomerID {
			return models.Customer{}, ErrForbidden
		}
		return s.store.GetCustomer(ctx, req.CustomerID)
	}

	if requested == 0 {
		return s.EnsureCustomer(ctx, req.Email)
	}
	c, err := s.store.GetCustomer(ctx, requested)
	if errors.Is(err, database.ErrNotFound) {
		return models.Customer{}, Violations{{Field: FieldCustomerID, Message: "Customer does not exist."}}
	}
	return c, err
}

// CreateReservation validates the request, binds it to the smallest free
// table and persists it.
func (s *ReservationService) CreateReservation(ctx context.Context, req Requester, in CreateInput) (models.Reservation, error) {
	if req.Role == models.RoleAnonymous {
		return models.Reservation{}, ErrUnauthenticated
	}
	date, err := checkWellFormed(in.Date, in.TimeSlot)
	if err != nil {
		return models.Reservation{}, err
	}

	customer, err := s.customerFor(ctx, req, in.CustomerID)
	if err != nil {
		return models.Reservation{}, err
	}

	r := models.Reservation{
		CustomerID:      customer.ID,
		ReservationDate: date,
		TimeSlot:        in.TimeSlot,
		NumberOfGuests:  in.Guests,
	}
	if req.Role == models.RoleStaff && req.StaffID != nil {
		staffID := *req.StaffID
		r.StaffID = &staffID
	}

	unlockCustomer := s.locks.LockCustomerDay(customer.ID, date)
	defer unlockCustomer()
	unlockSlot := s.locks.LockSlot(date, in.TimeSlot)
	defer unlockSlot()

	today, now := s.clock()
	violations, err := s.validator.Validate(ctx, s.store, r, req.Role, today, now)
	if err != nil {
		return models.Reservation{}, err
	}
	if len(violations) > 0 {
		return models.Reservation{}, violations
	}

	err = s.allocate(ctx, &r, AvailabilityQuery{
		Date:      date,
		TimeSlot:  in.TimeSlot,
		PartySize: in.Guests,
	}, func(tx *database.Store, r *models.Reservation) error {
		r.ID = 0
		return tx.CreateReservation(ctx, r)
	})
	if err != nil {
		return models.Reservation{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"customer_id":    r.CustomerID,
		"table_id":       r.TableID,
		"date":           r.DateString(),
		"time_slot":      r.TimeSlot,
		"guests":         r.NumberOfGuests,
	}).Info("Reservation created")

	s.publish(newReservationEvent(ChangeCreated, r, customer))
	return s.reload(ctx, r)
}

// EditReservation changes date, slot and party size of an existing
// reservation. The id is kept; the table is kept when it still fits and is
// free, otherwise the smallest free table is assigned.
func (s *ReservationService) EditReservation(ctx context.Context, req Requester, id uint, in EditInput) (models.Reservation, error) {
	if req.Role == models.RoleAnonymous {
		return models.Reservation{}, ErrUnauthenticated
	}
	date, err := checkWellFormed(in.Date, in.TimeSlot)
	if err != nil {
		return models.Reservation{}, err
	}

	existing, err := s.store.GetReservation(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Reservation{}, ErrNotFound
	}
	if err != nil {
		return models.Reservation{}, err
	}
	if !CanModify(existing, req.Role, req.CustomerID) {
		return models.Reservation{}, ErrForbidden
	}

	r := models.Reservation{
		ID:              existing.ID,
		CustomerID:      existing.CustomerID,
		TableID:         existing.TableID,
		StaffID:         existing.StaffID,
		ReservationDate: date,
		TimeSlot:        in.TimeSlot,
		NumberOfGuests:  in.Guests,
		CreatedAt:       existing.CreatedAt,
	}
	if req.Role == models.RoleStaff && req.StaffID != nil {
		staffID := *req.StaffID
		r.StaffID = &staffID
	}

	unlockCustomer := s.locks.LockCustomerDay(r.CustomerID, date)
	defer unlockCustomer()
	unlockSlot := s.locks.LockSlot(date, in.TimeSlot)
	defer unlockSlot()

	today, now := s.clock()
	violations, err := s.validator.Validate(ctx, s.store, r, req.Role, today, now)
	if err != nil {
		return models.Reservation{}, err
	}
	if len(violations) > 0 {
		return models.Reservation{}, violations
	}

	err = s.allocate(ctx, &r, AvailabilityQuery{
		Date:                 date,
		TimeSlot:             in.TimeSlot,
		PartySize:            in.Guests,
		ExcludeReservationID: r.ID,
		PreferTableID:        existing.TableID,
	}, func(tx *database.Store, r *models.Reservation) error {
		return tx.UpdateReservation(ctx, r)
	})
	if errors.Is(err, database.ErrNotFound) {
		return models.Reservation{}, ErrNotFound
	}
	if err != nil {
		return models.Reservation{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"table_id":       r.TableID,
		"previous_table": existing.TableID,
		"date":           r.DateString(),
		"time_slot":      r.TimeSlot,
	}).Info("Reservation updated")

	var customer models.Customer
	if existing.Customer != nil {
		customer = *existing.Customer
	}
	s.publish(newReservationEvent(ChangeUpdated, r, customer))
	return s.reload(ctx, r)
}

// CancelReservation deletes the reservation. Cancelling something that no
// longer exists is acknowledged without error.
func (s *ReservationService) CancelReservation(ctx context.Context, req Requester, id uint) error {
	if req.Role == models.RoleAnonymous {
		return ErrUnauthenticated
	}

	existing, err := s.store.GetReservation(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !CanModify(existing, req.Role, req.CustomerID) {
		return ErrForbidden
	}

	removed, err := s.store.DeleteReservation(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel reservation %d: %w", id, err)
	}
	if !removed {
		return nil
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": id,
		"customer_id":    existing.CustomerID,
	}).Info("Reservation cancelled")

	var customer models.Customer
	if existing.Customer != nil {
		customer = *existing.Customer
	}
	s.publish(newReservationEvent(ChangeCancelled, existing, customer))
	return nil
}

// ListVisibleReservations returns what the requester may see, ordered by
// date and time slot.
func (s *ReservationService) ListVisibleReservations(ctx context.Context, req Requester) ([]models.Reservation, error) {
	var filter database.ReservationFilter
	switch {
	case req.Role.IsStaffOrAdmin():
	case req.Role == models.RoleCustomer && req.CustomerID != 0:
		filter.CustomerID = req.CustomerID
	default:
		return []models.Reservation{}, nil
	}

	rs, err := s.store.ListReservations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return Visible(rs, req.Role, req.CustomerID), nil
}

// GetReservation returns one reservation; ones the requester may not see
// are reported as not found.
func (s *ReservationService) GetReservation(ctx context.Context, req Requester, id uint) (models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Reservation{}, ErrNotFound
	}
	if err != nil {
		return models.Reservation{}, err
	}
	if !CanModify(r, req.Role, req.CustomerID) {
		return models.Reservation{}, ErrNotFound
	}
	return r, nil
}

// ReservationsOn lists every reservation on date for the floor sheet.
func (s *ReservationService) ReservationsOn(ctx context.Context, req Requester, date time.Time) ([]models.Reservation, error) {
	if !req.Role.IsStaffOrAdmin() {
		return nil, ErrForbidden
	}
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return s.store.ListReservations(ctx, database.ReservationFilter{Date: &d})
}

// allocate picks a table and writes r in one transaction. A unique index
// conflict at commit means another request took the table; the lost table
// is skipped and allocation is tried once more.
func (s *ReservationService) allocate(ctx context.Context, r *models.Reservation, q AvailabilityQuery, write func(tx *database.Store, r *models.Reservation) error) error {
	q.Skip = make(map[uint]bool)
	var lastErr error

	for attempt := 1; attempt <= allocationAttempts; attempt++ {
		err := s.store.Transaction(ctx, func(tx *database.Store) error {
			table, err := s.resolver.FindTable(ctx, tx, q)
			if err != nil {
				return err
			}
			r.TableID = table.ID
			return write(tx, r)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrNoTable):
			return &CapacityError{Cause: err}
		case errors.Is(err, database.ErrConflict):
			utils.InfoLogger.WithFields(logrus.Fields{
				"table_id":  r.TableID,
				"date":      q.Date.Format(models.DateLayout),
				"time_slot": q.TimeSlot,
				"attempt":   attempt,
			}).Warn("Table taken concurrently, retrying allocation")
			q.Skip[r.TableID] = true
			lastErr = err
		default:
			return err
		}
	}
	return &CapacityError{Cause: lastErr}
}

func (s *ReservationService) publish(ev ReservationEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ev)
}

func (s *ReservationService) reload(ctx context.Context, r models.Reservation) (models.Reservation, error) {
	full, err := s.store.GetReservation(ctx, r.ID)
	if err != nil {
		// Sudah tersimpan, kembalikan versi tanpa relasi
		utils.ErrorLogger.Errorf("Failed to reload reservation %d: %v", r.ID, err)
		return r, nil
	}
	return full, nil
}
