package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-reservations/models"
)

var (
	// ErrNoTable is the resolver's "nothing suitable" answer.
	ErrNoTable = errors.New("no table available")
	// ErrNoTableLargeEnough: no table in the pool seats the party at all.
	ErrNoTableLargeEnough = fmt.Errorf("%w: no table seats that many guests", ErrNoTable)
	// ErrAllTablesBooked: suitable tables exist but all are taken for the slot.
	ErrAllTablesBooked = fmt.Errorf("%w: all suitable tables are booked", ErrNoTable)
)

// TableFinder is the slice of the entity store the resolver reads.
type TableFinder interface {
	TablesWithCapacity(ctx context.Context, minCapacity int) ([]models.Table, error)
	CountReservationsAt(ctx context.Context, tableID uint, date time.Time, slot models.TimeSlot, excludeID uint) (int64, error)
}

// AvailabilityQuery describes one table lookup.
type AvailabilityQuery struct {
	Date      time.Time
	TimeSlot  models.TimeSlot
	PartySize int
	// ExcludeReservationID is the reservation being edited; its own row
	// does not count as a conflict.
	ExcludeReservationID uint
	// PreferTableID is tried first when it is large enough and free.
	PreferTableID uint
	// Skip lists tables that already lost a commit race in this request.
	Skip map[uint]bool
}

// AvailabilityResolver picks the smallest free table for a party.
type AvailabilityResolver struct{}

func NewAvailabilityResolver() *AvailabilityResolver {
	return &AvailabilityResolver{}
}

// FindTable returns the first table, by capacity then id, with capacity at
// least PartySize and no reservation at (Date, TimeSlot). The answer is only
// a snapshot; callers must hold the slot lock and rely on the unique index.
func (r *AvailabilityResolver) FindTable(ctx context.Context, store TableFinder, q AvailabilityQuery) (models.Table, error) {
	tables, err := store.TablesWithCapacity(ctx, q.PartySize)
	if err != nil {
		return models.Table{}, fmt.Errorf("list candidate tables: %w", err)
	}
	if len(tables) == 0 {
		return models.Table{}, ErrNoTableLargeEnough
	}

	if q.PreferTableID != 0 && !q.Skip[q.PreferTableID] {
		for _, t := range tables {
			if t.ID != q.PreferTableID {
				continue
			}
			free, err := r.isFree(ctx, store, t.ID, q)
			if err != nil {
				return models.Table{}, err
			}
			if free {
				return t, nil
			}
			break
		}
	}

	for _, t := range tables {
		if q.Skip[t.ID] || t.ID == q.PreferTableID {
			continue
		}
		free, err := r.isFree(ctx, store, t.ID, q)
		if err != nil {
			return models.Table{}, err
		}
		if free {
			return t, nil
		}
	}
	return models.Table{}, ErrAllTablesBooked
}

func (r *AvailabilityResolver) isFree(ctx context.Context, store TableFinder, tableID uint, q AvailabilityQuery) (bool, error) {
	n, err := store.CountReservationsAt(ctx, tableID, q.Date, q.TimeSlot, q.ExcludeReservationID)
	if err != nil {
		return false, fmt.Errorf("count reservations on table %d: %w", tableID, err)
	}
	return n == 0, nil
}
