package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
	"github.com/casafolio/go-property-backend/internal/pagination"
	"github.com/casafolio/go-property-backend/internal/repo"
)

// leaseDateLayout is the wire format for lease dates.
const leaseDateLayout = "2006-01-02"

// LeaseCreate is the creation payload for a lease. Dates travel as
// YYYY-MM-DD strings and are range-checked here, not in the schema layer,
// because the constraint spans two fields.
type LeaseCreate struct {
	UnitID       string `json:"unit_id" binding:"required,uuid"`
	RenterID     string `json:"renter_id" binding:"required,uuid"`
	StartDate    string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" binding:"required,datetime=2006-01-02"`
	RentCents    int64  `json:"rent_cents" binding:"required,min=1"`
	DepositCents int64  `json:"deposit_cents" binding:"omitempty,min=0"`
}

// LeaseUpdate is the partial-update payload; nil fields stay unchanged.
type LeaseUpdate struct {
	StartDate    *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	RentCents    *int64  `json:"rent_cents" binding:"omitempty,min=1"`
	DepositCents *int64  `json:"deposit_cents" binding:"omitempty,min=0"`
	Status       *string `json:"status" binding:"omitempty,oneof=pending active expired terminated"`
}

// LeaseQuery is the list-query payload for leases.
type LeaseQuery struct {
	pagination.ListQuery
	UnitID   string `form:"unit_id" binding:"omitempty,uuid"`
	RenterID string `form:"renter_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=pending active expired terminated"`
}

var leaseListOptions = repo.ListOptions{
	SortColumns: map[string]string{
		"start_date": "start_date",
		"end_date":   "end_date",
		"rent":       "rent_cents",
		"created_at": "created_at",
	},
	DefaultSort: "start_date",
}

// LeaseService serves owner-scoped lease CRUD.
type LeaseService struct {
	db *gorm.DB
}

// NewLeaseService constructs a LeaseService.
func NewLeaseService(db *gorm.DB) *LeaseService {
	return &LeaseService{db: db}
}

// FindAllByOwner lists the owner's leases.
func (s *LeaseService) FindAllByOwner(ctx context.Context, ownerID string, q LeaseQuery) (pagination.Page[domain.Lease], error) {
	opt := leaseListOptions
	opt.Filters = map[string]string{"unit_id": q.UnitID, "renter_id": q.RenterID, "status": q.Status}
	page, err := repo.ListOwned[domain.Lease](ctx, s.db, ownerID, q.List(), opt)
	return page, mapRepoErr(err, "lease")
}

// FindByID fetches one of the owner's leases.
func (s *LeaseService) FindByID(ctx context.Context, id, ownerID string) (*domain.Lease, error) {
	row, err := repo.GetOwned[domain.Lease](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "lease")
	}
	return row, nil
}

// Create persists a new lease over one of the owner's units and renters.
func (s *LeaseService) Create(ctx context.Context, ownerID string, in LeaseCreate) (*domain.Lease, error) {
	start, end, err := parseLeaseRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := repo.GetOwned[domain.Unit](ctx, s.db, in.UnitID, ownerID); err != nil {
		return nil, faults.Invalid("request body is invalid", faults.Issue{
			Path: "unit_id", Message: "unknown unit", Code: "exists",
		})
	}
	if _, err := repo.GetOwned[domain.Renter](ctx, s.db, in.RenterID, ownerID); err != nil {
		return nil, faults.Invalid("request body is invalid", faults.Issue{
			Path: "renter_id", Message: "unknown renter", Code: "exists",
		})
	}

	row := domain.Lease{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		UnitID:       in.UnitID,
		RenterID:     in.RenterID,
		StartDate:    start,
		EndDate:      end,
		RentCents:    in.RentCents,
		DepositCents: in.DepositCents,
		Status:       "pending",
	}
	if err := repo.Insert(ctx, s.db, &row); err != nil {
		return nil, mapRepoErr(err, "lease")
	}
	return &row, nil
}

// Update applies the non-nil fields, re-checking the date range when either
// bound moves, and returns the updated row.
func (s *LeaseService) Update(ctx context.Context, id, ownerID string, in LeaseUpdate) (*domain.Lease, error) {
	row, err := repo.GetOwned[domain.Lease](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "lease")
	}

	start, end := row.StartDate, row.EndDate
	if in.StartDate != nil {
		if start, err = time.Parse(leaseDateLayout, *in.StartDate); err != nil {
			return nil, faults.Invalid("request body is invalid", faults.Issue{
				Path: "start_date", Message: "must be a date in 2006-01-02 format", Code: "datetime",
			})
		}
	}
	if in.EndDate != nil {
		if end, err = time.Parse(leaseDateLayout, *in.EndDate); err != nil {
			return nil, faults.Invalid("request body is invalid", faults.Issue{
				Path: "end_date", Message: "must be a date in 2006-01-02 format", Code: "datetime",
			})
		}
	}
	if !end.After(start) {
		return nil, faults.Invalid("request body is invalid", faults.Issue{
			Path: "end_date", Message: "must be after start_date", Code: "gtfield",
		})
	}

	row.StartDate, row.EndDate = start, end
	applyInt64(&row.RentCents, in.RentCents)
	applyInt64(&row.DepositCents, in.DepositCents)
	applyString(&row.Status, in.Status)

	if err := repo.Save(ctx, s.db, row); err != nil {
		return nil, mapRepoErr(err, "lease")
	}
	return row, nil
}

// Delete soft-deletes one of the owner's leases.
func (s *LeaseService) Delete(ctx context.Context, id, ownerID string) error {
	return mapRepoErr(repo.DeleteOwned[domain.Lease](ctx, s.db, id, ownerID), "lease")
}

// parseLeaseRange parses and orders the two lease dates.
func parseLeaseRange(startStr, endStr string) (start, end time.Time, err error) {
	if start, err = time.Parse(leaseDateLayout, startStr); err != nil {
		return start, end, faults.Invalid("request body is invalid", faults.Issue{
			Path: "start_date", Message: "must be a date in 2006-01-02 format", Code: "datetime",
		})
	}
	if end, err = time.Parse(leaseDateLayout, endStr); err != nil {
		return start, end, faults.Invalid("request body is invalid", faults.Issue{
			Path: "end_date", Message: "must be a date in 2006-01-02 format", Code: "datetime",
		})
	}
	if !end.After(start) {
		return start, end, faults.Invalid("request body is invalid", faults.Issue{
			Path: "end_date", Message: "must be after start_date", Code: "gtfield",
		})
	}
	return start, end, nil
}
