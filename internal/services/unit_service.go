package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
	"github.com/casafolio/go-property-backend/internal/pagination"
	"github.com/casafolio/go-property-backend/internal/repo"
)

// UnitCreate is the creation payload for a unit.
type UnitCreate struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
	Label      string `json:"label" binding:"required,min=1,max=64"`
	Bedrooms   int    `json:"bedrooms" binding:"omitempty,min=0,max=50"`
	Bathrooms  int    `json:"bathrooms" binding:"omitempty,min=0,max=50"`
	SquareFeet int    `json:"square_feet" binding:"omitempty,min=0"`
	RentCents  int64  `json:"rent_cents" binding:"omitempty,min=0"`
	Status     string `json:"status" binding:"omitempty,oneof=vacant occupied maintenance"`
}

// UnitUpdate is the partial-update payload; nil fields stay unchanged.
type UnitUpdate struct {
	Label      *string `json:"label" binding:"omitempty,min=1,max=64"`
	Bedrooms   *int    `json:"bedrooms" binding:"omitempty,min=0,max=50"`
	Bathrooms  *int    `json:"bathrooms" binding:"omitempty,min=0,max=50"`
	SquareFeet *int    `json:"square_feet" binding:"omitempty,min=0"`
	RentCents  *int64  `json:"rent_cents" binding:"omitempty,min=0"`
	Status     *string `json:"status" binding:"omitempty,oneof=vacant occupied maintenance"`
}

// UnitQuery is the list-query payload for units.
type UnitQuery struct {
	pagination.ListQuery
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=vacant occupied maintenance"`
}

var unitListOptions = repo.ListOptions{
	SearchColumns: []string{"label"},
	SortColumns: map[string]string{
		"label":      "label",
		"rent":       "rent_cents",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultSort: "created_at",
}

// UnitService serves owner-scoped unit CRUD.
type UnitService struct {
	db *gorm.DB
}

// NewUnitService constructs a UnitService.
func NewUnitService(db *gorm.DB) *UnitService {
	return &UnitService{db: db}
}

// FindAllByOwner lists the owner's units.
func (s *UnitService) FindAllByOwner(ctx context.Context, ownerID string, q UnitQuery) (pagination.Page[domain.Unit], error) {
	opt := unitListOptions
	opt.Filters = map[string]string{"property_id": q.PropertyID, "status": q.Status}
	page, err := repo.ListOwned[domain.Unit](ctx, s.db, ownerID, q.List(), opt)
	return page, mapRepoErr(err, "unit")
}

// ListByProperty lists the units of one of the owner's properties. The
// parent lookup runs first so a foreign property reports not-found rather
// than an empty page.
func (s *UnitService) ListByProperty(ctx context.Context, propertyID, ownerID string, q UnitQuery) (pagination.Page[domain.Unit], error) {
	if _, err := repo.GetOwned[domain.Property](ctx, s.db, propertyID, ownerID); err != nil {
		return pagination.Page[domain.Unit]{}, mapRepoErr(err, "property")
	}
	q.PropertyID = propertyID
	return s.FindAllByOwner(ctx, ownerID, q)
}

// FindByID fetches one of the owner's units.
func (s *UnitService) FindByID(ctx context.Context, id, ownerID string) (*domain.Unit, error) {
	row, err := repo.GetOwned[domain.Unit](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "unit")
	}
	return row, nil
}

// Create persists a new unit under one of the owner's properties. The parent
// must belong to the same owner; a foreign property id reports as a
// validation failure on the field, not as a 404, since the unit itself does
// not exist yet.
func (s *UnitService) Create(ctx context.Context, ownerID string, in UnitCreate) (*domain.Unit, error) {
	if _, err := repo.GetOwned[domain.Property](ctx, s.db, in.PropertyID, ownerID); err != nil {
		return nil, faults.Invalid("request body is invalid", faults.Issue{
			Path: "property_id", Message: "unknown property", Code: "exists",
		})
	}

	status := in.Status
	if status == "" {
		status = "vacant"
	}
	row := domain.Unit{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		PropertyID: in.PropertyID,
		Label:      in.Label,
		Bedrooms:   in.Bedrooms,
		Bathrooms:  in.Bathrooms,
		SquareFeet: in.SquareFeet,
		RentCents:  in.RentCents,
		Status:     status,
	}
	if err := repo.Insert(ctx, s.db, &row); err != nil {
		return nil, mapRepoErr(err, "unit")
	}
	return &row, nil
}

// Update applies the non-nil fields and returns the updated row.
func (s *UnitService) Update(ctx context.Context, id, ownerID string, in UnitUpdate) (*domain.Unit, error) {
	row, err := repo.GetOwned[domain.Unit](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "unit")
	}

	applyString(&row.Label, in.Label)
	applyInt(&row.Bedrooms, in.Bedrooms)
	applyInt(&row.Bathrooms, in.Bathrooms)
	applyInt(&row.SquareFeet, in.SquareFeet)
	applyInt64(&row.RentCents, in.RentCents)
	applyString(&row.Status, in.Status)

	if err := repo.Save(ctx, s.db, row); err != nil {
		return nil, mapRepoErr(err, "unit")
	}
	return row, nil
}

// Delete soft-deletes one of the owner's units.
func (s *UnitService) Delete(ctx context.Context, id, ownerID string) error {
	return mapRepoErr(repo.DeleteOwned[domain.Unit](ctx, s.db, id, ownerID), "unit")
}
