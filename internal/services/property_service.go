package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/pagination"
	"github.com/casafolio/go-property-backend/internal/repo"
)

// PropertyCreate is the creation payload for a property.
type PropertyCreate struct {
	Name         string `json:"name" binding:"required,min=1,max=255"`
	AddressLine1 string `json:"address_line1" binding:"required,max=255"`
	AddressLine2 string `json:"address_line2" binding:"omitempty,max=255"`
	City         string `json:"city" binding:"required,max=128"`
	Region       string `json:"region" binding:"omitempty,max=128"`
	PostalCode   string `json:"postal_code" binding:"required,max=32"`
	Country      string `json:"country" binding:"required,max=64"`
	Type         string `json:"type" binding:"required,oneof=apartment house condo townhouse commercial"`
	Notes        string `json:"notes" binding:"omitempty,max=4096"`
}

// PropertyUpdate is the partial-update payload; nil fields stay unchanged.
type PropertyUpdate struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	AddressLine1 *string `json:"address_line1" binding:"omitempty,max=255"`
	AddressLine2 *string `json:"address_line2" binding:"omitempty,max=255"`
	City         *string `json:"city" binding:"omitempty,max=128"`
	Region       *string `json:"region" binding:"omitempty,max=128"`
	PostalCode   *string `json:"postal_code" binding:"omitempty,max=32"`
	Country      *string `json:"country" binding:"omitempty,max=64"`
	Type         *string `json:"type" binding:"omitempty,oneof=apartment house condo townhouse commercial"`
	Notes        *string `json:"notes" binding:"omitempty,max=4096"`
}

// PropertyQuery is the list-query payload for properties.
type PropertyQuery struct {
	pagination.ListQuery
	City string `form:"city" binding:"omitempty,max=128"`
	Type string `form:"type" binding:"omitempty,oneof=apartment house condo townhouse commercial"`
}

var propertyListOptions = repo.ListOptions{
	SearchColumns: []string{"name", "address_line1", "city"},
	SortColumns: map[string]string{
		"name":       "name",
		"city":       "city",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	DefaultSort: "created_at",
}

// PropertyService serves owner-scoped property CRUD.
type PropertyService struct {
	db *gorm.DB
}

// NewPropertyService constructs a PropertyService.
func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

// FindAllByOwner lists the owner's properties.
func (s *PropertyService) FindAllByOwner(ctx context.Context, ownerID string, q PropertyQuery) (pagination.Page[domain.Property], error) {
	opt := propertyListOptions
	opt.Filters = map[string]string{"city": q.City, "type": q.Type}
	page, err := repo.ListOwned[domain.Property](ctx, s.db, ownerID, q.List(), opt)
	return page, mapRepoErr(err, "property")
}

// FindByID fetches one of the owner's properties.
func (s *PropertyService) FindByID(ctx context.Context, id, ownerID string) (*domain.Property, error) {
	row, err := repo.GetOwned[domain.Property](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "property")
	}
	return row, nil
}

// Create persists a new property for the owner.
func (s *PropertyService) Create(ctx context.Context, ownerID string, in PropertyCreate) (*domain.Property, error) {
	row := domain.Property{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Name:         in.Name,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		Region:       in.Region,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
		Type:         in.Type,
		Notes:        in.Notes,
	}
	if err := repo.Insert(ctx, s.db, &row); err != nil {
		return nil, mapRepoErr(err, "property")
	}
	return &row, nil
}

// Update applies the non-nil fields and returns the updated row.
func (s *PropertyService) Update(ctx context.Context, id, ownerID string, in PropertyUpdate) (*domain.Property, error) {
	row, err := repo.GetOwned[domain.Property](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "property")
	}

	applyString(&row.Name, in.Name)
	applyString(&row.AddressLine1, in.AddressLine1)
	applyString(&row.AddressLine2, in.AddressLine2)
	applyString(&row.City, in.City)
	applyString(&row.Region, in.Region)
	applyString(&row.PostalCode, in.PostalCode)
	applyString(&row.Country, in.Country)
	applyString(&row.Type, in.Type)
	applyString(&row.Notes, in.Notes)

	if err := repo.Save(ctx, s.db, row); err != nil {
		return nil, mapRepoErr(err, "property")
	}
	return row, nil
}

// Delete soft-deletes one of the owner's properties.
func (s *PropertyService) Delete(ctx context.Context, id, ownerID string) error {
	return mapRepoErr(repo.DeleteOwned[domain.Property](ctx, s.db, id, ownerID), "property")
}
