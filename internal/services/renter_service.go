package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/pagination"
	"github.com/casafolio/go-property-backend/internal/repo"
)

// RenterCreate is the creation payload for a renter.
type RenterCreate struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=128"`
	LastName  string `json:"last_name" binding:"required,min=1,max=128"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
}

// RenterUpdate is the partial-update payload; nil fields stay unchanged.
type RenterUpdate struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=128"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=128"`
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
}

// RenterQuery is the list-query payload for renters.
type RenterQuery struct {
	pagination.ListQuery
}

var renterListOptions = repo.ListOptions{
	SearchColumns: []string{"first_name", "last_name", "email"},
	SortColumns: map[string]string{
		"first_name": "first_name",
		"last_name":  "last_name",
		"email":      "email",
		"created_at": "created_at",
	},
	DefaultSort: "created_at",
}

// RenterService serves owner-scoped renter CRUD. A renter's email is unique
// within one owner's book; collisions surface as conflict faults.
type RenterService struct {
	db *gorm.DB
}

// NewRenterService constructs a RenterService.
func NewRenterService(db *gorm.DB) *RenterService {
	return &RenterService{db: db}
}

// FindAllByOwner lists the owner's renters.
func (s *RenterService) FindAllByOwner(ctx context.Context, ownerID string, q RenterQuery) (pagination.Page[domain.Renter], error) {
	page, err := repo.ListOwned[domain.Renter](ctx, s.db, ownerID, q.List(), renterListOptions)
	return page, mapRepoErr(err, "renter")
}

// FindByID fetches one of the owner's renters.
func (s *RenterService) FindByID(ctx context.Context, id, ownerID string) (*domain.Renter, error) {
	row, err := repo.GetOwned[domain.Renter](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "renter")
	}
	return row, nil
}

// Create persists a new renter for the owner.
func (s *RenterService) Create(ctx context.Context, ownerID string, in RenterCreate) (*domain.Renter, error) {
	row := domain.Renter{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     in.Phone,
	}
	if err := repo.Insert(ctx, s.db, &row); err != nil {
		return nil, mapRepoErr(err, "renter")
	}
	return &row, nil
}

// Update applies the non-nil fields and returns the updated row.
func (s *RenterService) Update(ctx context.Context, id, ownerID string, in RenterUpdate) (*domain.Renter, error) {
	row, err := repo.GetOwned[domain.Renter](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "renter")
	}

	applyString(&row.FirstName, in.FirstName)
	applyString(&row.LastName, in.LastName)
	if in.Email != nil {
		row.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	applyString(&row.Phone, in.Phone)

	if err := repo.Save(ctx, s.db, row); err != nil {
		return nil, mapRepoErr(err, "renter")
	}
	return row, nil
}

// Delete soft-deletes one of the owner's renters.
func (s *RenterService) Delete(ctx context.Context, id, ownerID string) error {
	return mapRepoErr(repo.DeleteOwned[domain.Renter](ctx, s.db, id, ownerID), "renter")
}
