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

// MaintenanceCreate is the creation payload for a maintenance request.
type MaintenanceCreate struct {
	UnitID      string `json:"unit_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"omitempty,max=8192"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
}

// MaintenanceUpdate is the partial-update payload; nil fields stay unchanged.
type MaintenanceUpdate struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=8192"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	Status      *string `json:"status" binding:"omitempty,oneof=open in_progress closed"`
}

// MaintenanceQuery is the list-query payload for maintenance requests.
type MaintenanceQuery struct {
	pagination.ListQuery
	UnitID   string `form:"unit_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=open in_progress closed"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high emergency"`
}

// AttachmentInput is the metadata payload for an attachment. The blob itself
// lives with a storage collaborator outside this service.
type AttachmentInput struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,max=128"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1"`
}

var maintenanceListOptions = repo.ListOptions{
	SearchColumns: []string{"title", "description"},
	SortColumns: map[string]string{
		"title":      "title",
		"priority":   "priority",
		"status":     "status",
		"created_at": "created_at",
	},
	DefaultSort: "created_at",
}

// MaintenanceService serves owner-scoped maintenance-request CRUD plus the
// close action and attachment metadata.
type MaintenanceService struct {
	db *gorm.DB
}

// NewMaintenanceService constructs a MaintenanceService.
func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

// FindAllByOwner lists the owner's maintenance requests.
func (s *MaintenanceService) FindAllByOwner(ctx context.Context, ownerID string, q MaintenanceQuery) (pagination.Page[domain.MaintenanceRequest], error) {
	opt := maintenanceListOptions
	opt.Filters = map[string]string{"unit_id": q.UnitID, "status": q.Status, "priority": q.Priority}
	page, err := repo.ListOwned[domain.MaintenanceRequest](ctx, s.db, ownerID, q.List(), opt)
	return page, mapRepoErr(err, "maintenance request")
}

// FindByID fetches one of the owner's maintenance requests.
func (s *MaintenanceService) FindByID(ctx context.Context, id, ownerID string) (*domain.MaintenanceRequest, error) {
	row, err := repo.GetOwned[domain.MaintenanceRequest](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}
	return row, nil
}

// Create persists a new maintenance request against one of the owner's units.
func (s *MaintenanceService) Create(ctx context.Context, ownerID string, in MaintenanceCreate) (*domain.MaintenanceRequest, error) {
	if _, err := repo.GetOwned[domain.Unit](ctx, s.db, in.UnitID, ownerID); err != nil {
		return nil, faults.Invalid("request body is invalid", faults.Issue{
			Path: "unit_id", Message: "unknown unit", Code: "exists",
		})
	}

	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	row := domain.MaintenanceRequest{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		UnitID:      in.UnitID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Status:      "open",
	}
	if err := repo.Insert(ctx, s.db, &row); err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}
	return &row, nil
}

// Update applies the non-nil fields and returns the updated row. Moving the
// status to closed through Update stamps ClosedAt just like Close does.
func (s *MaintenanceService) Update(ctx context.Context, id, ownerID string, in MaintenanceUpdate) (*domain.MaintenanceRequest, error) {
	row, err := repo.GetOwned[domain.MaintenanceRequest](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}

	applyString(&row.Title, in.Title)
	applyString(&row.Description, in.Description)
	applyString(&row.Priority, in.Priority)
	if in.Status != nil && *in.Status != row.Status {
		row.Status = *in.Status
		if row.Status == "closed" {
			now := time.Now().UTC()
			row.ClosedAt = &now
		} else {
			row.ClosedAt = nil
		}
	}

	if err := repo.Save(ctx, s.db, row); err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}
	return row, nil
}

// Delete soft-deletes one of the owner's maintenance requests.
func (s *MaintenanceService) Delete(ctx context.Context, id, ownerID string) error {
	return mapRepoErr(repo.DeleteOwned[domain.MaintenanceRequest](ctx, s.db, id, ownerID), "maintenance request")
}

// Close marks a request closed and stamps the closing time. Closing an
// already-closed request is a conflict, not an idempotent success, so
// double-submits are visible to the caller.
func (s *MaintenanceService) Close(ctx context.Context, id, ownerID string) (*domain.MaintenanceRequest, error) {
	row, err := repo.GetOwned[domain.MaintenanceRequest](ctx, s.db, id, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}
	if row.Status == "closed" {
		return nil, faults.Conflict("maintenance request is already closed")
	}

	now := time.Now().UTC()
	row.Status = "closed"
	row.ClosedAt = &now
	if err := repo.Save(ctx, s.db, row); err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}
	return row, nil
}

// AddAttachment records attachment metadata against one of the owner's
// requests.
func (s *MaintenanceService) AddAttachment(ctx context.Context, requestID, ownerID string, in AttachmentInput) (*domain.MaintenanceAttachment, error) {
	if _, err := repo.GetOwned[domain.MaintenanceRequest](ctx, s.db, requestID, ownerID); err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}

	row := domain.MaintenanceAttachment{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		RequestID:   requestID,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
	}
	if err := repo.Insert(ctx, s.db, &row); err != nil {
		return nil, mapRepoErr(err, "attachment")
	}
	return &row, nil
}

// Attachments lists the metadata rows of one of the owner's requests.
func (s *MaintenanceService) Attachments(ctx context.Context, requestID, ownerID string) ([]domain.MaintenanceAttachment, error) {
	if _, err := repo.GetOwned[domain.MaintenanceRequest](ctx, s.db, requestID, ownerID); err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}
	var rows []domain.MaintenanceAttachment
	err := s.db.WithContext(ctx).
		Where("request_id = ? AND owner_id = ?", requestID, ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapRepoErr(err, "attachment")
	}
	return rows, nil
}
