package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/repo"
)

// PortfolioStats summarizes one owner's records across all resources.
type PortfolioStats struct {
	Properties      int64 `json:"properties"`
	Units           int64 `json:"units"`
	VacantUnits     int64 `json:"vacant_units"`
	Renters         int64 `json:"renters"`
	ActiveLeases    int64 `json:"active_leases"`
	OpenMaintenance int64 `json:"open_maintenance_requests"`
}

// StatsService aggregates owner-scoped counts for the dashboard surface.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService constructs a StatsService.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Portfolio counts the owner's rows per resource, with status breakdowns
// where the dashboard cares about them.
func (s *StatsService) Portfolio(ctx context.Context, ownerID string) (*PortfolioStats, error) {
	var (
		st  PortfolioStats
		err error
	)
	if st.Properties, err = repo.CountOwned[domain.Property](ctx, s.db, ownerID, nil); err != nil {
		return nil, mapRepoErr(err, "property")
	}
	if st.Units, err = repo.CountOwned[domain.Unit](ctx, s.db, ownerID, nil); err != nil {
		return nil, mapRepoErr(err, "unit")
	}
	if st.VacantUnits, err = repo.CountOwned[domain.Unit](ctx, s.db, ownerID, map[string]string{"status": "vacant"}); err != nil {
		return nil, mapRepoErr(err, "unit")
	}
	if st.Renters, err = repo.CountOwned[domain.Renter](ctx, s.db, ownerID, nil); err != nil {
		return nil, mapRepoErr(err, "renter")
	}
	if st.ActiveLeases, err = repo.CountOwned[domain.Lease](ctx, s.db, ownerID, map[string]string{"status": "active"}); err != nil {
		return nil, mapRepoErr(err, "lease")
	}
	if st.OpenMaintenance, err = repo.CountOwned[domain.MaintenanceRequest](ctx, s.db, ownerID, map[string]string{"status": "open"}); err != nil {
		return nil, mapRepoErr(err, "maintenance request")
	}
	return &st, nil
}
