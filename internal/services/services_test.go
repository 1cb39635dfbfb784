package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
	"github.com/casafolio/go-property-backend/internal/repo"
	"gorm.io/gorm"
)

const (
	ownerA = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	ownerB = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createProperty(t *testing.T, svc *PropertyService, ownerID, name string) *domain.Property {
	t.Helper()
	p, err := svc.Create(context.Background(), ownerID, PropertyCreate{
		Name:         name,
		AddressLine1: "1 Main St",
		City:         "Lisbon",
		PostalCode:   "1000-001",
		Country:      "PT",
		Type:         "apartment",
	})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p
}

func createUnit(t *testing.T, svc *UnitService, ownerID, propertyID string) *domain.Unit {
	t.Helper()
	u, err := svc.Create(context.Background(), ownerID, UnitCreate{
		PropertyID: propertyID,
		Label:      "3B",
		RentCents:  120000,
	})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	return u
}

func TestPropertyService_CRUDRoundTrip(t *testing.T) {
	db := openTestDB(t)
	svc := NewPropertyService(db)
	ctx := context.Background()

	created := createProperty(t, svc, ownerA, "Sunset Villa")
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("created row missing id/timestamps: %+v", created)
	}

	got, err := svc.FindByID(ctx, created.ID, ownerA)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != "Sunset Villa" || got.City != "Lisbon" || got.Type != "apartment" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	newName := "Sunrise Villa"
	updated, err := svc.Update(ctx, created.ID, ownerA, PropertyUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != newName || updated.City != "Lisbon" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	if err := svc.Delete(ctx, created.ID, ownerA); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.FindByID(ctx, created.ID, ownerA); faults.KindOf(err) != faults.KindNotFound {
		t.Fatalf("after delete err = %v, want not-found", err)
	}
}

func TestPropertyService_OwnerIsolation(t *testing.T) {
	db := openTestDB(t)
	svc := NewPropertyService(db)
	ctx := context.Background()

	p := createProperty(t, svc, ownerA, "Hidden House")

	// Another owner cannot see, update, or delete the row, and the fault is
	// identical to plain absence.
	if _, err := svc.FindByID(ctx, p.ID, ownerB); faults.KindOf(err) != faults.KindNotFound {
		t.Fatalf("foreign FindByID err = %v, want not-found", err)
	}
	name := "Stolen"
	if _, err := svc.Update(ctx, p.ID, ownerB, PropertyUpdate{Name: &name}); faults.KindOf(err) != faults.KindNotFound {
		t.Fatalf("foreign Update err = %v, want not-found", err)
	}
	if err := svc.Delete(ctx, p.ID, ownerB); faults.KindOf(err) != faults.KindNotFound {
		t.Fatalf("foreign Delete err = %v, want not-found", err)
	}

	page, err := svc.FindAllByOwner(ctx, ownerB, PropertyQuery{})
	if err != nil {
		t.Fatalf("FindAllByOwner: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("foreign list = %+v, want empty", page)
	}
}

func TestUnitService_ParentScoping(t *testing.T) {
	db := openTestDB(t)
	props := NewPropertyService(db)
	units := NewUnitService(db)
	ctx := context.Background()

	pA := createProperty(t, props, ownerA, "A Block")
	createUnit(t, units, ownerA, pA.ID)

	t.Run("create under foreign property rejected", func(t *testing.T) {
		_, err := units.Create(ctx, ownerB, UnitCreate{PropertyID: pA.ID, Label: "X"})
		if faults.KindOf(err) != faults.KindInvalid {
			t.Fatalf("err = %v, want invalid fault", err)
		}
		issues := faults.IssuesOf(err)
		if len(issues) != 1 || issues[0].Path != "property_id" {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("nested listing", func(t *testing.T) {
		page, err := units.ListByProperty(ctx, pA.ID, ownerA, UnitQuery{})
		if err != nil {
			t.Fatalf("ListByProperty: %v", err)
		}
		if page.Total != 1 {
			t.Fatalf("total = %d, want 1", page.Total)
		}
	})

	t.Run("nested listing of foreign property is 404", func(t *testing.T) {
		_, err := units.ListByProperty(ctx, pA.ID, ownerB, UnitQuery{})
		if faults.KindOf(err) != faults.KindNotFound {
			t.Fatalf("err = %v, want not-found", err)
		}
	})
}

func TestRenterService_DuplicateEmailConflicts(t *testing.T) {
	db := openTestDB(t)
	svc := NewRenterService(db)
	ctx := context.Background()

	in := RenterCreate{FirstName: "Ana", LastName: "Reis", Email: "ana@example.com"}
	if _, err := svc.Create(ctx, ownerA, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, ownerA, in); faults.KindOf(err) != faults.KindConflict {
		t.Fatalf("duplicate err = %v, want conflict", err)
	}

	// Same email under another owner is fine: uniqueness is per book.
	if _, err := svc.Create(ctx, ownerB, in); err != nil {
		t.Fatalf("cross-owner create: %v", err)
	}
}

func TestLeaseService_DateValidation(t *testing.T) {
	db := openTestDB(t)
	props := NewPropertyService(db)
	units := NewUnitService(db)
	renters := NewRenterService(db)
	leases := NewLeaseService(db)
	ctx := context.Background()

	p := createProperty(t, props, ownerA, "Lease Block")
	u := createUnit(t, units, ownerA, p.ID)
	r, err := renters.Create(ctx, ownerA, RenterCreate{FirstName: "Bo", LastName: "Li", Email: "bo@example.com"})
	if err != nil {
		t.Fatalf("create renter: %v", err)
	}

	base := LeaseCreate{
		UnitID: u.ID, RenterID: r.ID,
		StartDate: "2026-09-01", EndDate: "2027-08-31",
		RentCents: 120000,
	}

	t.Run("valid range", func(t *testing.T) {
		l, err := leases.Create(ctx, ownerA, base)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if l.Status != "pending" {
			t.Fatalf("status = %q, want pending", l.Status)
		}
	})

	t.Run("end before start rejected", func(t *testing.T) {
		bad := base
		bad.EndDate = "2026-08-31"
		_, err := leases.Create(ctx, ownerA, bad)
		if faults.KindOf(err) != faults.KindInvalid {
			t.Fatalf("err = %v, want invalid", err)
		}
		issues := faults.IssuesOf(err)
		if len(issues) != 1 || issues[0].Path != "end_date" {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("foreign renter rejected", func(t *testing.T) {
		bad := base
		bad.RenterID = "cccccccc-cccc-cccc-cccc-cccccccccccc"
		_, err := leases.Create(ctx, ownerA, bad)
		if faults.KindOf(err) != faults.KindInvalid {
			t.Fatalf("err = %v, want invalid", err)
		}
	})
}

func TestMaintenanceService_CloseAndAttachments(t *testing.T) {
	db := openTestDB(t)
	props := NewPropertyService(db)
	units := NewUnitService(db)
	maint := NewMaintenanceService(db)
	ctx := context.Background()

	p := createProperty(t, props, ownerA, "Fix-It Block")
	u := createUnit(t, units, ownerA, p.ID)

	req, err := maint.Create(ctx, ownerA, MaintenanceCreate{UnitID: u.ID, Title: "Leaking tap"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.Status != "open" || req.Priority != "medium" {
		t.Fatalf("defaults wrong: %+v", req)
	}

	closed, err := maint.Close(ctx, req.ID, ownerA)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != "closed" || closed.ClosedAt == nil {
		t.Fatalf("close did not stamp: %+v", closed)
	}

	if _, err := maint.Close(ctx, req.ID, ownerA); faults.KindOf(err) != faults.KindConflict {
		t.Fatalf("double close err = %v, want conflict", err)
	}

	att, err := maint.AddAttachment(ctx, req.ID, ownerA, AttachmentInput{
		FileName: "tap.jpg", ContentType: "image/jpeg", SizeBytes: 1024,
	})
	if err != nil {
		t.Fatalf("AddAttachment: %v", err)
	}
	if att.RequestID != req.ID {
		t.Fatalf("attachment request id = %q", att.RequestID)
	}

	list, err := maint.Attachments(ctx, req.ID, ownerA)
	if err != nil || len(list) != 1 {
		t.Fatalf("Attachments = %v, %v", list, err)
	}

	if _, err := maint.AddAttachment(ctx, req.ID, ownerB, AttachmentInput{
		FileName: "x", ContentType: "image/png", SizeBytes: 1,
	}); faults.KindOf(err) != faults.KindNotFound {
		t.Fatalf("foreign attach err = %v, want not-found", err)
	}
}

func TestAccountService(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccountService(db)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "Owner@Example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "owner@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Role != domain.RoleOwner {
		t.Fatalf("default role = %q", u.Role)
	}
	if u.PasswordHash == "s3cret-pass" || u.PasswordHash == "" {
		t.Fatalf("password stored unhashed")
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "owner@example.com", Password: "another-pass"}); faults.KindOf(err) != faults.KindConflict {
		t.Fatalf("duplicate register err = %v, want conflict", err)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, badPass := svc.Login(ctx, LoginInput{Email: "owner@example.com", Password: "wrong"})
	_, badUser := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "wrong"})
	if faults.KindOf(badPass) != faults.KindUnauthenticated || faults.KindOf(badUser) != faults.KindUnauthenticated {
		t.Fatalf("login faults = %v / %v", badPass, badUser)
	}
	if badPass.Error() != badUser.Error() {
		t.Fatalf("login failure messages differ: %q vs %q", badPass.Error(), badUser.Error())
	}
}

func TestStatsService_StatusBreakdown(t *testing.T) {
	db := openTestDB(t)
	props := NewPropertyService(db)
	unitsSvc := NewUnitService(db)
	maint := NewMaintenanceService(db)
	stats := NewStatsService(db)
	ctx := context.Background()

	p := createProperty(t, props, ownerA, "Stat Block")
	u := createUnit(t, unitsSvc, ownerA, p.ID)

	if _, err := maint.Create(ctx, ownerA, MaintenanceCreate{UnitID: u.ID, Title: "Squeaky door"}); err != nil {
		t.Fatalf("create request: %v", err)
	}
	closedReq, err := maint.Create(ctx, ownerA, MaintenanceCreate{UnitID: u.ID, Title: "Broken latch"})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := maint.Close(ctx, closedReq.ID, ownerA); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A foreign owner's rows must never bleed into the counts.
	pb := createProperty(t, props, ownerB, "Rival Block")
	createUnit(t, unitsSvc, ownerB, pb.ID)

	st, err := stats.Portfolio(ctx, ownerA)
	if err != nil {
		t.Fatalf("Portfolio: %v", err)
	}
	if st.Properties != 1 || st.Units != 1 || st.VacantUnits != 1 {
		t.Fatalf("property/unit counts = %+v", st)
	}
	if st.OpenMaintenance != 1 {
		t.Fatalf("open maintenance = %d, want 1 (closed requests excluded)", st.OpenMaintenance)
	}
}
