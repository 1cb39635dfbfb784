// Package domain defines the persistence models for the property-management
// backend. Every tenant-scoped model carries an OwnerID column so the
// generic repository can enforce owner isolation uniformly. Types are mapped
// with GORM; soft deletion is enabled everywhere so removals stay auditable.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Role classifies an authenticated account.
type Role string

// Account roles. OWNER and MANAGER manage portfolios, TENANT is a renter
// account with a restricted surface, ADMIN is operational staff.
const (
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
	RoleTenant  Role = "TENANT"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleTenant, RoleAdmin:
		return true
	}
	return false
}

// Identity is the resolved per-request identity published by the auth
// middleware. It is read-only for downstream handlers and the rate limiter's
// key function; it is never persisted.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// User is an account that can authenticate against the API.
type User struct {
	ID            string         `json:"id"             gorm:"type:char(36);primaryKey"`
	Email         string         `json:"email"          gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash  string         `json:"-"              gorm:"type:varchar(255);not null"`
	Role          Role           `json:"role"           gorm:"type:varchar(16);not null;check:role IN ('OWNER','MANAGER','TENANT','ADMIN')"`
	EmailVerified bool           `json:"email_verified" gorm:"not null;default:false"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Identity derives the request identity for this account.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role, EmailVerified: u.EmailVerified}
}

// Property is a building or parcel managed by an owner. Units belong to a
// property; everything else hangs off units.
type Property struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	OwnerID      string         `json:"owner_id"      gorm:"type:char(36);not null;index:idx_owner_properties"`
	Name         string         `json:"name"          gorm:"type:varchar(255);not null"`
	AddressLine1 string         `json:"address_line1" gorm:"type:varchar(255);not null"`
	AddressLine2 string         `json:"address_line2,omitempty" gorm:"type:varchar(255)"`
	City         string         `json:"city"          gorm:"type:varchar(128);not null;index"`
	Region       string         `json:"region,omitempty" gorm:"type:varchar(128)"`
	PostalCode   string         `json:"postal_code"   gorm:"type:varchar(32);not null"`
	Country      string         `json:"country"       gorm:"type:varchar(64);not null"`
	Type         string         `json:"type"          gorm:"type:varchar(32);not null;check:type IN ('apartment','house','condo','townhouse','commercial')"`
	Notes        string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for Property.
func (Property) TableName() string { return "properties" }

// Unit is a rentable space inside a property.
type Unit struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	OwnerID    string         `json:"owner_id"    gorm:"type:char(36);not null;index:idx_owner_units"`
	PropertyID string         `json:"property_id" gorm:"type:char(36);not null;index"`
	Label      string         `json:"label"       gorm:"type:varchar(64);not null"`
	Bedrooms   int            `json:"bedrooms"    gorm:"not null;default:0"`
	Bathrooms  int            `json:"bathrooms"   gorm:"not null;default:0"`
	SquareFeet int            `json:"square_feet" gorm:"not null;default:0"`
	RentCents  int64          `json:"rent_cents"  gorm:"not null;default:0"`
	Status     string         `json:"status"      gorm:"type:varchar(16);not null;default:'vacant';check:status IN ('vacant','occupied','maintenance')"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	// Property is the parent building; units disappear with it.
	Property Property `json:"-" gorm:"foreignKey:PropertyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Unit.
func (Unit) TableName() string { return "units" }

// Renter is a person renting (or applying to rent) a unit. A renter's email
// is unique within one owner's book, not globally.
type Renter struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	OwnerID   string         `json:"owner_id"   gorm:"type:char(36);not null;index;uniqueIndex:ux_renter_owner_email"`
	FirstName string         `json:"first_name" gorm:"type:varchar(128);not null"`
	LastName  string         `json:"last_name"  gorm:"type:varchar(128);not null"`
	Email     string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_renter_owner_email"`
	Phone     string         `json:"phone,omitempty" gorm:"type:varchar(32)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Renter.
func (Renter) TableName() string { return "renters" }

// Lease binds a renter to a unit for a period at an agreed rent.
type Lease struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	OwnerID      string         `json:"owner_id"      gorm:"type:char(36);not null;index:idx_owner_leases"`
	UnitID       string         `json:"unit_id"       gorm:"type:char(36);not null;index"`
	RenterID     string         `json:"renter_id"     gorm:"type:char(36);not null;index"`
	StartDate    time.Time      `json:"start_date"    gorm:"not null"`
	EndDate      time.Time      `json:"end_date"      gorm:"not null"`
	RentCents    int64          `json:"rent_cents"    gorm:"not null"`
	DepositCents int64          `json:"deposit_cents" gorm:"not null;default:0"`
	Status       string         `json:"status"        gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','active','expired','terminated')"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`

	Unit   Unit   `json:"-" gorm:"foreignKey:UnitID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Renter Renter `json:"-" gorm:"foreignKey:RenterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Lease.
func (Lease) TableName() string { return "leases" }

// MaintenanceRequest tracks a repair or inspection task against a unit.
type MaintenanceRequest struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	OwnerID     string         `json:"owner_id"    gorm:"type:char(36);not null;index:idx_owner_maint"`
	UnitID      string         `json:"unit_id"     gorm:"type:char(36);not null;index"`
	Title       string         `json:"title"       gorm:"type:varchar(255);not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Priority    string         `json:"priority"    gorm:"type:varchar(16);not null;default:'medium';check:priority IN ('low','medium','high','emergency')"`
	Status      string         `json:"status"      gorm:"type:varchar(16);not null;default:'open';check:status IN ('open','in_progress','closed')"`
	ClosedAt    *time.Time     `json:"closed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	Unit Unit `json:"-" gorm:"foreignKey:UnitID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MaintenanceRequest.
func (MaintenanceRequest) TableName() string { return "maintenance_requests" }

// MaintenanceAttachment records file metadata attached to a maintenance
// request. Only metadata is stored here; blob storage is a separate
// collaborator outside this service.
type MaintenanceAttachment struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	OwnerID     string         `json:"owner_id"     gorm:"type:char(36);not null;index"`
	RequestID   string         `json:"request_id"   gorm:"type:char(36);not null;index"`
	FileName    string         `json:"file_name"    gorm:"type:varchar(255);not null"`
	ContentType string         `json:"content_type" gorm:"type:varchar(128);not null"`
	SizeBytes   int64          `json:"size_bytes"   gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`

	Request MaintenanceRequest `json:"-" gorm:"foreignKey:RequestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MaintenanceAttachment.
func (MaintenanceAttachment) TableName() string { return "maintenance_attachments" }
