package models

import (
	"strings"
	"time"

	"github.com/elite-acai/pdv-auth/internal/access"
	"github.com/elite-acai/pdv-auth/internal/permissions"
	"gorm.io/datatypes"
)

// PrivilegedCode is the login code of the break-glass administrative operator.
const PrivilegedCode = "ADMIN"

// Operator represents a point-of-sale operator account stored in the database.
type Operator struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Name string `gorm:"type:text;not null" json:"name"`             // Display name.
	Code string `gorm:"type:text;not null;uniqueIndex" json:"code"` // Login handle.

	PasswordHash string `gorm:"column:password_hash;type:text;not null" json:"-"` // Bcrypt hash or legacy plaintext.

	IsActive bool `gorm:"not null;default:true" json:"is_active"` // Inactive operators cannot sign in.

	Permissions datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"-"` // Permission map in JSON.

	LastLogin *time.Time `json:"last_login,omitempty"` // Last successful authentication.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last update timestamp.
}

// TableName keeps the table name used by the PDV front end.
func (Operator) TableName() string { return "pdv_operators" }

// IsPrivilegedIdentity reports whether o is the break-glass administrative operator.
func (o *Operator) IsPrivilegedIdentity() bool {
	return o != nil && strings.EqualFold(strings.TrimSpace(o.Code), PrivilegedCode)
}

// StoredPermissions decodes the permission map as persisted.
func (o *Operator) StoredPermissions() permissions.Set {
	if o == nil {
		return permissions.Set{}
	}
	return permissions.ParsePermissions(o.Permissions)
}

// Grants returns the effective permission map. The privileged operator always
// holds the full vocabulary whatever is stored.
func (o *Operator) Grants() permissions.Set {
	if o.IsPrivilegedIdentity() {
		return permissions.Full()
	}
	return o.StoredPermissions()
}

// Profile exposes the attributes used for administrative detection.
func (o *Operator) Profile() access.Profile {
	if o == nil {
		return access.Profile{}
	}
	return access.Profile{Code: o.Code, Name: o.Name}
}
