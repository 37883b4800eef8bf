package access

import (
	"strings"

	"github.com/elite-acai/pdv-auth/internal/permissions"
)

// privilegedMarker is the upper-cased token that flags an administrative actor.
const privilegedMarker = "ADMIN"

// Profile carries the identity attributes used to detect an administrative actor.
// Fields a source does not have are left empty.
type Profile struct {
	Code     string
	Name     string
	Username string
	Role     string
}

// Identity is a capability-bearing actor: a PDV operator or a Store2 session user.
type Identity interface {
	Grants() permissions.Set
	Profile() Profile
}

// Fallback supplies the ambient identity used when a query names none.
type Fallback interface {
	Current() Identity
}

// FallbackFunc adapts a function to Fallback.
type FallbackFunc func() Identity

// Current calls f.
func (f FallbackFunc) Current() Identity {
	if f == nil {
		return nil
	}
	return f()
}

// Resolver answers capability queries for an explicit identity or the ambient fallback.
// It holds no state besides the fallback and is safe for concurrent use.
type Resolver struct {
	fallback Fallback
}

// NewResolver constructs a Resolver. fallback may be nil.
func NewResolver(fallback Fallback) *Resolver {
	return &Resolver{fallback: fallback}
}

// Active returns the identity a query is evaluated against, or nil when there is none.
func (r *Resolver) Active(explicit Identity) Identity {
	if explicit != nil {
		return explicit
	}
	if r == nil || r.fallback == nil {
		return nil
	}
	return r.fallback.Current()
}

// HasPermission reports whether the active identity has key explicitly granted.
// It never consults IsPrivileged.
func (r *Resolver) HasPermission(explicit Identity, key permissions.Key) bool {
	active := r.Active(explicit)
	if active == nil {
		return false
	}
	return active.Grants().Has(key)
}

// AllPermissions returns a copy of the active identity's grants, empty when there is none.
func (r *Resolver) AllPermissions(explicit Identity) permissions.Set {
	active := r.Active(explicit)
	if active == nil {
		return permissions.Set{}
	}
	return active.Grants().Clone()
}

// IsPrivileged reports whether the active identity looks administrative.
// With no active identity at all the console runs unrestricted and this returns true.
func (r *Resolver) IsPrivileged(explicit Identity) bool {
	active := r.Active(explicit)
	if active == nil {
		return true
	}
	return LooksPrivileged(active.Profile())
}

// Allowed combines both signals: privileged actors pass, others need the key granted.
func (r *Resolver) Allowed(explicit Identity, key permissions.Key) bool {
	return r.IsPrivileged(explicit) || r.HasPermission(explicit, key)
}

// LooksPrivileged applies the administrative heuristics to a profile.
func LooksPrivileged(p Profile) bool {
	if strings.EqualFold(strings.TrimSpace(p.Code), privilegedMarker) {
		return true
	}
	// "ADMINISTRADOR" contains the marker too.
	if strings.Contains(strings.ToUpper(p.Name), privilegedMarker) {
		return true
	}
	if strings.Contains(strings.ToUpper(p.Username), privilegedMarker) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(p.Role), "admin")
}
