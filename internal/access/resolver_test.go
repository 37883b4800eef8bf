package access

import (
	"reflect"
	"sync"
	"testing"

	"github.com/elite-acai/pdv-auth/internal/permissions"
)

type stubIdentity struct {
	grants  permissions.Set
	profile Profile
}

func (s stubIdentity) Grants() permissions.Set { return s.grants }
func (s stubIdentity) Profile() Profile        { return s.profile }

func staticFallback(id Identity) Fallback {
	return FallbackFunc(func() Identity { return id })
}

func TestHasPermissionUsesExplicitIdentity(t *testing.T) {
	op := stubIdentity{grants: permissions.Set{permissions.CanDiscount: true}, profile: Profile{Code: "007"}}
	r := NewResolver(nil)

	if !r.HasPermission(op, permissions.CanDiscount) {
		t.Fatalf("expected can_discount granted")
	}
	if r.HasPermission(op, permissions.CanCancel) {
		t.Fatalf("expected can_cancel denied")
	}
}

func TestHasPermissionExplicitFalseIsDenied(t *testing.T) {
	op := stubIdentity{grants: permissions.Set{permissions.CanCancel: false}}
	if NewResolver(nil).HasPermission(op, permissions.CanCancel) {
		t.Fatalf("explicit false must deny")
	}
}

func TestExplicitIdentityShadowsFallback(t *testing.T) {
	ambient := stubIdentity{grants: permissions.Set{permissions.CanChat: true}}
	op := stubIdentity{grants: permissions.Set{permissions.CanDiscount: true}}
	r := NewResolver(staticFallback(ambient))

	if r.HasPermission(op, permissions.CanChat) {
		t.Fatalf("fallback grants leaked into explicit identity")
	}
	if !r.HasPermission(nil, permissions.CanChat) {
		t.Fatalf("expected fallback identity to grant can_chat")
	}
}

func TestNoActiveIdentity(t *testing.T) {
	r := NewResolver(staticFallback(nil))

	if r.HasPermission(nil, permissions.CanDiscount) {
		t.Fatalf("no identity must never hold a permission")
	}
	if got := r.AllPermissions(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty permissions, got %v", got)
	}
	if !r.IsPrivileged(nil) {
		t.Fatalf("no identity means unrestricted console mode")
	}
	if !r.Allowed(nil, permissions.CanManageSettings) {
		t.Fatalf("unrestricted mode should allow")
	}
}

func TestNilResolverBehavesLikeNoFallback(t *testing.T) {
	var r *Resolver
	if r.Active(nil) != nil {
		t.Fatalf("expected nil active identity")
	}
	if !r.IsPrivileged(nil) {
		t.Fatalf("expected unrestricted mode")
	}
}

func TestIsPrivilegedHeuristics(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		want    bool
	}{
		{name: "code admin", profile: Profile{Code: "admin"}, want: true},
		{name: "name administrador", profile: Profile{Name: "Administrador", Code: "42"}, want: true},
		{name: "name contains admin", profile: Profile{Name: "Joana Admin"}, want: true},
		{name: "username contains admin", profile: Profile{Username: "store-admin-2"}, want: true},
		{name: "role admin", profile: Profile{Role: "Admin"}, want: true},
		{name: "plain operator", profile: Profile{Code: "01", Name: "Maria", Username: "maria", Role: "cashier"}, want: false},
	}
	r := NewResolver(nil)
	for _, tc := range cases {
		got := r.IsPrivileged(stubIdentity{profile: tc.profile})
		if got != tc.want {
			t.Fatalf("%s: IsPrivileged = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPrivilegeDoesNotExpandGrants(t *testing.T) {
	admin := stubIdentity{profile: Profile{Name: "Administrador"}}
	r := NewResolver(nil)

	if !r.IsPrivileged(admin) {
		t.Fatalf("expected privileged")
	}
	if r.HasPermission(admin, permissions.CanCancel) {
		t.Fatalf("HasPermission must not consult privilege")
	}
	if len(r.AllPermissions(admin)) != 0 {
		t.Fatalf("AllPermissions must not expand privileged grants")
	}
	if !r.Allowed(admin, permissions.CanCancel) {
		t.Fatalf("Allowed should combine privilege and grants")
	}
}

func TestAllPermissionsIsStable(t *testing.T) {
	op := stubIdentity{grants: permissions.Set{permissions.CanDiscount: true, permissions.CanCancel: false}}
	r := NewResolver(nil)

	first := r.AllPermissions(op)
	second := r.AllPermissions(op)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected equal mappings, got %v and %v", first, second)
	}
	first[permissions.CanChat] = true
	if op.grants.Has(permissions.CanChat) {
		t.Fatalf("AllPermissions result aliases identity grants")
	}
}

func TestFallbackEvaluatedOnEveryCall(t *testing.T) {
	var (
		mu      sync.Mutex
		current Identity
	)
	r := NewResolver(FallbackFunc(func() Identity {
		mu.Lock()
		defer mu.Unlock()
		return current
	}))

	if r.HasPermission(nil, permissions.CanPrintOrders) {
		t.Fatalf("expected denied before session starts")
	}
	mu.Lock()
	current = stubIdentity{grants: permissions.Set{permissions.CanPrintOrders: true}}
	mu.Unlock()
	if !r.HasPermission(nil, permissions.CanPrintOrders) {
		t.Fatalf("expected granted after session starts")
	}
}
