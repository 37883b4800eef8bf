package store2

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elite-acai/pdv-auth/internal/access"
	"github.com/elite-acai/pdv-auth/internal/permissions"
)

func TestDecodeSessionUser(t *testing.T) {
	user, err := DecodeSessionUser([]byte(`{"id":"u1","name":"Ana","username":"ana","permissions":{"can_chat":true,"can_print_orders":false,"bogus":true}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	grants := user.Grants()
	if !grants.Has(permissions.CanChat) || grants.Has(permissions.CanPrintOrders) {
		t.Fatalf("unexpected grants: %v", grants)
	}
	if _, ok := grants[permissions.Key("bogus")]; ok {
		t.Fatalf("unknown key leaked into grants")
	}
}

func TestDecodeSessionUserSkipsNonBooleanGrants(t *testing.T) {
	user, err := DecodeSessionUser([]byte(`{"id":"u2","name":"Bia","permissions":{"can_chat":"yes","can_print_orders":true,"can_cash":1,"can_view_cash":false,"can_update_status":null}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	grants := user.Grants()
	if !grants.Has(permissions.CanPrintOrders) {
		t.Fatalf("expected can_print_orders kept, got %v", grants)
	}
	if grants.Has(permissions.CanChat) || grants.Has(permissions.CanUpdateStatus) {
		t.Fatalf("non-boolean values must not grant, got %v", grants)
	}
	if granted, ok := grants[permissions.CanViewCash]; !ok || granted {
		t.Fatalf("expected explicit false for can_view_cash, got %v", grants)
	}
	if _, ok := user.Permissions["can_chat"]; ok {
		t.Fatalf("non-boolean value should be dropped from the raw map")
	}
}

func TestDecodeSessionUserRejectsAnonymousPayload(t *testing.T) {
	if _, err := DecodeSessionUser([]byte(`{"name":"x"}`)); err == nil {
		t.Fatalf("expected error for payload without id or username")
	}
	if _, err := DecodeSessionUser([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestSessionActsAsResolverFallback(t *testing.T) {
	session := NewSession(nil)
	resolver := access.NewResolver(session)

	if !resolver.IsPrivileged(nil) {
		t.Fatalf("signed-out session means unrestricted mode")
	}

	session.Set(&SessionUser{ID: "u1", Name: "Caixa", Username: "caixa", Permissions: map[string]bool{"can_view_cash": true}})
	if !resolver.HasPermission(nil, permissions.CanViewCash) {
		t.Fatalf("expected fallback grant")
	}
	if resolver.IsPrivileged(nil) {
		t.Fatalf("plain Store2 user is not privileged")
	}

	session.Clear()
	if resolver.HasPermission(nil, permissions.CanViewCash) {
		t.Fatalf("expected grants gone after sign out")
	}
}

func TestSessionUserAdminUsername(t *testing.T) {
	resolver := access.NewResolver(NewSession(&SessionUser{ID: "u2", Username: "loja_admin"}))
	if !resolver.IsPrivileged(nil) {
		t.Fatalf("username containing admin should be privileged")
	}
}

func TestRedisLoaderKey(t *testing.T) {
	loader := NewRedisLoader(RedisOptions{Addr: "127.0.0.1:1"})
	defer loader.Close()

	if got := loader.Key(" abc "); got != DefaultKeyPrefix+"abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestRedisLoaderEmptySessionID(t *testing.T) {
	loader := NewRedisLoader(RedisOptions{Addr: "127.0.0.1:1"})
	defer loader.Close()

	if _, err := loader.Load(context.Background(), "  "); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisLoaderUnreachable(t *testing.T) {
	loader := NewRedisLoader(RedisOptions{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	defer loader.Close()

	_, err := loader.Load(context.Background(), "abc")
	if err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
