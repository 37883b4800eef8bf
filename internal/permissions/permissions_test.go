package permissions

import "testing"

func TestDefinitionsCoverBothDomains(t *testing.T) {
	t.Parallel()

	counts := map[string]int{}
	for _, def := range Definitions() {
		if def.Label == "" {
			t.Fatalf("definition %q has empty label", def.Key)
		}
		counts[def.Domain]++
	}
	if counts[DomainPDV] != 15 {
		t.Fatalf("expected 15 pdv keys, got %d", counts[DomainPDV])
	}
	if counts[DomainStore2] != 5 {
		t.Fatalf("expected 5 store2 keys, got %d", counts[DomainStore2])
	}
	if len(DefinitionMap()) != len(All()) {
		t.Fatalf("definition map has duplicate keys")
	}
}

func TestFullGrantsEveryKey(t *testing.T) {
	t.Parallel()

	full := Full()
	for _, key := range All() {
		if !full.Has(key) {
			t.Fatalf("Full() missing %q", key)
		}
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	key, err := ParseKey("  CAN_DISCOUNT ")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if key != CanDiscount {
		t.Fatalf("expected %q, got %q", CanDiscount, key)
	}
	if _, err := ParseKey("can_fly"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParsePermissionsDropsUnknownKeys(t *testing.T) {
	t.Parallel()

	set := ParsePermissions([]byte(`{"can_discount":true,"can_cancel":false,"can_fly":true}`))
	if len(set) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(set), set)
	}
	if !set.Has(CanDiscount) {
		t.Fatalf("expected can_discount granted")
	}
	if set.Has(CanCancel) {
		t.Fatalf("expected can_cancel denied")
	}
}

func TestParsePermissionsToleratesGarbage(t *testing.T) {
	t.Parallel()

	if set := ParsePermissions([]byte(`[1,2`)); len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}
	if set := ParsePermissions(nil); set == nil {
		t.Fatalf("expected non-nil empty set")
	}
}

func TestSetValidate(t *testing.T) {
	t.Parallel()

	if err := (Set{CanChat: true}).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := (Set{Key("can_fly"): true}).Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestGrantedIsSorted(t *testing.T) {
	t.Parallel()

	set := Set{CanViewSales: true, CanCancel: true, CanChat: false}
	got := set.Granted()
	if len(got) != 2 || got[0] != CanCancel || got[1] != CanViewSales {
		t.Fatalf("unexpected granted keys: %v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := Set{CanDiscount: true}
	clone := original.Clone()
	clone[CanCancel] = true
	if original.Has(CanCancel) {
		t.Fatalf("mutating clone changed original")
	}
	if (Set(nil)).Clone() == nil {
		t.Fatalf("clone of nil set should be empty, not nil")
	}
}
