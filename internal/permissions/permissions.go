package permissions

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Key identifies a single capability recognized by the PDV and Store2 screens.
type Key string

// Point-of-sale permission keys.
const (
	CanCancel              Key = "can_cancel"
	CanDiscount            Key = "can_discount"
	CanUseScale            Key = "can_use_scale"
	CanViewSales           Key = "can_view_sales"
	CanViewOrders          Key = "can_view_orders"
	CanViewReports         Key = "can_view_reports"
	CanViewProducts        Key = "can_view_products"
	CanViewOperators       Key = "can_view_operators"
	CanManageProducts      Key = "can_manage_products"
	CanManageSettings      Key = "can_manage_settings"
	CanViewAttendance      Key = "can_view_attendance"
	CanViewCashReport      Key = "can_view_cash_report"
	CanViewSalesReport     Key = "can_view_sales_report"
	CanViewCashRegister    Key = "can_view_cash_register"
	CanViewExpectedBalance Key = "can_view_expected_balance"
)

// Store2 attendance permission keys.
const (
	CanViewCash           Key = "can_view_cash"
	CanPrintOrders        Key = "can_print_orders"
	CanChat               Key = "can_chat"
	CanUpdateStatus       Key = "can_update_status"
	CanCreateManualOrders Key = "can_create_manual_orders"
)

// Domains group permission keys by the screen that consumes them.
const (
	DomainPDV    = "pdv"
	DomainStore2 = "store2"
)

// Definition describes a permission key for catalog listings.
type Definition struct {
	Key    Key
	Label  string
	Domain string
}

var definitions = []Definition{
	{Key: CanCancel, Label: "Cancel sales and items", Domain: DomainPDV},
	{Key: CanDiscount, Label: "Apply discounts", Domain: DomainPDV},
	{Key: CanUseScale, Label: "Use the scale", Domain: DomainPDV},
	{Key: CanViewSales, Label: "View sales", Domain: DomainPDV},
	{Key: CanViewOrders, Label: "View orders", Domain: DomainPDV},
	{Key: CanViewReports, Label: "View reports", Domain: DomainPDV},
	{Key: CanViewProducts, Label: "View products", Domain: DomainPDV},
	{Key: CanViewOperators, Label: "View operators", Domain: DomainPDV},
	{Key: CanManageProducts, Label: "Manage products", Domain: DomainPDV},
	{Key: CanManageSettings, Label: "Manage settings", Domain: DomainPDV},
	{Key: CanViewAttendance, Label: "View attendance", Domain: DomainPDV},
	{Key: CanViewCashReport, Label: "View cash report", Domain: DomainPDV},
	{Key: CanViewSalesReport, Label: "View sales report", Domain: DomainPDV},
	{Key: CanViewCashRegister, Label: "View cash register", Domain: DomainPDV},
	{Key: CanViewExpectedBalance, Label: "View expected balance", Domain: DomainPDV},
	{Key: CanViewCash, Label: "View cash", Domain: DomainStore2},
	{Key: CanPrintOrders, Label: "Print orders", Domain: DomainStore2},
	{Key: CanChat, Label: "Chat with customers", Domain: DomainStore2},
	{Key: CanUpdateStatus, Label: "Update order status", Domain: DomainStore2},
	{Key: CanCreateManualOrders, Label: "Create manual orders", Domain: DomainStore2},
}

var definitionMap = func() map[Key]Definition {
	out := make(map[Key]Definition, len(definitions))
	for _, def := range definitions {
		out[def.Key] = def
	}
	return out
}()

// Definitions returns the full permission catalog in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// DefinitionMap returns the catalog indexed by key.
func DefinitionMap() map[Key]Definition {
	out := make(map[Key]Definition, len(definitionMap))
	for key, def := range definitionMap {
		out[key] = def
	}
	return out
}

// All returns every key of the vocabulary in display order.
func All() []Key {
	out := make([]Key, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def.Key)
	}
	return out
}

// Valid reports whether k belongs to the vocabulary.
func (k Key) Valid() bool {
	_, ok := definitionMap[k]
	return ok
}

// ParseKey converts a raw string into a vocabulary key.
func ParseKey(raw string) (Key, error) {
	key := Key(strings.ToLower(strings.TrimSpace(raw)))
	if !key.Valid() {
		return "", fmt.Errorf("permissions: unknown key %q", raw)
	}
	return key, nil
}

// Set maps permission keys to their grant. Missing keys are not granted.
type Set map[Key]bool

// Full returns a set granting every key of the vocabulary.
func Full() Set {
	out := make(Set, len(definitions))
	for _, def := range definitions {
		out[def.Key] = true
	}
	return out
}

// Has reports whether key is explicitly granted.
func (s Set) Has(key Key) bool {
	return s[key]
}

// Clone returns an independent copy of the set. A nil set clones to an empty one.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for key, granted := range s {
		out[key] = granted
	}
	return out
}

// Granted returns the granted keys sorted alphabetically.
func (s Set) Granted() []Key {
	out := make([]Key, 0, len(s))
	for key, granted := range s {
		if granted {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate returns an error naming the first key outside the vocabulary.
func (s Set) Validate() error {
	for key := range s {
		if !key.Valid() {
			return fmt.Errorf("permissions: unknown key %q", key)
		}
	}
	return nil
}

// MarshalPermissions encodes a set as a JSON object for storage.
func MarshalPermissions(s Set) ([]byte, error) {
	if s == nil {
		s = Set{}
	}
	return json.Marshal(s)
}

// ParsePermissions decodes a stored JSON object, dropping keys outside the vocabulary.
func ParsePermissions(raw []byte) Set {
	out := Set{}
	if len(raw) == 0 {
		return out
	}
	var decoded map[string]bool
	if errUnmarshal := json.Unmarshal(raw, &decoded); errUnmarshal != nil {
		return out
	}
	for name, granted := range decoded {
		key := Key(name)
		if !key.Valid() {
			continue
		}
		out[key] = granted
	}
	return out
}
