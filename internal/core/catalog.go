package core

import (
	"errors"
	"fmt"
	"strings"
)

type (
	Category struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		IsDefault bool   `json:"isDefault"`
	}

	PaymentMethod struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		IsDefault bool   `json:"isDefault"`
	}
)

// UnknownName is shown for references that no longer resolve.
const UnknownName = "Unknown"

var (
	ErrDuplicateID     = errors.New("duplicate id")
	ErrMultipleDefault = errors.New("more than one default entry")
	ErrEmptyName       = errors.New("empty name")
)

type catalogEntry interface {
	Category | PaymentMethod
}

func entryID[T catalogEntry](e T) string {
	switch v := any(e).(type) {
	case Category:
		return v.ID
	case PaymentMethod:
		return v.ID
	}
	return ""
}

func entryName[T catalogEntry](e T) string {
	switch v := any(e).(type) {
	case Category:
		return v.Name
	case PaymentMethod:
		return v.Name
	}
	return ""
}

func entryDefault[T catalogEntry](e T) bool {
	switch v := any(e).(type) {
	case Category:
		return v.IsDefault
	case PaymentMethod:
		return v.IsDefault
	}
	return false
}

// DefaultCategory returns the category marked default, if any.
func DefaultCategory(list []Category) (Category, bool) {
	return findDefault(list)
}

// DefaultPaymentMethod returns the payment method marked default, if any.
func DefaultPaymentMethod(list []PaymentMethod) (PaymentMethod, bool) {
	return findDefault(list)
}

func findDefault[T catalogEntry](list []T) (T, bool) {
	for _, e := range list {
		if entryDefault(e) {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// CategoryName resolves id against list, falling back to UnknownName.
func CategoryName(list []Category, id string) string {
	return lookupName(list, id)
}

// PaymentMethodName resolves id against list, falling back to UnknownName.
func PaymentMethodName(list []PaymentMethod, id string) string {
	return lookupName(list, id)
}

func lookupName[T catalogEntry](list []T, id string) string {
	for _, e := range list {
		if entryID(e) == id {
			return entryName(e)
		}
	}
	return UnknownName
}

// HasCategory reports whether id names an existing category.
func HasCategory(list []Category, id string) bool {
	return containsID(list, id)
}

// HasPaymentMethod reports whether id names an existing payment method.
func HasPaymentMethod(list []PaymentMethod, id string) bool {
	return containsID(list, id)
}

func containsID[T catalogEntry](list []T, id string) bool {
	for _, e := range list {
		if entryID(e) == id {
			return true
		}
	}
	return false
}

// ValidateCatalog checks ids are unique and non-empty, names are set and at
// most one entry per collection is the default.
func ValidateCatalog(categories []Category, methods []PaymentMethod) error {
	if err := validateEntries("category", categories); err != nil {
		return err
	}
	return validateEntries("payment method", methods)
}

func validateEntries[T catalogEntry](kind string, list []T) error {
	seen := make(map[string]struct{}, len(list))
	defaults := 0
	for _, e := range list {
		id := entryID(e)
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%s %q: empty id", kind, entryName(e))
		}
		if strings.TrimSpace(entryName(e)) == "" {
			return fmt.Errorf("%s %q: %w", kind, id, ErrEmptyName)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID)
		}
		seen[id] = struct{}{}
		if entryDefault(e) {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%s catalog: %w", kind, ErrMultipleDefault)
	}
	return nil
}

// Slug derives a catalog id from a display name: "Eating Out" -> "eating-out".
func Slug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "-")
}
