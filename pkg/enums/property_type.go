package enums

import "fmt"

// PropertyType is the listing category.
type PropertyType string

const (
	PropertyTypeSale PropertyType = "sale"
	PropertyTypeRent PropertyType = "rent"
)

var validPropertyTypes = []PropertyType{
	PropertyTypeSale,
	PropertyTypeRent,
}

// String implements fmt.Stringer.
func (p PropertyType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PropertyType.
func (p PropertyType) IsValid() bool {
	for _, candidate := range validPropertyTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePropertyType converts raw input into a PropertyType.
func ParsePropertyType(value string) (PropertyType, error) {
	for _, candidate := range validPropertyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid property type %q", value)
}
