package entity

// Attributes is the dynamic attribute vector carried by both Person and
// Location (age, susceptibility multiplier, is_school, max_simultaneous_
// visits, etc). Its schema is determined at scenario-load time rather than
// fixed at compile time (spec.md §3), so it is backed by a map rather than
// a struct.
type Attributes map[string]interface{}

// Float64 returns the named attribute as a float64, or def if absent or of
// a different underlying numeric type.
func (a Attributes) Float64(name string, def float64) float64 {
	v, ok := a[name]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return def
	}
}

// Int returns the named attribute as an int, or def if absent or of a
// different underlying numeric type.
func (a Attributes) Int(name string, def int) int {
	v, ok := a[name]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	default:
		return def
	}
}

// Bool returns the named attribute as a bool, or def if absent or of a
// different underlying type.
func (a Attributes) Bool(name string, def bool) bool {
	v, ok := a[name]
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}
