package utils

func Ptr[T any](v T) *T {
	return &v
}

// Coalesce returns v, or fallback when v is the zero value.
func Coalesce[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
