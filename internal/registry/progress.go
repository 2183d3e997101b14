package registry

import "math"

// ProgressInput is the reserved/quantity pair of one list item.
type ProgressInput struct {
	Quantity int
	Reserved int
}

// Progress computes the completion percentage for a list: the reserved
// units over the requested units, rounded to the nearest integer. Empty
// lists and lists whose quantities sum to zero report 0 rather than
// dividing by zero. The value is derived on every call, never stored, so
// it can only be as stale as the item snapshot it was computed from.
func Progress(items []ProgressInput) int {
	if len(items) == 0 {
		return 0
	}
	var reserved, quantity int
	for _, item := range items {
		reserved += item.Reserved
		quantity += item.Quantity
	}
	if quantity == 0 {
		return 0
	}
	return int(math.Round(float64(reserved) / float64(quantity) * 100))
}
