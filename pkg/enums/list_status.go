package enums

import "fmt"

// ListStatus marks whether a birth list accepts reservations.
type ListStatus string

const (
	ListStatusActive ListStatus = "active"
	ListStatusClosed ListStatus = "closed"
)

var validListStatuses = []ListStatus{
	ListStatusActive,
	ListStatusClosed,
}

// String implements fmt.Stringer.
func (s ListStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ListStatus.
func (s ListStatus) IsValid() bool {
	for _, candidate := range validListStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseListStatus converts raw input into a ListStatus.
func ParseListStatus(value string) (ListStatus, error) {
	for _, candidate := range validListStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid list status %q", value)
}
