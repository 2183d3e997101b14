package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Address is the shipping address shape stored on orders and user profiles.
// Persisted as a JSONB column.
type Address struct {
	Name       string `json:"name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Province   string `json:"province,omitempty"`
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported address column type %T", value)
	}
}

// IsZero reports whether no field is populated.
func (a Address) IsZero() bool {
	return a == Address{}
}
