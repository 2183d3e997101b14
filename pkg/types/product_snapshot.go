package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ProductSnapshot is the denormalized copy of product display fields taken
// when a product is added to a birth list. Persisted as JSONB so the list
// keeps rendering even if the catalog row changes or disappears.
type ProductSnapshot struct {
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
}

// Value implements driver.Valuer.
func (p ProductSnapshot) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *ProductSnapshot) Scan(value any) error {
	if value == nil {
		*p = ProductSnapshot{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported snapshot column type %T", value)
	}
}
