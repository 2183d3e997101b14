package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BuyerInfo identifies who bought a gift line so the list owner can see it.
// Note defaults to the empty string when the buyer left no message.
type BuyerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

// Value implements driver.Valuer.
func (b BuyerInfo) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner.
func (b *BuyerInfo) Scan(value any) error {
	if value == nil {
		*b = BuyerInfo{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported buyer info column type %T", value)
	}
}
