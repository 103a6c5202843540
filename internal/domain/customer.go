package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Guarantor holds the details of one loan guarantor. Stored as JSONB on the
// customer row.
type Guarantor struct {
	Name       string `json:"name" validate:"required"`
	FatherName string `json:"father_name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	CNIC       string `json:"cnic" validate:"required"`
	Address    string `json:"address" validate:"required"`
}

// Value implements driver.Valuer for JSONB storage.
func (g Guarantor) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements sql.Scanner for JSONB storage.
func (g *Guarantor) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	case nil:
		*g = Guarantor{}
		return nil
	default:
		return fmt.Errorf("unsupported guarantor column type %T", src)
	}
}

// Customer represents a registered buyer. Every sale requires two guarantors.
type Customer struct {
	ID            uuid.UUID `json:"id" db:"id"`
	AccountNumber string    `json:"account_number" db:"account_number"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	FatherName    string    `json:"father_name" db:"father_name"`
	Phone         string    `json:"phone" db:"phone"`
	CNIC          string    `json:"cnic" db:"cnic"`
	Address       string    `json:"address" db:"address"`
	Guarantor1    Guarantor `json:"guarantor1_details" db:"guarantor1_details"`
	Guarantor2    Guarantor `json:"guarantor2_details" db:"guarantor2_details"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type RegisterCustomerRequest struct {
	AccountNumber string    `json:"account_number" validate:"required"`
	CustomerName  string    `json:"customer_name" validate:"required"`
	FatherName    string    `json:"father_name" validate:"required"`
	Phone         string    `json:"phone" validate:"required"`
	CNIC          string    `json:"cnic" validate:"required"`
	Address       string    `json:"address" validate:"required"`
	Guarantor1    Guarantor `json:"guarantor1_details" validate:"required"`
	Guarantor2    Guarantor `json:"guarantor2_details" validate:"required"`
}
