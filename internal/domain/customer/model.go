package customer

import (
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
)

// Customer represents an optional billing party owned by a user
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `json:"id"`

	// UserID is the owning user
	UserID string `json:"user_id"`

	// Name is the display name of the customer
	Name string `json:"name"`

	// TaxID is the optional national tax identifier
	TaxID string `json:"tax_id,omitempty"`

	// Address is the billing address
	Address string `json:"address,omitempty"`

	// Email is the contact email
	Email string `json:"email,omitempty"`

	// Phone is the contact phone number
	Phone string `json:"phone,omitempty"`

	types.BaseModel
}

func (c *Customer) Validate() error {
	if c.UserID == "" {
		return ierr.NewError("customer validation failed").
			WithHint("user_id is required").
			Mark(ierr.ErrValidation)
	}

	if c.Name == "" {
		return ierr.NewError("customer validation failed").
			WithHint("name is required").
			WithReportableDetails(map[string]any{
				"name": "must not be empty",
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
