package dto

import (
	"context"

	"github.com/openbill/openbill/internal/domain/customer"
	"github.com/openbill/openbill/internal/types"
	"github.com/openbill/openbill/internal/validator"
)

// CreateCustomerRequest represents the request payload for creating a customer
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	TaxID   string `json:"tax_id,omitempty"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
}

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToCustomer converts the request to a domain customer owned by the
// authenticated user
func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		UserID:    types.GetUserID(ctx),
		Name:      r.Name,
		TaxID:     r.TaxID,
		Address:   r.Address,
		Email:     r.Email,
		Phone:     r.Phone,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// UpdateCustomerRequest represents the editable fields of a customer
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	TaxID   *string `json:"tax_id,omitempty"`
	Address *string `json:"address,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
}

func (r *UpdateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	*customer.Customer
}

// NewCustomerResponse creates a new customer response from a domain customer
func NewCustomerResponse(c *customer.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{Customer: c}
}

// ListCustomersResponse represents a list of customers
type ListCustomersResponse struct {
	Items []*CustomerResponse `json:"items"`
}
