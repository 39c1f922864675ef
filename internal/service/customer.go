package service

import (
	"context"
	"errors"

	"github.com/openbill/openbill/internal/api/dto"
	"github.com/openbill/openbill/internal/domain/customer"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
	"github.com/samber/lo"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context) (*dto.ListCustomersResponse, error)
	UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerService struct {
	ServiceParams
}

// NewCustomerService creates a new customer service
func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{ServiceParams: params}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToCustomer(ctx)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		s.Logger.Errorw("failed to create customer",
			"error", err,
			"user_id", c.UserID)
		return nil, err
	}

	return dto.NewCustomerResponse(c), nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil, ierr.NewError("customer not found").
				WithHintf("Customer with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}
	return dto.NewCustomerResponse(c), nil
}

func (s *customerService) ListCustomers(ctx context.Context) (*dto.ListCustomersResponse, error) {
	customers, err := s.CustomerRepo.ListByUserID(ctx, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &dto.ListCustomersResponse{
		Items: lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
			return dto.NewCustomerResponse(c)
		}),
	}, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil, ierr.NewError("customer not found").
				WithHintf("Customer with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.TaxID != nil {
		c.TaxID = *req.TaxID
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}

	c.UpdatedAt = s.Clock.Now()
	c.UpdatedBy = types.GetUserID(ctx)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	return dto.NewCustomerResponse(c), nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	err := s.CustomerRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return ierr.NewError("customer not found").
				WithHintf("Customer with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	}
	return nil
}
