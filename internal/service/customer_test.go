package service

import (
	"testing"

	"github.com/openbill/openbill/internal/api/dto"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Clock:        s.GetClock(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		CustomerRepo: s.GetStores().CustomerRepo,
	})
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	resp, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		Name:  "Acme Ltd",
		Email: "billing@acme.test",
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Contains(resp.ID, "cust_")
	s.Equal("Acme Ltd", resp.Name)
}

func (s *CustomerServiceSuite) TestCreateCustomerRequiresName() {
	_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestUpdateCustomer() {
	created, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		Name: "Acme Ltd",
	})
	s.NoError(err)

	updated, err := s.service.UpdateCustomer(s.GetContext(), created.ID, dto.UpdateCustomerRequest{
		Email: lo.ToPtr("ap@acme.test"),
		Phone: lo.ToPtr("+44 20 0000 0000"),
	})
	s.NoError(err)
	s.Equal("ap@acme.test", updated.Email)
	s.Equal("Acme Ltd", updated.Name)
}

func (s *CustomerServiceSuite) TestListCustomersScopedToUser() {
	_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{Name: "Beta SA"})
	s.NoError(err)
	_, err = s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{Name: "Alpha GmbH"})
	s.NoError(err)

	resp, err := s.service.ListCustomers(s.GetContext())
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal("Alpha GmbH", resp.Items[0].Name)
}

func (s *CustomerServiceSuite) TestDeleteCustomer() {
	created, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{Name: "Acme Ltd"})
	s.NoError(err)

	s.NoError(s.service.DeleteCustomer(s.GetContext(), created.ID))

	_, err = s.service.GetCustomer(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
