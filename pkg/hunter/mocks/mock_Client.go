// Package mocks provides test doubles for the hunter client.
package mocks

import (
	"context"

	hunter "github.com/sells-group/leadgen-cli/pkg/hunter"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// DomainSearch provides a mock function with given fields: ctx, domain, company
func (_m *MockClient) DomainSearch(ctx context.Context, domain string, company string) (*hunter.DomainSearchResult, error) {
	ret := _m.Called(ctx, domain, company)

	if len(ret) == 0 {
		panic("no return value specified for DomainSearch")
	}

	var r0 *hunter.DomainSearchResult
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*hunter.DomainSearchResult, error)); ok {
		return rf(ctx, domain, company)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *hunter.DomainSearchResult); ok {
		r0 = rf(ctx, domain, company)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*hunter.DomainSearchResult)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, domain, company)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// VerifyEmail provides a mock function with given fields: ctx, email
func (_m *MockClient) VerifyEmail(ctx context.Context, email string) (*hunter.Verification, error) {
	ret := _m.Called(ctx, email)

	if len(ret) == 0 {
		panic("no return value specified for VerifyEmail")
	}

	var r0 *hunter.Verification
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*hunter.Verification, error)); ok {
		return rf(ctx, email)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *hunter.Verification); ok {
		r0 = rf(ctx, email)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*hunter.Verification)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, email)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListLeadLists provides a mock function with given fields: ctx
func (_m *MockClient) ListLeadLists(ctx context.Context) ([]hunter.LeadList, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListLeadLists")
	}

	var r0 []hunter.LeadList
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]hunter.LeadList, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []hunter.LeadList); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]hunter.LeadList)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateLeadList provides a mock function with given fields: ctx, name
func (_m *MockClient) CreateLeadList(ctx context.Context, name string) (*hunter.LeadList, error) {
	ret := _m.Called(ctx, name)

	if len(ret) == 0 {
		panic("no return value specified for CreateLeadList")
	}

	var r0 *hunter.LeadList
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*hunter.LeadList, error)); ok {
		return rf(ctx, name)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *hunter.LeadList); ok {
		r0 = rf(ctx, name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*hunter.LeadList)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, name)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateLead provides a mock function with given fields: ctx, lead
func (_m *MockClient) CreateLead(ctx context.Context, lead hunter.Lead) (*hunter.LeadRef, error) {
	ret := _m.Called(ctx, lead)

	if len(ret) == 0 {
		panic("no return value specified for CreateLead")
	}

	var r0 *hunter.LeadRef
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, hunter.Lead) (*hunter.LeadRef, error)); ok {
		return rf(ctx, lead)
	}
	if rf, ok := ret.Get(0).(func(context.Context, hunter.Lead) *hunter.LeadRef); ok {
		r0 = rf(ctx, lead)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*hunter.LeadRef)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, hunter.Lead) error); ok {
		r1 = rf(ctx, lead)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpsertLead provides a mock function with given fields: ctx, lead
func (_m *MockClient) UpsertLead(ctx context.Context, lead hunter.Lead) (*hunter.LeadRef, error) {
	ret := _m.Called(ctx, lead)

	if len(ret) == 0 {
		panic("no return value specified for UpsertLead")
	}

	var r0 *hunter.LeadRef
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, hunter.Lead) (*hunter.LeadRef, error)); ok {
		return rf(ctx, lead)
	}
	if rf, ok := ret.Get(0).(func(context.Context, hunter.Lead) *hunter.LeadRef); ok {
		r0 = rf(ctx, lead)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*hunter.LeadRef)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, hunter.Lead) error); ok {
		r1 = rf(ctx, lead)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListLeads provides a mock function with given fields: ctx, listID
func (_m *MockClient) ListLeads(ctx context.Context, listID int) ([]hunter.ListedLead, error) {
	ret := _m.Called(ctx, listID)

	if len(ret) == 0 {
		panic("no return value specified for ListLeads")
	}

	var r0 []hunter.ListedLead
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int) ([]hunter.ListedLead, error)); ok {
		return rf(ctx, listID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int) []hunter.ListedLead); ok {
		r0 = rf(ctx, listID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]hunter.ListedLead)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, listID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MoveLead provides a mock function with given fields: ctx, leadID, listID
func (_m *MockClient) MoveLead(ctx context.Context, leadID int, listID int) error {
	ret := _m.Called(ctx, leadID, listID)

	if len(ret) == 0 {
		panic("no return value specified for MoveLead")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int, int) error); ok {
		r0 = rf(ctx, leadID, listID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// DeleteLeadList provides a mock function with given fields: ctx, id
func (_m *MockClient) DeleteLeadList(ctx context.Context, id int) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteLeadList")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int) error); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockClient creates a new instance of MockClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
