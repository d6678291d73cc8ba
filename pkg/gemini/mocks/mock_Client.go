// Package mocks provides test doubles for the gemini client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	gemini "github.com/sells-group/bizscout/pkg/gemini"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// GenerateContent provides a mock function with given fields: ctx, apiKey, model, req
func (_m *MockClient) GenerateContent(ctx context.Context, apiKey string, model string, req gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	ret := _m.Called(ctx, apiKey, model, req)

	if len(ret) == 0 {
		panic("no return value specified for GenerateContent")
	}

	var r0 *gemini.GenerateResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, gemini.GenerateRequest) (*gemini.GenerateResponse, error)); ok {
		return rf(ctx, apiKey, model, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string, gemini.GenerateRequest) *gemini.GenerateResponse); ok {
		r0 = rf(ctx, apiKey, model, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*gemini.GenerateResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string, gemini.GenerateRequest) error); ok {
		r1 = rf(ctx, apiKey, model, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListModels provides a mock function with given fields: ctx, apiKey
func (_m *MockClient) ListModels(ctx context.Context, apiKey string) ([]gemini.Model, error) {
	ret := _m.Called(ctx, apiKey)

	if len(ret) == 0 {
		panic("no return value specified for ListModels")
	}

	var r0 []gemini.Model
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]gemini.Model, error)); ok {
		return rf(ctx, apiKey)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []gemini.Model); ok {
		r0 = rf(ctx, apiKey)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]gemini.Model)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, apiKey)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
