package mocks

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/go-smileid/httpclient"
)

// MockClient provides a testify-based implementation of httpclient.Client.
//
// Example usage:
//
//	client := &mocks.MockClient{}
//	client.ExpectExecute(http.MethodPost, "/job_status", &httpclient.Response{StatusCode: 200}, nil)
//	svc := smileid.New(cfg, smileid.WithHTTPClient(client))
type MockClient struct {
	mock.Mock
}

var _ httpclient.Client = (*MockClient)(nil)

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Execute implements httpclient.Client
func (m *MockClient) Execute(ctx context.Context, req *httpclient.Request, policy httpclient.RetryPolicy) (*httpclient.Response, error) {
	args := m.Called(ctx, req, policy)
	var resp *httpclient.Response
	if r := args.Get(0); r != nil {
		resp = r.(*httpclient.Response)
	}
	return resp, args.Error(1)
}

// ExpectExecute matches requests by method and URL suffix.
func (m *MockClient) ExpectExecute(method, urlSuffix string, resp *httpclient.Response, err error) *mock.Call {
	return m.On("Execute", mock.Anything, mock.MatchedBy(func(req *httpclient.Request) bool {
		return req.Method == method && strings.HasSuffix(req.URL, urlSuffix)
	}), mock.Anything).Return(resp, err)
}

// ExpectExecuteAny matches every request.
func (m *MockClient) ExpectExecuteAny(resp *httpclient.Response, err error) *mock.Call {
	return m.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(resp, err)
}

// Requests returns the requests passed to Execute, in call order.
func (m *MockClient) Requests() []*httpclient.Request {
	var reqs []*httpclient.Request
	for _, call := range m.Calls {
		if call.Method != "Execute" {
			continue
		}
		if req, ok := call.Arguments.Get(1).(*httpclient.Request); ok {
			reqs = append(reqs, req)
		}
	}
	return reqs
}
