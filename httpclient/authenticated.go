package httpclient

import (
	"net/http"
	"sync/atomic"
)

// APIKeyParam is the query parameter carrying the API key
const APIKeyParam = "api_key"

// Credential is an opaque API key
type Credential struct {
	APIKey string
}

// QueryParam returns the credential as an api_key query pair
func (c Credential) QueryParam() QueryParam {
	return QueryParam{Name: APIKeyParam, Value: c.APIKey}
}

// AuthenticatedClient signs every outgoing request with a Credential by
// appending it to the query string.
type AuthenticatedClient struct {
	decoratee  Client
	credential Credential
	closed     atomic.Bool
}

// NewAuthenticatedClient wraps decoratee so every request carries credential
func NewAuthenticatedClient(decoratee Client, credential Credential) *AuthenticatedClient {
	return &AuthenticatedClient{
		decoratee:  decoratee,
		credential: credential,
	}
}

// Dispatch forwards a signed copy of req. The caller's request is not modified.
func (c *AuthenticatedClient) Dispatch(req *http.Request, completion Completion) Task {
	task := c.decoratee.Dispatch(c.sign(req), func(resp *Response, err error) {
		if c.closed.Load() {
			return
		}
		completion(resp, err)
	})
	return TaskFunc(func() { cancelTask(task) })
}

// Close drops completions that arrive after it returns. In-flight exchanges are not cancelled.
func (c *AuthenticatedClient) Close() {
	c.closed.Store(true)
}

func (c *AuthenticatedClient) sign(original *http.Request) *http.Request {
	if original.URL == nil {
		return original
	}
	signed := original.Clone(original.Context())
	signed.URL = AppendQuery(original.URL, c.credential.QueryParam())
	return signed
}
