package smileid

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/gaborage/go-smileid/config"
	"github.com/gaborage/go-smileid/httpclient"
	"github.com/gaborage/go-smileid/logger"
	"github.com/gaborage/go-smileid/signature"
)

// base holds what every API surface shares.
type base struct {
	cfg       config.SmileIDConfig
	client    httpclient.Client
	signer    *signature.Engine
	logger    logger.Logger
	validator *Validator
}

type rawSetter interface {
	setRaw(map[string]any)
}

func (b *base) configured() error {
	if b.cfg.PartnerID == "" || b.cfg.APIKey == "" {
		return ErrNotConfigured
	}
	return nil
}

func (b *base) sign() signature.Pair {
	return b.signer.Sign(b.cfg.PartnerID, b.cfg.APIKey)
}

func (b *base) retryPolicy() httpclient.RetryPolicy {
	return httpclient.RetryPolicy{
		MaxRetries:    b.cfg.Retry.Max,
		RetryDelay:    b.cfg.Retry.Delay,
		MaxRetryDelay: b.cfg.Retry.MaxDelay,
	}
}

// endpointURL joins the base URL and endpoint and appends params, skipping nil and empty values.
func (b *base) endpointURL(endpoint string, params map[string]any) (string, error) {
	u, err := url.Parse(b.cfg.BaseURL + endpoint)
	if err != nil {
		return "", fmt.Errorf("smileid: invalid endpoint %q: %w", endpoint, err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	query := u.Query()
	for key, value := range params {
		if value == nil {
			continue
		}
		s := fmt.Sprint(value)
		if s == "" {
			continue
		}
		query.Add(key, s)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// do executes one API call and decodes the JSON response into out when out is non-nil.
func (b *base) do(ctx context.Context, method, endpoint string, params map[string]any, body, out any) error {
	target, err := b.endpointURL(endpoint, params)
	if err != nil {
		return err
	}

	resp, err := b.client.Execute(ctx, &httpclient.Request{
		Method:  method,
		URL:     target,
		Body:    body,
		Timeout: b.cfg.Timeout,
	}, b.retryPolicy())
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeInto(endpoint, resp, out)
}

// decodeInto fills out from the body the client already decoded. Text and other
// non-JSON bodies leave out untouched, and a malformed JSON body arrives here as an
// empty object unless the client decodes strictly.
func decodeInto(endpoint string, resp *httpclient.Response, out any) error {
	switch resp.Data.(type) {
	case map[string]any, []any:
	default:
		return nil
	}

	raw, err := json.Marshal(resp.Data)
	if err == nil {
		err = json.Unmarshal(raw, out)
	}
	if err != nil {
		return httpclient.WrapError(resp.StatusCode, httpclient.Unknown,
			fmt.Sprintf("decode %s response", endpoint), resp.Data, err)
	}
	if setter, ok := out.(rawSetter); ok {
		if data, ok := resp.Data.(map[string]any); ok {
			setter.setRaw(data)
		}
	}
	return nil
}

func (b *base) post(ctx context.Context, endpoint string, body, out any) error {
	return b.do(ctx, nethttp.MethodPost, endpoint, nil, body, out)
}

// droppedExtra logs extra payload keys that collide with named fields.
func (b *base) droppedExtra(endpoint string) func(string) {
	return func(key string) {
		b.logger.Warn().
			Str("endpoint", endpoint).
			Str("key", key).
			Msg("Ignoring extra payload field that collides with a reserved field")
	}
}

// Get calls endpoint with params as the query string and decodes the JSON response into out.
// It is intended for endpoints without a typed wrapper; the request is not signed.
func (s *Service) Get(ctx context.Context, endpoint string, params map[string]any, out any) error {
	return s.base.do(ctx, nethttp.MethodGet, endpoint, params, nil, out)
}

// Post sends body to endpoint and decodes the JSON response into out.
func (s *Service) Post(ctx context.Context, endpoint string, body, out any) error {
	return s.base.post(ctx, endpoint, body, out)
}

// Put sends body to endpoint with PUT and decodes the JSON response into out.
func (s *Service) Put(ctx context.Context, endpoint string, body, out any) error {
	return s.base.do(ctx, nethttp.MethodPut, endpoint, nil, body, out)
}

// Delete calls endpoint with DELETE and decodes the JSON response into out.
func (s *Service) Delete(ctx context.Context, endpoint string, out any) error {
	return s.base.do(ctx, nethttp.MethodDelete, endpoint, nil, nil, out)
}
