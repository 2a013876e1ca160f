package main

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// apiClient wraps resty with the shared base URL and bearer key. Requests
// that fail at the network level or with a 5xx are retried with exponential
// backoff; 4xx responses surface immediately.
type apiClient struct {
	rc *resty.Client
}

func newAPIClient() *apiClient {
	rc := resty.New().
		SetBaseURL(apiFlag).
		SetTimeout(2 * time.Minute)
	if keyFlag != "" {
		rc.SetAuthToken(keyFlag)
	}
	return &apiClient{rc: rc}
}

func retryPolicy() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second
	return bo
}

func (c *apiClient) do(method, path string, body interface{}) ([]byte, error) {
	var out []byte
	op := func() error {
		req := c.rc.R()
		if body != nil {
			req.SetHeader("Content-Type", "application/json").SetBody(body)
		}
		resp, err := req.Execute(method, path)
		if err != nil {
			return err
		}
		code := resp.StatusCode()
		if code >= 500 {
			return fmt.Errorf("http %d: %s", code, resp.String())
		}
		if code >= 400 {
			return backoff.Permanent(fmt.Errorf("http %d: %s", code, resp.String()))
		}
		out = resp.Body()
		return nil
	}
	if err := backoff.Retry(op, retryPolicy()); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) get(path string) ([]byte, error) { return c.do("GET", path, nil) }
func (c *apiClient) post(path string, body interface{}) ([]byte, error) {
	return c.do("POST", path, body)
}
func (c *apiClient) put(path string, body interface{}) ([]byte, error) {
	return c.do("PUT", path, body)
}
