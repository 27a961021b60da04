// Package airtable is a small client for the hosted tabular-database REST API that
// backs the registry. It covers the four calls the data layer needs: list, create,
// update and delete. Only the first page of a list is fetched.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.airtable.com/v0"

// RequestIDHeader carries the per-request id used to correlate logs.
const RequestIDHeader = "X-Request-Id"

// Config holds connection settings for a single base.
type Config struct {
	BaseURL string
	BaseID  string
	APIKey  string
	Timeout time.Duration
}

// Client talks to one base.
type Client struct {
	baseURL string
	baseID  string
	http    *http.Client
	log     zerolog.Logger
}

// tokenTransport adds the bearer token and a request id to every request.
type tokenTransport struct {
	Transport http.RoundTripper
	Token     string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt := t.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.Token)
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return rt.RoundTrip(req)
}

// NewClient builds a Client. A nil httpClient uses a default client with cfg.Timeout.
func NewClient(cfg Config, log zerolog.Logger, httpClient *http.Client) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	wrapped := *httpClient
	wrapped.Transport = &tokenTransport{Transport: httpClient.Transport, Token: cfg.APIKey}

	return &Client{
		baseURL: baseURL,
		baseID:  cfg.BaseID,
		http:    &wrapped,
		log:     log.With().Str("module", "airtable").Logger(),
	}
}

func (c *Client) tableURL(table string, id string) string {
	u := c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func encodeQuery(q Query) url.Values {
	v := url.Values{}
	if q.View != "" {
		v.Set("view", q.View)
	}
	if q.MaxRecords > 0 {
		v.Set("maxRecords", strconv.Itoa(q.MaxRecords))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.FilterByFormula != "" {
		v.Set("filterByFormula", q.FilterByFormula)
	}
	for i, s := range q.Sort {
		v.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		if s.Direction != "" {
			v.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
		}
	}
	for _, f := range q.Fields {
		v.Add("fields[]", f)
	}
	return v
}

// FetchRecords lists the first page of records in table matching q.
func (c *Client) FetchRecords(ctx context.Context, table string, q Query) ([]Record, error) {
	endpoint := c.tableURL(table, "")
	if params := encodeQuery(q).Encode(); params != "" {
		endpoint += "?" + params
	}

	var out listResponse
	if err := c.do(ctx, http.MethodGet, table, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if out.Offset != "" {
		c.log.Debug().Str("table", table).Int("records", len(out.Records)).Msg("more pages available, returning first page only")
	}
	return out.Records, nil
}

// CreateRecord creates one record and returns it as stored upstream.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) (Record, error) {
	var out Record
	err := c.do(ctx, http.MethodPost, table, c.tableURL(table, ""), writeRequest{Fields: fields, Typecast: true}, &out)
	return out, err
}

// UpdateRecord patches the given fields of one record.
func (c *Client) UpdateRecord(ctx context.Context, table, id string, fields map[string]any) (Record, error) {
	if id == "" {
		return Record{}, errors.New("airtable: update requires a record id")
	}
	var out Record
	err := c.do(ctx, http.MethodPatch, table, c.tableURL(table, id), writeRequest{Fields: fields, Typecast: true}, &out)
	return out, err
}

// DeleteRecord deletes one record.
func (c *Client) DeleteRecord(ctx context.Context, table, id string) (bool, error) {
	if id == "" {
		return false, errors.New("airtable: delete requires a record id")
	}
	var out deleteResponse
	if err := c.do(ctx, http.MethodDelete, table, c.tableURL(table, id), nil, &out); err != nil {
		return false, err
	}
	return out.Deleted, nil
}

func (c *Client) do(ctx context.Context, method, table, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With().Str("request_id", requestID).Str("method", method).Str("table", table).Logger()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("request failed")
		return errors.Wrapf(err, "%s %s", method, table)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	log.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("upstream call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(table, resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "failed to unmarshal response")
	}
	return nil
}
