// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client talks to the vote-mcd HTTP and WebSocket surface. Every
// failure is returned as an *apierr.Error so callers can branch on its kind.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/middleware"
	"github.com/dncmaduro/vote-mcd/models"
)

// Client is an explicitly constructed connection to one server. The admin
// secret is only sent on admin routes.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	adminSecret string
	lang        string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAdminSecret sets the secret sent on admin routes.
func WithAdminSecret(secret string) Option {
	return func(c *Client) { c.adminSecret = secret }
}

// WithLanguage sets the ?lang value sent on admin listing.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.lang = lang }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PublicEvent fetches the event, its options and counts by slug.
func (c *Client) PublicEvent(ctx context.Context, slug string) (models.PublicEventResponse, error) {
	var out models.PublicEventResponse
	err := c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(slug)+"/public", nil, false, apierr.KindTransient, &out)
	return out, err
}

// Results fetches the ranked standings by slug.
func (c *Client) Results(ctx context.Context, slug string) (models.ResultsResponse, error) {
	var out models.ResultsResponse
	err := c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(slug)+"/results", nil, false, apierr.KindTransient, &out)
	return out, err
}

// Vote submits one ballot. A duplicate comes back as a KindConflict error.
func (c *Client) Vote(ctx context.Context, req models.VoteRequest) error {
	return c.do(ctx, http.MethodPost, "/api/vote", req, false, apierr.KindClosed, nil)
}

// AdminEvents lists all events in the server's admin order.
func (c *Client) AdminEvents(ctx context.Context) ([]models.Event, error) {
	path := "/api/admin/events"
	if c.lang != "" {
		path += "?lang=" + url.QueryEscape(c.lang)
	}
	var out models.AdminEventsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, true, apierr.KindAuth, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// SetVoteStatus opens or closes voting for eventID.
func (c *Client) SetVoteStatus(ctx context.Context, eventID, status string) error {
	path := "/api/admin/events/" + url.PathEscape(eventID) + "/vote-status"
	return c.do(ctx, http.MethodPost, path, models.SetVoteStatusRequest{Status: status}, true, apierr.KindAuth, nil)
}

// do performs one JSON round trip. forbidden is the kind a bare 403 maps
// to on this route.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, admin bool, forbidden apierr.Kind, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return apierr.Wrap(apierr.KindShape, "encode request", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apierr.Wrap(apierr.KindShape, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set(middleware.AdminSecretHeader, c.adminSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Wrap(apierr.KindTransient, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp, forbidden)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierr.Wrap(apierr.KindTransient, "decode response", err)
	}
	return nil
}

func decodeError(resp *http.Response, forbidden apierr.Kind) error {
	var body models.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	kind, ok := apierr.FromCode(body.Code)
	if !ok {
		kind = apierr.FromStatus(resp.StatusCode, forbidden)
	}

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = resp.Status
	}

	e := apierr.New(kind, msg)
	e.Invalid = body.Invalid
	e.Cause = fmt.Errorf("server returned %s", resp.Status)
	return e
}
