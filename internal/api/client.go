// Package api is the configured HTTP client every storefront service goes
// through. It owns the one cross-cutting concern of the gateway: stamping the
// current user id on each outgoing request.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// UserIDHeader carries the signed-in user id on every request.
	UserIDHeader = "user-id"
	// AnonymousUserID is sent in UserIDHeader when nobody is signed in.
	AnonymousUserID = "null"
)

// IdentitySource yields the id of the current user, or "" when there is none.
// It is consulted at request time, not at construction.
type IdentitySource interface {
	UserID() string
}

// Config holds the client settings.
type Config struct {
	BaseURL string
	// Timeout of 0 leaves the transport default (no client-side timeout).
	Timeout   time.Duration
	UserAgent string
}

// Client issues JSON requests against the storefront backend.
type Client struct {
	cfg      Config
	identity IdentitySource
	logger   *zap.Logger
}

// NewClient creates a Client. identity may be nil, in which case every request is anonymous.
func NewClient(cfg Config, identity IdentitySource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, identity: identity, logger: logger}
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Get issues a GET and decodes the response into out (which may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, fiber.MethodGet, path, nil, out)
}

// Post issues a POST with body encoded as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, fiber.MethodPost, path, body, out)
}

// Delete issues a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, fiber.MethodDelete, path, nil, out)
}

func (c *Client) userID() string {
	if c.identity == nil {
		return AnonymousUserID
	}
	if id := c.identity.UserID(); id != "" {
		return id
	}
	return AnonymousUserID
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	// A request that has been handed to the transport cannot be cancelled;
	// the context only stops requests that have not been issued yet.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.cfg.BaseURL + path)

	userID := c.userID()
	agent.Set(UserIDHeader, userID)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.cfg.UserAgent != "" {
		agent.UserAgent(c.cfg.UserAgent)
	}
	if c.cfg.Timeout > 0 {
		agent.Timeout(c.cfg.Timeout)
	}
	if body != nil {
		agent.JSON(body)
	}

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("%s %s: invalid request: %w", method, path, err)
	}

	start := time.Now()
	// Bytes releases the agent.
	code, respBody, errs := agent.Bytes()
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("user_id", userID),
		zap.Int("status", code),
		zap.Duration("elapsed", time.Since(start)),
	)
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return newHTTPError(method, path, code, respBody)
	}

	if out == nil || code == fiber.StatusNoContent || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}
