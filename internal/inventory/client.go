package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/session"
	"github.com/vmware/govmomi/vim25"
	"go.uber.org/zap"

	"github.com/arielsanchezmora/vdoc/internal/config"
	"github.com/arielsanchezmora/vdoc/internal/util"
)

var (
	// ErrNoSession indicates there is no authenticated session with the
	// management server. It aborts the whole run.
	ErrNoSession = errors.New("no active session to the management server")
	// ErrNotFound indicates a named host, cluster or datacenter does not
	// exist in the inventory.
	ErrNotFound = errors.New("not found")
)

// Client wraps a govmomi connection and exposes the read-only inventory
// queries the collector needs.
type Client struct {
	vim *vim25.Client

	gc *govmomi.Client

	taskPollInterval util.Duration
	taskTimeout      util.Duration
}

// Connect authenticates against the SDK endpoint and validates the session
// before returning. Any failure here is fatal to the run.
func Connect(ctx context.Context, cfg *config.Config) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", cfg.URL, err)
	}
	u.User = url.UserPassword(cfg.Username, cfg.Password)

	gc, err := govmomi.NewClient(ctx, u, cfg.Insecure)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	c := &Client{
		vim:              gc.Client,
		gc:               gc,
		taskPollInterval: cfg.TaskPollInterval,
		taskTimeout:      cfg.TaskTimeout,
	}
	if err := c.ValidateSession(ctx); err != nil {
		return nil, err
	}
	zap.S().Named("inventory").Infof("connected to %s", u.Host)
	return c, nil
}

// NewFromVim25 builds a client from an existing vim25 connection. Used by
// tests running against the vCenter simulator.
func NewFromVim25(c *vim25.Client) *Client {
	return &Client{vim: c}
}

// ValidateSession confirms the session is authenticated.
func (c *Client) ValidateSession(ctx context.Context) error {
	userSession, err := session.NewManager(c.vim).UserSession(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if userSession == nil {
		return ErrNoSession
	}
	return nil
}

// Logout terminates the session. Safe to call on simulator-backed clients.
func (c *Client) Logout(ctx context.Context) {
	if c.gc == nil {
		return
	}
	if err := c.gc.Logout(ctx); err != nil {
		zap.S().Named("inventory").Debugf("logout: %v", err)
	}
}
