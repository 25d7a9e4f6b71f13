package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hailstack/hailstack/internal/model"
)

const (
	requestRidePath      = "/api/request-ride"
	registerDriverPath   = "/api/register-driver"
	availableDriversPath = "/api/available-drivers"

	requestTimeout = 5 * time.Second
)

// RideRequest is the request-ride payload.
type RideRequest struct {
	UserID      string `json:"user_id"`
	Source      string `json:"source_location"`
	Destination string `json:"destination_location"`
}

// RideResponse is the orchestrator's answer to a ride request. RequestID
// and MatchStatus are only set by servers that match inline.
type RideResponse struct {
	Message     string `json:"message,omitempty"`
	RequestID   int64  `json:"request_id,omitempty"`
	Status      string `json:"status,omitempty"`
	MatchStatus string `json:"driver_match_status,omitempty"`
	ErrorText   string `json:"error,omitempty"`
}

// Unserviced reports whether the orchestrator accepted the request but
// found no driver for it.
func (r RideResponse) Unserviced() bool {
	return strings.Contains(r.MatchStatus, "No driver available")
}

// DriverRegistration is the register-driver payload.
type DriverRegistration struct {
	DriverID string `json:"driver_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Location string `json:"current_location"`
}

// AvailableDriver is one entry of the available-drivers listing.
type AvailableDriver struct {
	DriverID string `json:"driver_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
}

// Client talks to the orchestrator's REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the orchestrator at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

// RequestRide submits a ride request.
func (c *Client) RequestRide(ctx context.Context, req RideRequest) (*RideResponse, error) {
	var resp RideResponse
	if err := c.post(ctx, requestRidePath, req, &resp); err != nil {
		return nil, err
	}
	if resp.ErrorText != "" {
		return nil, model.NewCLIError(model.ExitAPIError,
			fmt.Sprintf("orchestrator rejected ride request: %s", resp.ErrorText))
	}
	return &resp, nil
}

// RegisterDriver registers a new driver.
func (c *Client) RegisterDriver(ctx context.Context, driver model.Driver) error {
	payload := DriverRegistration{
		DriverID: driver.DriverID,
		Name:     driver.Name,
		Status:   driver.Status.String(),
		Location: driver.Location,
	}
	var resp struct {
		ErrorText string `json:"error,omitempty"`
	}
	if err := c.post(ctx, registerDriverPath, payload, &resp); err != nil {
		return err
	}
	if resp.ErrorText != "" {
		return model.NewCLIError(model.ExitAPIError,
			fmt.Sprintf("orchestrator rejected driver %s: %s", driver.DriverID, resp.ErrorText))
	}
	return nil
}

// AvailableDrivers lists drivers currently accepting rides.
func (c *Client) AvailableDrivers(ctx context.Context) ([]AvailableDriver, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+availableDriversPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var body struct {
		Drivers   []AvailableDriver `json:"drivers"`
		ErrorText string            `json:"error,omitempty"`
	}
	if err := c.do(req, &body); err != nil {
		return nil, err
	}
	if body.ErrorText != "" {
		return nil, model.NewCLIError(model.ExitAPIError,
			fmt.Sprintf("orchestrator failed to list drivers: %s", body.ErrorText))
	}
	return body.Drivers, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return model.WrapCLIError(model.ExitAPIError,
			fmt.Sprintf("orchestrator unreachable at %s", c.baseURL), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.NewCLIError(model.ExitAPIError,
			fmt.Sprintf("orchestrator returned %s for %s", resp.Status, req.URL.Path))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
