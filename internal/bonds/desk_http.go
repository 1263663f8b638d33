package bonds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	id "sovmint/pkg/domain"
)

// HTTPDesk talks to a remote bond desk over its JSON API.
type HTTPDesk struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDesk constructs a desk client. client may be nil.
func NewHTTPDesk(baseURL string, client *http.Client) *HTTPDesk {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPDesk{baseURL: baseURL, client: client}
}

type deskOrderRequest struct {
	Bond   string `json:"bond"`
	Amount uint64 `json:"amount"`
}

type deskOrderResponse struct {
	Amount uint64 `json:"amount"`
}

func (d *HTTPDesk) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal desk request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build desk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("bond desk %s: %v: %w", path, err, ErrDeskUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrLiquidationRejected
	case resp.StatusCode >= 500:
		return fmt.Errorf("bond desk %s returned %d: %w", path, resp.StatusCode, ErrDeskUnavailable)
	default:
		return fmt.Errorf("bond desk %s returned %d", path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode desk response: %w", err)
		}
	}
	return nil
}

func (d *HTTPDesk) Purchase(ctx context.Context, bond id.BondID, settlementAmount uint64) (uint64, error) {
	var resp deskOrderResponse
	err := d.post(ctx, "/orders/purchase", deskOrderRequest{Bond: bond.String(), Amount: settlementAmount}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Amount, nil
}

func (d *HTTPDesk) InstantLiquidate(ctx context.Context, bond id.BondID, bondUnits uint64) (uint64, error) {
	var resp deskOrderResponse
	err := d.post(ctx, "/orders/liquidate", deskOrderRequest{Bond: bond.String(), Amount: bondUnits}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Amount, nil
}

func (d *HTTPDesk) IssueDeferredClaim(ctx context.Context, claim DeferredClaim) error {
	return d.post(ctx, "/claims", claim, nil)
}
