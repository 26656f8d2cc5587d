package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type lockRequest struct {
	OwnerID string `json:"owner_id"`
	AssetID string `json:"asset_id"`
	Amount  int64  `json:"amount"`
}

type lockResponse struct {
	LockHandle string `json:"lock_handle"`
}

type releaseRequest struct {
	LockHandle  string `json:"lock_handle"`
	Destination string `json:"destination_owner_id,omitempty"`
	Amount      int64  `json:"amount"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPLedgerAdapter talks to the external ledger service. A 402 from the
// ledger means the owner lacks funds; every other failure, transport included,
// surfaces as an external service error so callers retry instead of
// misreading it as a business rejection.
type HTTPLedgerAdapter struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPLedgerAdapter(baseURL string, timeout time.Duration) *HTTPLedgerAdapter {
	return &HTTPLedgerAdapter{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (a *HTTPLedgerAdapter) Lock(ctx context.Context, ownerID, assetID string, amount int64) (string, error) {
	body, err := json.Marshal(lockRequest{OwnerID: ownerID, AssetID: assetID, Amount: amount})
	if err != nil {
		return "", err
	}

	resp, err := a.post(ctx, "/ledger/lock", body)
	if err != nil {
		return "", domain.NewExternalServiceError("ledger", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewExternalServiceError("ledger", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var lock lockResponse
		if err := json.Unmarshal(respBody, &lock); err != nil {
			return "", domain.NewExternalServiceError("ledger", err)
		}
		return lock.LockHandle, nil
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", domain.NewInsufficientFunds(ownerID, assetID, amount)
	default:
		return "", domain.NewExternalServiceError("ledger", statusError(resp.StatusCode, respBody))
	}
}

func (a *HTTPLedgerAdapter) Release(ctx context.Context, handle, destinationOwnerID string, amount int64) error {
	body, err := json.Marshal(releaseRequest{LockHandle: handle, Destination: destinationOwnerID, Amount: amount})
	if err != nil {
		return err
	}
	return a.mutate(ctx, "/ledger/release", body)
}

func (a *HTTPLedgerAdapter) Refund(ctx context.Context, handle string, amount int64) error {
	body, err := json.Marshal(releaseRequest{LockHandle: handle, Amount: amount})
	if err != nil {
		return err
	}
	return a.mutate(ctx, "/ledger/refund", body)
}

func (a *HTTPLedgerAdapter) mutate(ctx context.Context, path string, body []byte) error {
	resp, err := a.post(ctx, path, body)
	if err != nil {
		return domain.NewExternalServiceError("ledger", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewExternalServiceError("ledger", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return domain.NewExternalServiceError("ledger", statusError(resp.StatusCode, respBody))
}

func (a *HTTPLedgerAdapter) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.Client.Do(req)
}

func statusError(status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return fmt.Errorf("status %d: %s", status, er.Error)
	}
	return fmt.Errorf("status %d", status)
}
