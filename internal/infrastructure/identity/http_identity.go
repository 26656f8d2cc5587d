package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type verifyResponse struct {
	Verified bool   `json:"verified"`
	Tier     string `json:"tier"`
}

// HTTPIdentityVerifier asks the external identity service whether a
// counterparty may trade and at which tier.
type HTTPIdentityVerifier struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPIdentityVerifier(baseURL string, timeout time.Duration) *HTTPIdentityVerifier {
	return &HTTPIdentityVerifier{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (v *HTTPIdentityVerifier) Verify(ctx context.Context, counterpartyID string) (*domain.IdentityResult, error) {
	url := fmt.Sprintf("%s/identity/%s/verify", v.BaseURL, counterpartyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, domain.NewExternalServiceError("identity", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewExternalServiceError("identity", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewExternalServiceError("identity", fmt.Errorf("status %d", resp.StatusCode))
	}

	var vr verifyResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, domain.NewExternalServiceError("identity", err)
	}
	return &domain.IdentityResult{Verified: vr.Verified, Tier: vr.Tier}, nil
}
