package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/peerex/p2p-escrow-service/internal/domain"
)

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeValidation:        http.StatusBadRequest,
	domain.CodeInsufficientFunds: http.StatusPaymentRequired,
	domain.CodeStateConflict:     http.StatusConflict,
	domain.CodeNotFound:          http.StatusNotFound,
	domain.CodeUnauthorized:      http.StatusForbidden,
	domain.CodeExternalService:   http.StatusBadGateway,
}

// respondError maps the error taxonomy onto HTTP statuses. State conflicts
// additionally return the observed status so the client can re-fetch and
// decide instead of blindly retrying.
func respondError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := gin.H{"error": err.Error(), "code": string(code)}
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Expected != "" {
		body["expected_status"] = domainErr.Expected
		body["actual_status"] = domainErr.Actual
	}
	c.JSON(status, body)
}
