package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateAccessCodeRequest struct {
	SubscriptionId uuid.UUID `json:"subscription_id" validate:"required"`
}

type GenerateAccessCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifyAccessRequest struct {
	Code        string `json:"code" validate:"required"`
	PrincipalId string `json:"principal_id" validate:"required"`
}

type VerifyAccessResponse struct {
	Success      bool   `json:"success"`
	ResourceLink string `json:"resource_link,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
}

type CheckAccessResponse struct {
	AccessGranted bool       `json:"access_granted"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
