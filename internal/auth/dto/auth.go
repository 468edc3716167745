package dto

import authdomain "taskflow-backend/internal/auth/domain"

type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}

type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   int64            `json:"expires_at"`
	User        *authdomain.User `json:"user"`
}

type RegisterFCMTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}
