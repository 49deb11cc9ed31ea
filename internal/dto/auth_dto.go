package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// TokenRequest is the identity claim a client asks to have signed.
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"omitempty,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TokenResponse struct {
	Token string `json:"token"`
}
