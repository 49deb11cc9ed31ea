package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateUserRequest registers a customer. Any role sent by the client is ignored.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"omitempty,max=100"`
	Photo string `json:"photo" validate:"omitempty,url"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CreateUserResponse carries either an insert acknowledgement or, when the
// email is already registered, a message and a null insertedId.
type CreateUserResponse struct {
	Message      string  `json:"message,omitempty"`
	Acknowledged bool    `json:"acknowledged"`
	InsertedID   *string `json:"insertedId"`
}

type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}
