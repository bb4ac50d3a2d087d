package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	RUT      string `json:"rut"      validate:"required,min=1,max=20"`
	Password string `json:"password" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// UserInfo is the payload of the session token, repeated in the login response.
type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
