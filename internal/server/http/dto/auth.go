package dto

// LoginRequest describes admin email/password payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse echoes the token also set as cookie.
type LoginResponse struct {
	Token string `json:"token"`
}
