package response

type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenResponse struct {
	Access    string `json:"access"`
	ExpiresAt int64  `json:"expires_at"`
}
