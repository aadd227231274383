package dto

// CreateActivationTokenRequestBody defines a request body for CreateActivationToken service.
type CreateActivationTokenRequestBody struct {
	Email string `json:"email"`
}

// CreateAuthenticationTokenRequestBody defines a request body for CreateAuthenticationToken service.
// Login is by username, matching the registration flow.
type CreateAuthenticationTokenRequestBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreatePasswordResetTokenRequestBody defines a request body for CreatePasswordResetToken service.
type CreatePasswordResetTokenRequestBody struct {
	Email string `json:"email"`
}
