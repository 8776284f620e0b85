package handler

// --- Request / Response types ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// registerResponse mirrors the contract clients already depend on:
// status is always 1 on success.
type registerResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   int    `json:"status"`
	Message  string `json:"message"`
}

// registerErrorResponse carries the store's validation errors in report order.
type registerErrorResponse struct {
	Errors []string `json:"errors"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	// Expiration is the token's absolute expiry in ISO-8601 UTC.
	Expiration string `json:"expiration"`
	Username   string `json:"username"`
	UserRole   string `json:"userRole"`
}

// loginErrorResponse is the uniform credential-mismatch envelope. The same
// message covers unknown user and wrong password.
type loginErrorResponse struct {
	LoginError string `json:"loginError"`
}

// systemErrorResponse is returned when the flow itself failed, as opposed
// to the credentials being wrong.
type systemErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

const (
	msgRegistrationOK  = "Registration successful"
	msgLoginDenied     = "Please check login credential username and password"
	msgLoginFailed     = "Login failed"
	msgTooManyAttempts = "Too many login attempts, retry later"
)
