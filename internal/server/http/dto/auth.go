package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterRequest is the sign up payload.
type RegisterRequest struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ErrorResponse is the body of a rejected request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
