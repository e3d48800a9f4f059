package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
	IsActive   bool    `json:"is_active"`
	CustomerID *string `json:"customer_id"`
}

// TokenResponse mirrors the access/refresh pair issued at login.
type TokenResponse struct {
	Access    string       `json:"access"`
	Refresh   string       `json:"refresh"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"`
	User      UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Username   string  `json:"username"    validate:"required,min=3,max=150"`
	Password   string  `json:"password"    validate:"required,min=8"`
	Email      string  `json:"email"       validate:"omitempty,email"`
	FullName   string  `json:"full_name"   validate:"max=200"`
	Role       string  `json:"role"        validate:"required,oneof=admin cashier customer"`
	CustomerID *string `json:"customer_id" validate:"omitempty,uuid"`
}
