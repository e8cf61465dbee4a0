package request

// Public sign-up always creates a client account.
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"first_name" validate:"required,max=50"`
	LastName  string  `json:"last_name" validate:"required,max=50"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`

	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`

	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}
