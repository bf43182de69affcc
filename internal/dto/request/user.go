package request

// Role is checked by the service so an unknown value gets the dedicated message.
type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required,max=150,username,notreserved"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	FirstName string  `json:"first_name,omitempty" validate:"max=150"`
	LastName  string  `json:"last_name,omitempty" validate:"max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,max=150,username,notreserved"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty"`
}
