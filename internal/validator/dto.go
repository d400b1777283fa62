package validator

// SignupRequest creates a dashboard account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// SigninRequest authenticates an existing account.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StudentCreateRequest adds a tracked student.
type StudentCreateRequest struct {
	Name                  string `json:"name" validate:"required,min=1,max=100"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone" validate:"omitempty,max=32"`
	CodeforcesHandle      string `json:"codeforcesHandle" validate:"required,cf_handle"`
	EmailRemindersEnabled *bool  `json:"emailRemindersEnabled"`
}

// StudentUpdateRequest mutates an existing student; nil fields are untouched.
type StudentUpdateRequest struct {
	Name                  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email                 *string `json:"email" validate:"omitempty,email"`
	Phone                 *string `json:"phone" validate:"omitempty,max=32"`
	CodeforcesHandle      *string `json:"codeforcesHandle" validate:"omitempty,cf_handle"`
	EmailRemindersEnabled *bool   `json:"emailRemindersEnabled"`
}

// ContactRequest relays a contact-form message to the operators.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}
