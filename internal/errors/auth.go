package errors

var (
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
	}
	ErrUserExists = &DomainError{
		Code:    "USER_EXISTS",
		Message: "a user with this email already exists",
	}
)
