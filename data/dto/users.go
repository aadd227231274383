package dto

import "github.com/emzola/athenaeum/data"

// RegisterUserForm defines the multipart form fields for RegisterUser service.
// Registration is multipart rather than JSON because it may carry a profile
// image upload.
type RegisterUserForm struct {
	Name         string
	Username     string
	Email        string
	Phone        string
	Password     string
	Role         string
	Subscription string
}

// ActivateUserRequestBody defines a request body for ActivateUser service.
type ActivateUserRequestBody struct {
	TokenPlaintext string `json:"token"`
}

// ResetUserPasswordRequestBody defines a request body for ResetUserPassword service.
type ResetUserPasswordRequestBody struct {
	Password       string `json:"password"`
	TokenPlaintext string `json:"token"`
}

// UpdateUserRequestBody defines a request body for UpdateUser service.
type UpdateUserRequestBody struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Subscription *string `json:"subscription"`
}

// UpdateUserPasswordRequestBody defines a request body for UpdateUserPassword service.
type UpdateUserPasswordRequestBody struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// QsListUsers defines query strings for ListUsers service.
type QsListUsers struct {
	Search  string
	Role    string
	Filters data.Filters
}

// QsListUserRequests defines query strings for ListUserRequests service.
type QsListUserRequests struct {
	Status  string
	Filters data.Filters
}

// QsListUserLoans defines query strings for ListUserLoans service.
type QsListUserLoans struct {
	Status  string
	Filters data.Filters
}
