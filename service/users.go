package service

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/emzola/athenaeum/clients"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/mailer"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
)

type users interface {
	RegisterUser(r *http.Request) (*data.User, error)
	ActivateUser(token string) (*data.User, error)
	ShowUser(userID int64) (*data.User, error)
	ListUsers(search string, role string, filters data.Filters) ([]*data.User, data.Metadata, error)
	UpdateUser(ID int64, requestBody dto.UpdateUserRequestBody) (*data.User, error)
	UpdateUserPassword(ID int64, old string, new string, confirm string) (*data.User, error)
	DeleteUser(ID int64) error
	ResetUserPassword(password string, token string) error
	GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error)
	ListUserRequests(userID int64, status string, filters data.Filters) ([]*data.Request, data.Metadata, error)
	ListUserLoans(userID int64, status string, filters data.Filters) ([]*data.Loan, data.Metadata, error)
}

// RegisterUser service registers a new user. Registration is a multipart
// form because it may carry a profile image alongside the account fields.
func (s *service) RegisterUser(r *http.Request) (*data.User, error) {
	err := r.ParseMultipartForm(5000)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	form := dto.RegisterUserForm{
		Name:         r.FormValue("name"),
		Username:     r.FormValue("username"),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		Password:     r.FormValue("password"),
		Role:         r.FormValue("role"),
		Subscription: r.FormValue("subscription"),
	}
	if form.Role == "" {
		form.Role = data.RoleUser
	}
	if form.Subscription == "" {
		form.Subscription = data.SubscriptionNone
	}
	user := &data.User{
		Name:         form.Name,
		Username:     form.Username,
		Email:        form.Email,
		Phone:        form.Phone,
		Role:         form.Role,
		Subscription: form.Subscription,
		Activated:    false,
	}
	err = user.Password.Set(form.Password)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	// Upload the profile image if one was attached to the form
	file, fileHeader, err := r.FormFile("profile_pic")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return nil, ErrBadRequest
	}
	if err == nil {
		defer file.Close()
		buffer, mtype, err := s.detectMimeType(file, fileHeader)
		if err != nil {
			return nil, err
		}
		supportedMediaType := []string{
			"image/jpeg",
			"image/png",
		}
		if validMime := validator.Mime(mtype, supportedMediaType...); !validMime {
			return nil, ErrUnsupportedMediaType
		}
		s3Client, err := clients.NewS3Client(s.config)
		if err != nil {
			return nil, err
		}
		profilePic, err := s.uploadFileToS3(s3Client, buffer, mtype, fileHeader, data.ScopeProfilePic)
		if err != nil {
			return nil, err
		}
		user.ProfilePic = profilePic
	}
	err = s.repo.RegisterUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("email", "a user with this email address or username already exists")
			ErrDuplicateRecord = s.failedValidation(v.Errors)
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	// Generate a new activation token for user
	token, err := s.repo.CreateNewToken(user.ID, 3*24*time.Hour, data.ScopeActivation)
	if err != nil {
		return nil, err
	}
	// Send welcome email in a background goroutine to speed up response time
	s.background(func() {
		data := map[string]string{
			"userName":        strings.Split(user.Name, " ")[0],
			"activationToken": token.Plaintext,
		}
		mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
		err := mailer.Send(user.Email, "user_welcome.tmpl", data)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return user, nil
}

// ActivateUser service activates a newly registered user.
func (s *service) ActivateUser(token string) (*data.User, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, token); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	// Retrieve user associated with the activation token. If the user record
	// isn't found, it means the token is invalid
	user, err := s.repo.GetUserForToken(data.ScopeActivation, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired activation token")
			ErrFailedValidation = s.failedValidation(v.Errors)
			return nil, ErrFailedValidation
		default:
			return nil, err
		}
	}
	// Activate user
	user.Activated = true
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	// Delete all activation tokens for user
	err = s.repo.DeleteAllTokensForUser(data.ScopeActivation, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ShowUser service shows the details of a specific user.
func (s *service) ShowUser(userID int64) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// ListUsers service retrieves a paginated list of accounts. Records can be
// searched by name, username or email and filtered by role.
func (s *service) ListUsers(search string, role string, filters data.Filters) ([]*data.User, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	users, metadata, err := s.repo.GetAllUsers(search, role, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return users, metadata, nil
}

// UpdateUser service updates the details of a specific user.
func (s *service) UpdateUser(ID int64, requestBody dto.UpdateUserRequestBody) (*data.User, error) {
	user, err := s.repo.GetUserByID(ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if requestBody.Name != nil {
		user.Name = *requestBody.Name
	}
	if requestBody.Email != nil {
		user.Email = *requestBody.Email
	}
	if requestBody.Phone != nil {
		user.Phone = *requestBody.Phone
	}
	if requestBody.Subscription != nil {
		user.Subscription = *requestBody.Subscription
	}
	v := validator.New()
	data.ValidateName(v, user.Name)
	data.ValidateEmail(v, user.Email)
	data.ValidatePhone(v, user.Phone)
	data.ValidateSubscription(v, user.Subscription)
	if !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("email", "a user with this email address already exists")
			ErrFailedValidation = s.failedValidation(v.Errors)
			return nil, ErrFailedValidation
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// UpdateUserPassword service updates an authenticated user's password.
func (s *service) UpdateUserPassword(ID int64, old string, new string, confirm string) (*data.User, error) {
	// Validate password data
	v := validator.New()
	data.ValidatePasswordPlaintext(v, old)
	data.ValidatePasswordPlaintext(v, new)
	if !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	if new != confirm {
		return nil, ErrPasswordMismatch
	}
	// Retrieve user by ID
	user, err := s.repo.GetUserByID(ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}
	// Check whether old matches the old password hash equivalent in the User data.
	// If there is a match, proceed and update password. Otherwise return with error.
	match, err := user.Password.Matches(old)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	err = user.Password.Set(new)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	// Send password change notification email in a background goroutine to speed up response time
	s.background(func() {
		data := map[string]string{
			"userName": strings.Split(user.Name, " ")[0],
		}
		mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
		err = mailer.Send(user.Email, "user_password_change.tmpl", data)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return user, nil
}

// DeleteUser service deletes a user. An account holding books cannot be
// deleted until the books are returned or revoked.
func (s *service) DeleteUser(ID int64) error {
	openLoans, err := s.repo.CountOpenLoansForUser(ID)
	if err != nil {
		return err
	}
	if openLoans > 0 {
		return ErrBookAssigned
	}
	err = s.repo.DeleteUser(ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ResetUserPassword service resets a registered user's password.
func (s *service) ResetUserPassword(password string, token string) error {
	v := validator.New()
	data.ValidateTokenPlaintext(v, token)
	data.ValidatePasswordPlaintext(v, password)
	if !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return ErrFailedValidation
	}
	// Retrieve user associated with password reset token
	user, err := s.repo.GetUserForToken(data.ScopePasswordReset, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired token")
			ErrFailedValidation = s.failedValidation(v.Errors)
			return ErrFailedValidation
		default:
			return err
		}
	}
	// Set new passsword
	err = user.Password.Set(password)
	if err != nil {
		return err
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return ErrEditConflict
		default:
			return err
		}
	}
	// Delete all password reset tokens for user
	err = s.repo.DeleteAllTokensForUser(data.ScopePasswordReset, user.ID)
	if err != nil {
		return err
	}
	// Send password change notification email in a background goroutine to speed up response time
	s.background(func() {
		data := map[string]string{
			"userName": strings.Split(user.Name, " ")[0],
		}
		mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
		err = mailer.Send(user.Email, "user_password_change.tmpl", data)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return nil
}

// GetUserForToken retrieves the user associated with a token.
func (s *service) GetUserForToken(tokenScope string, token string) (*data.User, error) {
	v := validator.New()
	user, err := s.repo.GetUserForToken(tokenScope, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired token")
			ErrFailedValidation = s.failedValidation(v.Errors)
			return nil, ErrFailedValidation
		default:
			return nil, err
		}
	}
	return user, nil
}

// ListUserRequests service retrieves a paginated list of all user requests.
// Records can be filtered and sorted.
func (s *service) ListUserRequests(userID int64, status string, filters data.Filters) ([]*data.Request, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	requests, metadata, err := s.repo.GetAllRequestsForUser(userID, status, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return requests, metadata, nil
}

// ListUserLoans service retrieves a paginated list of a user's ledger
// entries. Records can be filtered and sorted.
func (s *service) ListUserLoans(userID int64, status string, filters data.Filters) ([]*data.Loan, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	loans, metadata, err := s.repo.GetAllLoansForUser(userID, status, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	for _, loan := range loans {
		loan.Status = loan.CurrentStatus(time.Now())
	}
	return loans, metadata, nil
}
