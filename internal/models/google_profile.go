package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// GoogleProfile holds the ID token claims Google returns after sign-in.
// EmailVerified is a pointer so that an absent claim can be told apart
// from false.
type GoogleProfile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	FamilyName    string `json:"family_name"`
	GivenName     string `json:"given_name"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// SchemaError reports a provider profile that does not match the expected
// claim set. Sign-in is aborted when it occurs.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid google profile: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Validate checks that every claim is present and well formed. It returns
// a *SchemaError wrapping the per-field validation.Errors.
func (p GoogleProfile) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Sub, validation.Required.Error("sub is required")),
		validation.Field(&p.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
		),
		validation.Field(&p.EmailVerified, validation.NotNil.Error("email_verified is required")),
		validation.Field(&p.FamilyName, validation.Required.Error("family_name is required")),
		validation.Field(&p.GivenName, validation.Required.Error("given_name is required")),
		validation.Field(&p.Name, validation.Required.Error("name is required")),
		validation.Field(&p.Picture,
			validation.Required.Error("picture is required"),
			is.URL.Error("picture must be a valid URL"),
		),
	)
	if err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}
