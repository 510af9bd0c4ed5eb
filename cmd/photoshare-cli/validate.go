package main

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/photoshare/photoshare-cli/api"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateProfileUpdate checks profile fields locally before the request is
// sent; the server still enforces its own rules.
func validateProfileUpdate(update api.ProfileUpdate) error {
	err := validate.Struct(update)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return &api.ValidationError{
			Message: fmt.Sprintf("invalid %s: failed %s constraint", first.Field(), first.Tag()),
		}
	}
	return err
}
