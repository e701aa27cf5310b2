package authmock

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dmitrijs2005/authclient/internal/client/models"
)

var mobilePhone = regexp.MustCompile(`^1[3-9]\d{9}$`)

// registration carries the backend's field rules. The client itself never
// validates; these only shape the mock's 400 replies.
type registration models.Registration

func (r registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
		validation.Field(&r.Phone, validation.Required, validation.Match(mobilePhone)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.FullName, validation.Length(0, 100)),
	)
}
