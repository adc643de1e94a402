package httpapi

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/ledovskis/taskkeeper/internal/common"
	"github.com/ledovskis/taskkeeper/internal/server/models"
)

const (
	nameMinLen        = 3
	nameMaxLen        = 30
	passwordMinLen    = 8
	descriptionMinLen = 2
)

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < nameMinLen || n > nameMaxLen {
		return fmt.Errorf("%w: name must be %d-%d characters", common.ErrorValidation, nameMinLen, nameMaxLen)
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < passwordMinLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, passwordMinLen)
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) < descriptionMinLen {
		return fmt.Errorf("%w: description must be at least %d characters", common.ErrorValidation, descriptionMinLen)
	}
	return nil
}

// listParams parses the filter/orderBy query values, applying the defaults
// ALL and CREATED_AT. Enum membership is checked again by the repository.
func listParams(filter, orderBy string) (models.TaskFilter, models.TaskOrder) {
	f := models.FilterAll
	if filter != "" {
		f = models.TaskFilter(filter)
	}
	o := models.OrderByCreatedAt
	if orderBy != "" {
		o = models.TaskOrder(orderBy)
	}
	return f, o
}
