// Package validation checks sale and purchase forms before anything is sent
// to the webhook. All problems are collected into one Error.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aglafone/stokpos/internal/inventory"
)

var (
	ErrInvalid           = errors.New("invalid form")
	ErrInsufficientStock = errors.New("insufficient stock")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DateLayout is the form date format.
const DateLayout = "2006-01-02"

// Error lists every distinct problem found in a form, in the order found.
type Error struct {
	messages []string
	causes   []error
}

func (e *Error) Error() string {
	return strings.Join(e.messages, " ")
}

func (e *Error) Unwrap() []error {
	return e.causes
}

func (e *Error) Messages() []string {
	return slices.Clone(e.messages)
}

func (e *Error) add(cause error, msg string) {
	if !slices.Contains(e.causes, cause) {
		e.causes = append(e.causes, cause)
	}

	if !slices.Contains(e.messages, msg) {
		e.messages = append(e.messages, msg)
	}
}

func (e *Error) err() error {
	if len(e.messages) == 0 {
		return nil
	}

	return e
}

// Stock looks up stocked items by code.
type Stock interface {
	ItemByCode(code string) (inventory.StockItem, bool)
}

// collect runs the struct tags of form and records a message per failure.
// Failures without a message are reported by field name.
func (e *Error) collect(form any, messages map[string]string) {
	err := validate.Struct(form)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		e.add(ErrInvalid, err.Error())
		return
	}

	for _, fe := range verrs {
		msg, ok := messages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid.", fe.Field())
		}

		e.add(ErrInvalid, msg)
	}
}
