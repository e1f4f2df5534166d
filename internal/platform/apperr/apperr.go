// Package apperr is the shared error model for the service layer.
// Handlers translate these errors into HTTP responses; stores translate
// driver errors into them.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	mysql "github.com/go-sql-driver/mysql"
)

type Code string

const (
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeInternal         Code = "INTERNAL"
	CodeDuplicateKey     Code = "DUPLICATE_KEY"
	CodeUserSanctioned   Code = "USER_SANCTIONED"
	CodeMagazineLimit    Code = "MAGAZINE_LIMIT_EXCEEDED"
	CodeOutOfStock       Code = "OUT_OF_STOCK"
	CodeInvalidDateRange Code = "INVALID_DATE_RANGE"
	CodeAlreadyReturned  Code = "ALREADY_RETURNED"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError   { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError  { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError  { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError  { return &APIError{Code: CodeInternal, Message: msg} }
func ErrDuplicate(msg string) *APIError { return &APIError{Code: CodeDuplicateKey, Message: msg} }

func ErrUserSanctioned(msg string) *APIError {
	return &APIError{Code: CodeUserSanctioned, Message: msg}
}

func ErrMagazineLimit(msg string) *APIError {
	return &APIError{Code: CodeMagazineLimit, Message: msg}
}

func ErrOutOfStock(msg string) *APIError { return &APIError{Code: CodeOutOfStock, Message: msg} }

func ErrInvalidDateRange(msg string) *APIError {
	return &APIError{Code: CodeInvalidDateRange, Message: msg}
}

func ErrAlreadyReturned(msg string) *APIError {
	return &APIError{Code: CodeAlreadyReturned, Message: msg}
}

// CodeOf returns the code carried by err, or CodeInternal for plain errors.
func CodeOf(err error) Code {
	var api *APIError
	if errors.As(err, &api) {
		return api.Code
	}
	return CodeInternal
}

func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument, CodeInvalidDateRange:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateKey, CodeUserSanctioned,
		CodeMagazineLimit, CodeOutOfStock, CodeAlreadyReturned:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromMySQL maps driver errors onto the taxonomy. 1062 is a unique key
// violation (dni/isbn), 1452 a broken foreign key reference. Anything
// else is a storage failure and stays opaque to the caller.
func FromMySQL(err error, duplicateMsg string) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062:
			return ErrDuplicate(duplicateMsg)
		case 1452:
			return ErrInvalid("referenced row does not exist")
		}
	}
	return err
}
