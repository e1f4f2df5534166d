package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeNotFound, CodeOf(ErrNotFound("x")))
	require.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("wrapped: %w", ErrNotFound("x"))))
	require.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalid("x"), http.StatusBadRequest},
		{ErrInvalidDateRange("x"), http.StatusBadRequest},
		{ErrNotFound("x"), http.StatusNotFound},
		{ErrConflict("x"), http.StatusConflict},
		{ErrDuplicate("x"), http.StatusConflict},
		{ErrUserSanctioned("x"), http.StatusConflict},
		{ErrMagazineLimit("x"), http.StatusConflict},
		{ErrOutOfStock("x"), http.StatusConflict},
		{ErrAlreadyReturned("x"), http.StatusConflict},
		{ErrInternal("x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, ToHTTPStatus(tc.err), "for %v", tc.err)
	}
}

func TestFromMySQL(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	require.Equal(t, CodeDuplicateKey, CodeOf(FromMySQL(dup, "dni already registered")))

	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	require.Equal(t, CodeInvalidArgument, CodeOf(FromMySQL(fk, "")))

	other := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}
	require.Equal(t, CodeInternal, CodeOf(FromMySQL(other, "")))

	plain := errors.New("broken pipe")
	require.Equal(t, plain, FromMySQL(plain, ""))
}
