// Package repository holds the MySQL data access layer.  The sentinel
// errors below are shared with the in-memory stores so that higher layers
// can tell failure scenarios apart with errors.Is regardless of backend.
package repository

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrCatwayNotFound is returned when no catway has the requested number.
	ErrCatwayNotFound = errors.New("catway not found")
	// ErrCatwayExists is returned when a catway number is already taken.
	ErrCatwayExists = errors.New("catway already exists")
	// ErrReservationNotFound is returned when a reservation id is unknown.
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrUserNotFound is returned when no user has the requested email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the email or username is already used.
	ErrUserExists = errors.New("user already exists")
)

// ErrConflict is returned when a delete cannot be performed because of
// dependent rows, such as deleting a catway that still has reservations.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// MySQL error numbers the repositories translate.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
)

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == number
	}
	// some drivers and proxies only surface the text
	return err != nil && strings.Contains(err.Error(), "Error "+strconv.Itoa(int(number)))
}

func isDuplicate(err error) bool  { return isMySQLError(err, mysqlDuplicateEntry) }
func isReferenced(err error) bool { return isMySQLError(err, mysqlRowIsReferenced) }

