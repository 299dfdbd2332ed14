// Package validation holds the input rules of the API: which fields each
// request kind must, may or may not carry, and the pattern every field has
// to match.  The rules are built once into an immutable Registry and handed
// to the handlers and to the echo validator.
package validation

import (
	"regexp"
	"sort"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
)

// Kind names a family of request bodies.
type Kind string

const (
	Login        Kind = "login"
	Users        Kind = "users"
	Reservations Kind = "reservations"
	Catways      Kind = "catways"
)

// Op is the operation a body is submitted for.
type Op int

const (
	OpAdd Op = iota
	OpUpdate
	OpLogin
)

// Matcher reports whether a field value is acceptable.
type Matcher interface {
	MatchString(s string) bool
}

type rules struct {
	required  []string
	optional  []string
	updatable []string
	patterns  map[string]Matcher
}

// Registry is safe for concurrent use; it never changes after NewRegistry.
type Registry struct {
	kinds map[Kind]rules
}

var (
	personName = regexp.MustCompile(`^\p{L}(?:[\p{L}\p{M}\s'-]{0,58}\p{L})?$`)
	username   = regexp.MustCompile(`^[\p{L}\p{N}].{1,16}$`)
	email      = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[a-zA-Z]{2,6}$`)
	boatName   = regexp.MustCompile(`^[\p{L}\p{N}](?:[\p{L}\p{M}\p{N}\s'-]{0,58}[\p{L}\p{N}])$`)
	reservID   = regexp.MustCompile(`^[1-9][0-9]{0,19}$`)
	catwayNum  = regexp.MustCompile(`^\p{N}{1,3}$`)
	catwayType = regexp.MustCompile(`^(long|short)$`)
	// class range )-. covers ) * + , - .
	catwayState = regexp.MustCompile(`^\p{L}(?:[\p{L}\p{M}\p{N}\s':;,"()-.!]{0,200}[\p{L}.!])$`)
)

// NewRegistry returns the rules of the marina API.
func NewRegistry() *Registry {
	return &Registry{kinds: map[Kind]rules{
		Login: {
			required: []string{"email", "password"},
			patterns: map[string]Matcher{
				"email":    email,
				"password": PasswordPolicy{},
			},
		},
		Users: {
			required:  []string{"username", "email", "password"},
			optional:  []string{"name", "firstname"},
			updatable: []string{"name", "firstname", "username", "email", "password"},
			patterns: map[string]Matcher{
				"name":      personName,
				"firstname": personName,
				"username":  username,
				"email":     email,
				"password":  PasswordPolicy{},
			},
		},
		Reservations: {
			required:  []string{"clientName", "boatName", "startDate", "endDate"},
			updatable: []string{"idReservation", "startDate", "endDate"},
			patterns: map[string]Matcher{
				"idReservation": reservID,
				"clientName":    personName,
				"boatName":      boatName,
			},
		},
		Catways: {
			required:  []string{"number", "type", "state"},
			updatable: []string{"state"},
			patterns: map[string]Matcher{
				"number": catwayNum,
				"type":   catwayType,
				"state":  catwayState,
			},
		},
	}}
}

// Pattern returns the matcher for field of kind.
func (r *Registry) Pattern(kind Kind, field string) (Matcher, bool) {
	m, ok := r.kinds[kind].patterns[field]
	return m, ok
}

// Required returns a copy of the mandatory fields of kind.
func (r *Registry) Required(kind Kind) []string {
	return append([]string(nil), r.kinds[kind].required...)
}

// Updatable returns a copy of the fields accepted on update.
func (r *Registry) Updatable(kind Kind) []string {
	return append([]string(nil), r.kinds[kind].updatable...)
}

// CheckFields verifies the top-level keys of a body.  On add and login
// every key must be required or optional and every required key present;
// on update every key must be updatable.
func (r *Registry) CheckFields(kind Kind, op Op, keys []string) error {
	rs, ok := r.kinds[kind]
	if !ok {
		return apperr.New(apperr.StoreFailure, "Validation's layout missing or invalid.")
	}
	if len(keys) == 0 {
		return apperr.New(apperr.BadInput, "Empty request.")
	}

	if op == OpUpdate {
		if bad := missingFrom(keys, rs.updatable); len(bad) > 0 {
			return apperr.New(apperr.BadInput, "Unauthorized field(s) in the request").
				WithDetails(map[string]any{"allowed": rs.updatable, "unauthorizedAllowedFields": bad})
		}
		return nil
	}

	accepted := append(append([]string(nil), rs.required...), rs.optional...)
	if bad := missingFrom(keys, accepted); len(bad) > 0 {
		return apperr.New(apperr.BadInput, "Unauthorized field(s) in the request").
			WithDetails(map[string]any{"required": rs.required, "unauthorizedRequiredFields": bad})
	}
	if missing := missingFrom(rs.required, keys); len(missing) > 0 {
		return apperr.New(apperr.BadInput, "Missing required fields.").
			WithDetails(map[string]any{"required": rs.required, "missing": missing})
	}
	return nil
}

// missingFrom returns the members of xs absent from set, sorted.
func missingFrom(xs, set []string) []string {
	in := make(map[string]struct{}, len(set))
	for _, s := range set {
		in[s] = struct{}{}
	}
	var out []string
	for _, x := range xs {
		if _, ok := in[x]; !ok {
			out = append(out, x)
		}
	}
	sort.Strings(out)
	return out
}
