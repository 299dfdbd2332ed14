package validation

import (
	"testing"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/apperr"
)

func TestCheckFields(t *testing.T) {
	reg := NewRegistry()
	cases := []struct {
		name string
		kind Kind
		op   Op
		keys []string
		msg  string
	}{
		{"reservation add ok", Reservations, OpAdd, []string{"clientName", "boatName", "startDate", "endDate"}, ""},
		{"reservation add missing", Reservations, OpAdd, []string{"clientName", "startDate", "endDate"}, "Missing required fields."},
		{"reservation add extra", Reservations, OpAdd, []string{"clientName", "boatName", "startDate", "endDate", "duration"}, "Unauthorized field(s) in the request"},
		{"reservation update ok", Reservations, OpUpdate, []string{"idReservation", "endDate"}, ""},
		{"reservation update boat", Reservations, OpUpdate, []string{"boatName"}, "Unauthorized field(s) in the request"},
		{"catway update state", Catways, OpUpdate, []string{"state"}, ""},
		{"catway update type", Catways, OpUpdate, []string{"state", "type"}, "Unauthorized field(s) in the request"},
		{"user add with names", Users, OpAdd, []string{"name", "firstname", "username", "email", "password"}, ""},
		{"login extra", Login, OpLogin, []string{"email", "password", "remember"}, "Unauthorized field(s) in the request"},
		{"empty", Catways, OpAdd, nil, "Empty request."},
	}
	for _, tc := range cases {
		err := reg.CheckFields(tc.kind, tc.op, tc.keys)
		if tc.msg == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		ae, ok := err.(*apperr.Error)
		if !ok || ae.Kind != apperr.BadInput || ae.Message != tc.msg {
			t.Errorf("%s: got %v, want BadInput %q", tc.name, err, tc.msg)
		}
	}
}

func TestRegistryCopies(t *testing.T) {
	reg := NewRegistry()
	req := reg.Required(Catways)
	req[0] = "hacked"
	if reg.Required(Catways)[0] != "number" {
		t.Fatal("Required must return a copy")
	}
}

func TestPatterns(t *testing.T) {
	reg := NewRegistry()
	cases := []struct {
		kind  Kind
		field string
		value string
		want  bool
	}{
		{Reservations, "clientName", "Jean-Pierre O'Neil", true},
		{Reservations, "clientName", "Éloïse", true},
		{Reservations, "clientName", "J", true},
		{Reservations, "clientName", "Jean2", false},
		{Reservations, "clientName", "-Jean", false},
		{Reservations, "boatName", "Le Petit Prince 2", true},
		{Reservations, "boatName", "X", false},
		{Reservations, "idReservation", "42", true},
		{Reservations, "idReservation", "042", false},
		{Catways, "number", "12", true},
		{Catways, "number", "1234", false},
		{Catways, "type", "long", true},
		{Catways, "type", "medium", false},
		{Catways, "state", "bon état", true},
		{Catways, "state", "Planches abîmées (à réparer)!", true},
		{Catways, "state", "x", false},
		{Users, "email", "marin.pecheur@port-russell.fr", true},
		{Users, "email", "pas-un-email", false},
		{Users, "username", "capitaine42", true},
		{Users, "username", "c", false},
	}
	for _, tc := range cases {
		m, ok := reg.Pattern(tc.kind, tc.field)
		if !ok {
			t.Fatalf("no pattern for %s.%s", tc.kind, tc.field)
		}
		if got := m.MatchString(tc.value); got != tc.want {
			t.Errorf("%s.%s(%q) = %v, want %v", tc.kind, tc.field, tc.value, got, tc.want)
		}
	}
}

func TestPasswordPolicy(t *testing.T) {
	p := PasswordPolicy{}
	good := []string{"Voil3r!Bleu", "Ancr€Marine9"}
	bad := []string{"Sh0rt!", "nouppercase1!", "NOLOWERCASE1!", "NoDigits!!", "NoSymbol123", "Has Space1!", ""}
	for _, s := range good {
		if !p.MatchString(s) {
			t.Errorf("%q should pass", s)
		}
	}
	for _, s := range bad {
		if p.MatchString(s) {
			t.Errorf("%q should fail", s)
		}
	}
}

func TestHasKeyboardSequence(t *testing.T) {
	for _, s := range []string{"Xqwe!9Lm", "Pass123!", "A&é\"zT9", "ZZ987!aa"} {
		if !HasKeyboardSequence(s) {
			t.Errorf("%q should be flagged", s)
		}
	}
	for _, s := range []string{"Voil3r!Bleu", "Tr1b0rd#Mat"} {
		if HasKeyboardSequence(s) {
			t.Errorf("%q should not be flagged", s)
		}
	}
}
