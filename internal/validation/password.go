package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordPolicy accepts 8 to 72 characters containing a digit, a lower
// and an upper case letter and a character outside [a-zA-Z0-9], with no
// whitespace.
type PasswordPolicy struct{}

func (PasswordPolicy) MatchString(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 8 || n > 72 {
		return false
	}
	var digit, lower, upper, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsNumber(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
		if !isASCIIAlnum(r) {
			symbol = true
		}
	}
	return digit && lower && upper && symbol
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// keyboardRuns are three-key runs of qwerty, azerty and numeric keypads,
// in both directions.
var keyboardRuns = []string{
	// qwerty
	"!@#", "@#$", "#$%", "$%^", "%^&", "^&*", "&*(", "*()", "()_", ")_+",
	"+_)", "_)(", ")(*", "(*&", "&^%", "^%$", "%$#", "$#@", "#@!",
	"qwe", "wer", "ert", "rty", "tyu", "yui", "uio", "iop",
	"poi", "oiu", "iuy", "uyt", "ytr", "tre", "rew", "ewq",
	"asd", "sdf", "dfg", "fgh", "ghj", "hjk", "jkl",
	"lkj", "kjh", "jhg", "hgf", "gfd", "fds", "dsa",
	"zxc", "xcv", "cvb", "vbn", "bnm",
	"mnb", "nbv", "bvc", "vcb", "cbx", "bxz",
	// azerty
	`&é"`, `é"'`, `"'(`, `'(-`, `(-è`, `-è_`, `è_ç`, `_çà`, `çà)`, `à)=`,
	`=)à`, `)àç`, `àç_`, `ç_è`, `_è-`, `è-(`, `-('`, `('"`, `'"é`, `"é&`,
	"aze", "zer", "rez", "eza",
	"qsd", "klm", "mlk", "sdq",
	"wxc", "xcv",
	// numpad
	"/*-", "*-+", "-+/", "+-*", "-*/", "*/+",
	"012", "123", "234", "345", "456", "567", "678", "789", "890", "901",
	"210", "109", "098", "987", "876", "765", "654", "543", "432", "321",
}

// HasKeyboardSequence reports whether s contains a keyboard run.  The
// comparison is case sensitive.
func HasKeyboardSequence(s string) bool {
	for _, run := range keyboardRuns {
		if strings.Contains(s, run) {
			return true
		}
	}
	return false
}
