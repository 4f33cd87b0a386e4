package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Citizen identity number: 9-digit legacy card or 12-digit chip card
	CitizenIDPattern = `^(\d{9}|\d{12})$`

	// Username: letters, digits, dot and underscore
	UsernamePattern = `^[a-zA-Z0-9_.]{3,50}$`

	// Phone: optional leading plus, 9 to 15 digits
	PhonePattern = `^\+?\d{9,15}$`

	// Password min length
	PasswordMinLength = 6
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	CitizenID *regexp.Regexp
	Username  *regexp.Regexp
	Phone     *regexp.Regexp
}{
	CitizenID: regexp.MustCompile(CitizenIDPattern),
	Username:  regexp.MustCompile(UsernamePattern),
	Phone:     regexp.MustCompile(PhonePattern),
}

func patternRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Register adds the custom tags (citizenid, username, phone) to v and makes
// field errors report JSON names instead of Go field names.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	rules := map[string]*regexp.Regexp{
		"citizenid": CompiledPatterns.CitizenID,
		"username":  CompiledPatterns.Username,
		"phone":     CompiledPatterns.Phone,
	}
	for tag, re := range rules {
		if err := v.RegisterValidation(tag, patternRule(re)); err != nil {
			return err
		}
	}
	return nil
}
