package validate

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"cha-ching/internal/money"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the ISO calendar date stored on expenses.
	DateLayout = "2006-01-02"
	// MonthLayout is the YYYY-MM key used for budgets and filters.
	MonthLayout = "2006-01"

	MaxNameLen        = 50
	MaxDescriptionLen = 200
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes = 72
)

// Name checks a required short label such as a category name or username.
func Name(field, raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", Invalid(field, "cannot be empty")
	}
	if utf8.RuneCountInString(s) > MaxNameLen {
		return "", Invalid(field, "too long (max %d characters)", MaxNameLen)
	}
	return s, nil
}

// Description checks a required free-text description.
func Description(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", Invalid("description", "is required")
	}
	if utf8.RuneCountInString(s) > MaxDescriptionLen {
		return "", Invalid("description", "too long (max %d characters)", MaxDescriptionLen)
	}
	return s, nil
}

// Amount parses a strictly positive decimal amount no larger than money.Max.
func Amount(raw string) (decimal.Decimal, error) {
	d, err := money.Parse(raw)
	switch {
	case errors.Is(err, money.ErrAmountTooLarge):
		return decimal.Zero, &Error{Kind: KindValidation, Field: "amount", Msg: "must not exceed " + money.Format(money.Max), Err: err}
	case err != nil:
		return decimal.Zero, &Error{Kind: KindValidation, Field: "amount", Msg: "must be a positive number", Err: err}
	}
	return d, nil
}

// Date parses a YYYY-MM-DD calendar date and returns it normalized.
func Date(raw string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", &Error{Kind: KindValidation, Field: "date", Msg: "must be a calendar date in YYYY-MM-DD format", Err: err}
	}
	return t.Format(DateLayout), nil
}

// Month parses a YYYY-MM month key.
func Month(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return "", &Error{Kind: KindValidation, Field: "month", Msg: "must be in YYYY-MM format", Err: err}
	}
	return t.Format(MonthLayout), nil
}

// Credentials checks a username/password pair before registration.
// Usernames are trimmed; passwords are kept verbatim.
func Credentials(username, password string) (string, error) {
	u, err := Name("username", username)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(password) == "" {
		return "", Invalid("password", "cannot be empty")
	}
	if len(password) > MaxPasswordBytes {
		return "", Invalid("password", "too long (max %d bytes)", MaxPasswordBytes)
	}
	return u, nil
}
