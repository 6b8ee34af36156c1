package quote

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

const (
	maxMessageLength = 2000
	maxFieldLength   = 200
	minPhoneDigits   = 7
	maxPhoneDigits   = 15
)

// ValidationError lists per-field problems with a submission. It matches
// types.ErrBadRequest under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid quote request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return types.ErrBadRequest
}

// normalize trims every field in place.
func normalize(p types.CreateQuoteParams) types.CreateQuoteParams {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.Address = strings.TrimSpace(p.Address)
	p.LocationSlug = strings.TrimSpace(p.LocationSlug)
	p.ServiceSlug = strings.TrimSpace(p.ServiceSlug)
	p.Message = strings.TrimSpace(p.Message)
	return p
}

// validateFields checks everything that does not need the catalog.
func validateFields(p types.CreateQuoteParams) map[string]string {
	errs := make(map[string]string)

	switch {
	case p.Name == "":
		errs["name"] = "Please tell us your name."
	case utf8.RuneCountInString(p.Name) > maxFieldLength:
		errs["name"] = "Name is too long."
	}

	if p.Phone == "" && p.Email == "" {
		errs["phone"] = "Enter a phone number or email so we can reach you."
	}
	if p.Phone != "" {
		if n := countDigits(p.Phone); n < minPhoneDigits || n > maxPhoneDigits {
			errs["phone"] = "Enter a valid phone number."
		}
	}
	if p.Email != "" {
		if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
			errs["email"] = "Enter a valid email address."
		}
	}

	if utf8.RuneCountInString(p.Address) > maxFieldLength {
		errs["address"] = "Address is too long."
	}
	if utf8.RuneCountInString(p.Message) > maxMessageLength {
		errs["message"] = fmt.Sprintf("Keep your message under %d characters.", maxMessageLength)
	}
	return errs
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
