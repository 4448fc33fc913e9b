package leadclient

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// WhatsAppURL builds a wa.me deep link for the given number and prefilled
// message, tagging it with the same attribution as form submissions.
func WhatsAppURL(number, message string, attrs Attributes) (string, error) {
	e164, err := toE164(number)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	if message != "" {
		q.Set("text", message)
	}
	if attrs.Source != "" {
		q.Set("utm_source", attrs.Source)
	}
	if attrs.Medium != "" {
		q.Set("utm_medium", attrs.Medium)
	}
	if attrs.Campaign != "" {
		q.Set("utm_campaign", attrs.Campaign)
	}

	u := "https://wa.me/" + e164
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u, nil
}

// toE164 strips formatting and validates the digit count. wa.me wants the
// number without a leading plus.
func toE164(number string) (string, error) {
	var b strings.Builder
	for _, r := range number {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 7 || len(digits) > 15 {
		return "", fmt.Errorf("leadclient: invalid phone number %q", number)
	}
	return digits, nil
}
