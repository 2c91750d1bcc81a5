package inbox

import (
	"net/mail"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"
)

// ParseAddress splits one RFC 5322 address field into display name and
// email. Malformed input degrades to the whole string as the email.
func ParseAddress(raw string) EmailAddress {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return EmailAddress{Email: raw}
	}
	return EmailAddress{Email: addr.Address, Name: addr.Name}
}

// ParseAddressList splits a header on commas outside double quotes
// (quoted display names may contain commas) and parses each segment.
func ParseAddressList(raw string) []EmailAddress {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []EmailAddress
	var segment strings.Builder
	inQuotes := false
	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			segment.WriteRune(r)
		case r == ',' && !inQuotes:
			if s := strings.TrimSpace(segment.String()); s != "" {
				out = append(out, ParseAddress(s))
			}
			segment.Reset()
		default:
			segment.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(segment.String()); s != "" {
		out = append(out, ParseAddress(s))
	}
	return out
}

// HeaderValue looks up a header case-insensitively, returning "" when
// absent.
func HeaderValue(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// MessageDate parses the Date header, falling back to the backend's
// internal receipt timestamp when the header is missing or malformed.
// Malformed dates are common in the wild, so this never fails.
func MessageDate(msg *gmailapi.Message) time.Time {
	var headers []*gmailapi.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}
	if raw := HeaderValue(headers, "Date"); raw != "" {
		if t, err := mail.ParseDate(raw); err == nil {
			return t
		}
	}
	return time.UnixMilli(msg.InternalDate).UTC()
}
