package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gmailapi "google.golang.org/api/gmail/v1"
)

func TestParseAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want EmailAddress
	}{
		{"John Doe <john@example.com>", EmailAddress{Email: "john@example.com", Name: "John Doe"}},
		{"john@example.com", EmailAddress{Email: "john@example.com"}},
		{`"Doe, John" <john@example.com>`, EmailAddress{Email: "john@example.com", Name: "Doe, John"}},
		{"not an address at all", EmailAddress{Email: "not an address at all"}},
		{"  trimmed@example.com  ", EmailAddress{Email: "trimmed@example.com"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseAddress(tc.raw), "input %q", tc.raw)
	}
}

func TestParseAddressList(t *testing.T) {
	t.Parallel()

	got := ParseAddressList(`"Doe, John" <john@example.com>, jane@example.com`)
	assert.Equal(t, []EmailAddress{
		{Email: "john@example.com", Name: "Doe, John"},
		{Email: "jane@example.com"},
	}, got)

	assert.Nil(t, ParseAddressList(""))
	assert.Nil(t, ParseAddressList("   "))
	assert.Len(t, ParseAddressList("a@x.com,,b@x.com"), 2)
}

func TestEmailAddressString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "John <j@x.com>", EmailAddress{Email: "j@x.com", Name: "John"}.String())
	assert.Equal(t, "j@x.com", EmailAddress{Email: "j@x.com"}.String())
}

func TestHeaderValue(t *testing.T) {
	t.Parallel()

	headers := []*gmailapi.MessagePartHeader{
		{Name: "Subject", Value: "hello"},
		{Name: "MESSAGE-ID", Value: "<abc@mail>"},
	}
	assert.Equal(t, "hello", HeaderValue(headers, "subject"))
	assert.Equal(t, "<abc@mail>", HeaderValue(headers, "Message-ID"))
	assert.Equal(t, "", HeaderValue(headers, "From"))
	assert.Equal(t, "", HeaderValue(nil, "Subject"))
}

func TestMessageDate(t *testing.T) {
	t.Parallel()

	msg := &gmailapi.Message{
		InternalDate: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "Date", Value: "Mon, 02 Jun 2025 10:30:00 +0000"},
			},
		},
	}
	assert.Equal(t, time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC), MessageDate(msg).UTC())

	// Malformed header falls back to the internal timestamp.
	msg.Payload.Headers[0].Value = "yesterday-ish"
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), MessageDate(msg))

	// No payload at all.
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		MessageDate(&gmailapi.Message{InternalDate: msg.InternalDate}))
}
