package inbox

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"
)

func decodeRaw(t *testing.T, raw string) string {
	t.Helper()
	b, err := base64.URLEncoding.DecodeString(raw)
	require.NoError(t, err)
	return string(b)
}

func TestSendValidation(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	svc := newTestService(t, backend)
	ctx := context.Background()

	cases := []struct {
		name string
		req  SendRequest
		want string
	}{
		{"no recipients", SendRequest{Subject: "s", Body: "b"}, "at least one recipient is required"},
		{"no subject", SendRequest{To: []string{"a@x.com"}, Body: "b"}, "subject is required"},
		{"no body", SendRequest{To: []string{"a@x.com"}, Subject: "s"}, "body is required"},
	}
	for _, tc := range cases {
		result := svc.Send(ctx, tc.req)
		assert.False(t, result.Success, tc.name)
		assert.Equal(t, tc.want, result.Error, tc.name)
	}
	assert.Empty(t, backend.sentRaw)
}

func TestSendBuildsMIME(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	svc := newTestService(t, backend)

	result := svc.Send(context.Background(), SendRequest{
		To:      []string{"a@x.com", "b@x.com"},
		Cc:      []string{"c@x.com"},
		Subject: "status report",
		Body:    "all green",
	})
	require.True(t, result.Success)
	require.Len(t, backend.sentRaw, 1)

	mime := decodeRaw(t, backend.sentRaw[0])
	assert.Contains(t, mime, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, mime, "Cc: c@x.com\r\n")
	assert.Contains(t, mime, "Subject: status report\r\n")
	assert.Contains(t, mime, "MIME-Version: 1.0\r\n")
	assert.Contains(t, mime, "\r\n\r\nall green")
	assert.NotContains(t, mime, "In-Reply-To")
	assert.Equal(t, "", backend.sentThreadIDs[0])
}

func TestSendThreadsReply(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	original := testMessage("orig", "them@x.com", "original", nil, time.Now())
	original.Payload.Headers = append(original.Payload.Headers,
		&gmailapi.MessagePartHeader{Name: "Message-ID", Value: "<orig@mail>"},
		&gmailapi.MessagePartHeader{Name: "References", Value: "<root@mail>"},
	)
	backend.messages["orig"] = original

	svc := newTestService(t, backend)
	result := svc.Send(context.Background(), SendRequest{
		To:               []string{"them@x.com"},
		Subject:          "Re: original",
		Body:             "reply",
		ReplyToMessageID: "orig",
	})
	require.True(t, result.Success)

	mime := decodeRaw(t, backend.sentRaw[0])
	assert.Contains(t, mime, "In-Reply-To: <orig@mail>\r\n")
	assert.Contains(t, mime, "References: <root@mail> <orig@mail>\r\n")
	assert.Equal(t, "t-orig", backend.sentThreadIDs[0])
}

func TestSendReplyWithoutReferences(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	original := testMessage("orig", "them@x.com", "original", nil, time.Now())
	original.Payload.Headers = append(original.Payload.Headers,
		&gmailapi.MessagePartHeader{Name: "Message-ID", Value: "<orig@mail>"},
	)
	backend.messages["orig"] = original

	svc := newTestService(t, backend)
	result := svc.Send(context.Background(), SendRequest{
		To:               []string{"them@x.com"},
		Subject:          "Re: original",
		Body:             "reply",
		ReplyToMessageID: "orig",
	})
	require.True(t, result.Success)

	mime := decodeRaw(t, backend.sentRaw[0])
	assert.Contains(t, mime, "References: <orig@mail>\r\n")
}

func TestSendThreadingFetchFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.getErr["gone"] = errors.New("404")

	svc := newTestService(t, backend)
	result := svc.Send(context.Background(), SendRequest{
		To:               []string{"a@x.com"},
		Subject:          "s",
		Body:             "b",
		ReplyToMessageID: "gone",
	})
	require.True(t, result.Success)

	mime := decodeRaw(t, backend.sentRaw[0])
	assert.NotContains(t, mime, "In-Reply-To")
	assert.Equal(t, "", backend.sentThreadIDs[0])
}

func TestSendBackendFailure(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.sendErr = errors.New("quota exceeded")

	svc := newTestService(t, backend)
	result := svc.Send(context.Background(), SendRequest{
		To: []string{"a@x.com"}, Subject: "s", Body: "b",
	})
	assert.False(t, result.Success)
	assert.Equal(t, "quota exceeded", result.Error)
}
