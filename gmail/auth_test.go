package gmail

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testCredentials = `{
  "installed": {
    "client_id": "client-id.apps.googleusercontent.com",
    "client_secret": "secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func writeCredentials(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, credentialsFile), []byte(testCredentials), 0600))
	return dir
}

func TestTokenSourceMissingCredentials(t *testing.T) {
	t.Parallel()

	_, err := TokenSource(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthRequired)
}

func TestTokenSourceMissingToken(t *testing.T) {
	t.Parallel()

	dir := writeCredentials(t)
	_, err := TokenSource(context.Background(), dir)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestTokenSourceExpiredWithoutRefresh(t *testing.T) {
	t.Parallel()

	dir := writeCredentials(t)
	require.NoError(t, SaveToken(dir, &oauth2.Token{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Hour),
	}))

	_, err := TokenSource(context.Background(), dir)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestTokenSourceWithRefreshToken(t *testing.T) {
	t.Parallel()

	dir := writeCredentials(t)
	require.NoError(t, SaveToken(dir, &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	ts, err := TokenSource(context.Background(), dir)
	require.NoError(t, err)
	assert.NotNil(t, ts)
}

func TestSaveTokenRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := &oauth2.Token{AccessToken: "abc", RefreshToken: "def"}
	require.NoError(t, SaveToken(dir, want))

	got, err := tokenFromFile(filepath.Join(dir, tokenFile))
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
}
