package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

const (
	tokenFile       = "token.json"
	credentialsFile = "credentials.json"
)

// scopes covers read, label management, modify (read-state) and send.
var scopes = []string{
	gmailapi.GmailReadonlyScope,
	gmailapi.GmailLabelsScope,
	gmailapi.GmailModifyScope,
	gmailapi.GmailSendScope,
}

// TokenSource builds an oauth2 token source from the client secret and
// stored token under dir. Token acquisition itself happens out of process;
// this only consumes the result, so a missing or unreadable token yields
// ErrAuthRequired rather than an interactive prompt. Refresh is handled
// transparently by the oauth2 transport.
func TokenSource(ctx context.Context, dir string) (oauth2.TokenSource, error) {
	b, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	tok, err := tokenFromFile(filepath.Join(dir, tokenFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthRequired, err)
	}
	if tok.RefreshToken == "" && !tok.Valid() {
		return nil, fmt.Errorf("%w: stored token expired with no refresh token", ErrAuthRequired)
	}
	return oauthConfig.TokenSource(ctx, tok), nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// SaveToken persists a token under dir, for use by the external auth flow.
func SaveToken(dir string, token *oauth2.Token) error {
	f, err := os.OpenFile(filepath.Join(dir, tokenFile), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
