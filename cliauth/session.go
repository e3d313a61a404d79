package cliauth

import (
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// ErrCorruptSession reports that stored credentials could not be decoded.
var ErrCorruptSession = errors.New("stored credentials are corrupted")

// Session is the pair of tokens proving an authenticated identity to the
// backend. A Session is either fully absent or has a non-empty access token;
// the refresh token is optional.
type Session struct {
	AccessToken  string
	RefreshToken string
	SavedAt      time.Time
}

// storedSession is the JSON shape persisted in the credential store: the
// oauth2 token fields plus the local save timestamp. The field names mirror
// the backend's sign-in response so a stored session can be eyeballed
// against the wire payload.
type storedSession struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	SavedAt      time.Time `json:"saved_at,omitempty"`
}

// MarshalSession encodes a session for persistence. The token fields are
// taken from the session's oauth2 form so the stored shape and the bearer
// header always agree on the token type.
func MarshalSession(s *Session) ([]byte, error) {
	if s == nil || s.AccessToken == "" {
		return nil, errors.New("session must have an access token")
	}
	tok := s.Token()
	return json.Marshal(storedSession{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.Type(),
		RefreshToken: tok.RefreshToken,
		SavedAt:      s.SavedAt,
	})
}

// UnmarshalSession decodes a persisted session, reconstructing it through
// the oauth2 bridge. Data that does not decode, or decodes to an empty
// access token, is reported as ErrCorruptSession.
func UnmarshalSession(data []byte) (*Session, error) {
	var st storedSession
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, ErrCorruptSession
	}
	if st.AccessToken == "" {
		return nil, ErrCorruptSession
	}
	sess := SessionFromToken(&oauth2.Token{
		AccessToken:  st.AccessToken,
		TokenType:    st.TokenType,
		RefreshToken: st.RefreshToken,
	})
	sess.SavedAt = st.SavedAt
	return sess, nil
}

// Token bridges the session into the oauth2 token type for code that speaks
// the x/oauth2 vocabulary.
func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
	}
}

// SessionFromToken builds a Session from an oauth2 token. SavedAt is left
// zero; the caller decides whether the session counts as fresh.
func SessionFromToken(tok *oauth2.Token) *Session {
	return &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
}
