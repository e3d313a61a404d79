package cliauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestMarshalSessionRoundTrip(t *testing.T) {
	saved := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	data, err := MarshalSession(&Session{
		AccessToken:  "t1",
		RefreshToken: "r1",
		SavedAt:      saved,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"access_token":"t1","token_type":"Bearer","refresh_token":"r1","saved_at":"2026-08-30T12:00:00Z"}`, string(data))

	sess, err := UnmarshalSession(data)
	require.NoError(t, err)
	require.Equal(t, "t1", sess.AccessToken)
	require.Equal(t, "r1", sess.RefreshToken)
	require.True(t, saved.Equal(sess.SavedAt))
}

func TestMarshalSession_StoredTypeMatchesHeaderType(t *testing.T) {
	sess := &Session{AccessToken: "t1"}
	data, err := MarshalSession(sess)
	require.NoError(t, err)

	// The persisted token_type is whatever the oauth2 bridge reports, so the
	// stored shape and the Authorization header can never disagree.
	require.Contains(t, string(data), `"token_type":"`+sess.Token().Type()+`"`)
}

func TestMarshalSessionRejectsEmptyAccessToken(t *testing.T) {
	_, err := MarshalSession(&Session{RefreshToken: "r1"})
	require.Error(t, err)

	_, err = MarshalSession(nil)
	require.Error(t, err)
}

func TestUnmarshalSession_MissingTokenTypeStillLoads(t *testing.T) {
	sess, err := UnmarshalSession([]byte(`{"access_token":"t1","refresh_token":"r1"}`))
	require.NoError(t, err)
	require.Equal(t, "t1", sess.AccessToken)
	require.Equal(t, "Bearer", sess.Token().Type())
}

func TestUnmarshalSessionCorruptData(t *testing.T) {
	for _, data := range []string{"", "not json", "{}", `{"access_token":""}`} {
		_, err := UnmarshalSession([]byte(data))
		require.ErrorIs(t, err, ErrCorruptSession, "data: %q", data)
	}
}

func TestSessionTokenBridge(t *testing.T) {
	sess := &Session{AccessToken: "t1", RefreshToken: "r1"}
	tok := sess.Token()
	require.Equal(t, "t1", tok.AccessToken)
	require.Equal(t, "Bearer", tok.Type())

	back := SessionFromToken(&oauth2.Token{AccessToken: "t2", RefreshToken: "r2"})
	require.Equal(t, "t2", back.AccessToken)
	require.Equal(t, "r2", back.RefreshToken)
	require.True(t, back.SavedAt.IsZero())
}
