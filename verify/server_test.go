package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"osu-rank-bot/db"
	"osu-rank-bot/osu"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		want    State
		wantErr bool
	}{
		{
			name:  "valid",
			state: "123456789:0:abc-def",
			want:  State{DiscordID: snowflake.ID(123456789), Gamemode: osu.GamemodeStandard, Token: "abc-def"},
		},
		{
			name:  "token with colons",
			state: "123456789:3:a:b:c",
			want:  State{DiscordID: snowflake.ID(123456789), Gamemode: osu.GamemodeMania, Token: "a:b:c"},
		},
		{name: "too few parts", state: "123:0", wantErr: true},
		{name: "bad discord id", state: "abc:0:token", wantErr: true},
		{name: "bad gamemode", state: "123:9:token", wantErr: true},
		{name: "empty token", state: "123:0:", wantErr: true},
		{name: "empty", state: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := ParseState(tt.state)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
		})
	}
}

type fakeStore struct {
	verifications map[snowflake.ID]db.Verification
	linked        []db.LinkedAccount
}

func (s *fakeStore) GetVerification(_ context.Context, discordID snowflake.ID) (db.Verification, error) {
	v, ok := s.verifications[discordID]
	if !ok {
		return db.Verification{}, db.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) DeleteVerification(_ context.Context, discordID snowflake.ID) error {
	delete(s.verifications, discordID)
	return nil
}

func (s *fakeStore) UpsertLinkedAccount(_ context.Context, account db.LinkedAccount) error {
	s.linked = append(s.linked, account)
	return nil
}

type fakeExchanger struct {
	user *osu.User
}

func (e *fakeExchanger) FetchAuthenticatedUser(_ context.Context, code string, _ osu.Gamemode) (*osu.User, error) {
	if code != "good-code" {
		return nil, osu.ErrUserNotFound
	}
	return e.user, nil
}

func callbackRequest(code, state string) *http.Request {
	q := url.Values{}
	q.Set("code", code)
	q.Set("state", state)
	return httptest.NewRequest(http.MethodGet, "/callback?"+q.Encode(), nil)
}

func TestHandleCallback(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	discordID := snowflake.ID(123456789)

	newServer := func(store *fakeStore) http.Handler {
		s := &Server{
			store:     store,
			exchanger: &fakeExchanger{user: &osu.User{ID: 100, Username: "peppy"}},
			now:       func() time.Time { return now },
		}
		return s.routes()
	}

	t.Run("links the account", func(t *testing.T) {
		store := &fakeStore{verifications: map[snowflake.ID]db.Verification{
			discordID: {DiscordID: discordID, Token: "tok", ExpiresAt: now.Add(time.Minute)},
		}}
		rr := httptest.NewRecorder()
		newServer(store).ServeHTTP(rr, callbackRequest("good-code", "123456789:1:tok"))

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/success/peppy", rr.Header().Get("Location"))
		require.Len(t, store.linked, 1)
		assert.Equal(t, db.LinkedAccount{DiscordID: discordID, OsuID: 100, Gamemode: osu.GamemodeTaiko}, store.linked[0])
		assert.Empty(t, store.verifications, "verification is single use")
	})

	t.Run("rejects an expired verification", func(t *testing.T) {
		store := &fakeStore{verifications: map[snowflake.ID]db.Verification{
			discordID: {DiscordID: discordID, Token: "tok", ExpiresAt: now.Add(-time.Second)},
		}}
		rr := httptest.NewRecorder()
		newServer(store).ServeHTTP(rr, callbackRequest("good-code", "123456789:1:tok"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Empty(t, store.linked)
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		store := &fakeStore{verifications: map[snowflake.ID]db.Verification{
			discordID: {DiscordID: discordID, Token: "tok", ExpiresAt: now.Add(time.Minute)},
		}}
		rr := httptest.NewRecorder()
		newServer(store).ServeHTTP(rr, callbackRequest("good-code", "123456789:1:other"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Empty(t, store.linked)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		store := &fakeStore{verifications: map[snowflake.ID]db.Verification{}}
		rr := httptest.NewRecorder()
		newServer(store).ServeHTTP(rr, callbackRequest("good-code", "123456789:1:tok"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("rejects a malformed state", func(t *testing.T) {
		store := &fakeStore{verifications: map[snowflake.ID]db.Verification{}}
		rr := httptest.NewRecorder()
		newServer(store).ServeHTTP(rr, callbackRequest("good-code", "garbage"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects a missing code", func(t *testing.T) {
		store := &fakeStore{verifications: map[snowflake.ID]db.Verification{
			discordID: {DiscordID: discordID, Token: "tok", ExpiresAt: now.Add(time.Minute)},
		}}
		rr := httptest.NewRecorder()
		newServer(store).ServeHTTP(rr, callbackRequest("", "123456789:1:tok"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("fails when the exchange fails", func(t *testing.T) {
		store := &fakeStore{verifications: map[snowflake.ID]db.Verification{
			discordID: {DiscordID: discordID, Token: "tok", ExpiresAt: now.Add(time.Minute)},
		}}
		rr := httptest.NewRecorder()
		newServer(store).ServeHTTP(rr, callbackRequest("bad-code", "123456789:1:tok"))

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Empty(t, store.linked)
	})
}
