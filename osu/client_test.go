package osu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"osu-rank-bot/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGamemode(t *testing.T) {
	tests := []struct {
		input   string
		want    Gamemode
		wantErr bool
	}{
		{input: "standard", want: GamemodeStandard},
		{input: "Standard", want: GamemodeStandard},
		{input: "osu", want: GamemodeStandard},
		{input: "std", want: GamemodeStandard},
		{input: "taiko", want: GamemodeTaiko},
		{input: "ctb", want: GamemodeCtb},
		{input: "catch", want: GamemodeCtb},
		{input: "fruits", want: GamemodeCtb},
		{input: "mania", want: GamemodeMania},
		{input: "quaver", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		mode, err := ParseGamemode(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, mode, "input %q", tt.input)
	}
}

func TestGamemodeURLName(t *testing.T) {
	assert.Equal(t, "osu", GamemodeStandard.URLName())
	assert.Equal(t, "taiko", GamemodeTaiko.URLName())
	assert.Equal(t, "fruits", GamemodeCtb.URLName())
	assert.Equal(t, "mania", GamemodeMania.URLName())
}

func testServers(t *testing.T, apiHandler http.HandlerFunc) (*Client, *int) {
	t.Helper()
	tokenRequests := 0
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":86400}`)
	}))
	t.Cleanup(tokenServer.Close)

	apiServer := httptest.NewServer(apiHandler)
	t.Cleanup(apiServer.Close)

	cfg := config.OsuConfig{ClientID: "id", ClientSecret: "secret"}
	return newClient(cfg, apiServer.URL, tokenServer.URL, tokenServer.URL), &tokenRequests
}

func TestFetchUser(t *testing.T) {
	rank := 4242
	client, tokenRequests := testServers(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/peppy/osu", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		user := User{ID: 2, Username: "peppy"}
		user.Country.Code = "AU"
		user.Statistics.GlobalRank = &rank
		require.NoError(t, json.NewEncoder(w).Encode(user))
	})

	user, err := client.FetchUser(context.Background(), "peppy", GamemodeStandard)
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
	assert.Equal(t, "peppy", user.Username)
	assert.Equal(t, "AU", user.Country.Code)
	assert.Equal(t, 4242, user.GlobalRank())

	// The second request reuses the cached token.
	_, err = client.FetchUser(context.Background(), "peppy", GamemodeStandard)
	require.NoError(t, err)
	assert.Equal(t, 1, *tokenRequests)
}

func TestFetchUserNotFound(t *testing.T) {
	client, _ := testServers(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchUser(context.Background(), "nobody", GamemodeMania)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGlobalRankMissing(t *testing.T) {
	var user User
	assert.Equal(t, 0, user.GlobalRank())
}
