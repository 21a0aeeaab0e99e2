// Package verify is the HTTP callback completing a registration handshake:
// osu! redirects the consenting user here with an authorization code and the
// state minted by the register command.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"osu-rank-bot/db"
	"osu-rank-bot/osu"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
)

// Store is the part of the relational store the callback needs. Satisfied by
// *db.DB.
type Store interface {
	GetVerification(ctx context.Context, discordID snowflake.ID) (db.Verification, error)
	DeleteVerification(ctx context.Context, discordID snowflake.ID) error
	UpsertLinkedAccount(ctx context.Context, account db.LinkedAccount) error
}

// Exchanger resolves an authorization code into the osu! account it belongs
// to. Satisfied by *osu.Client.
type Exchanger interface {
	FetchAuthenticatedUser(ctx context.Context, code string, mode osu.Gamemode) (*osu.User, error)
}

// State is the decoded callback state: who started the handshake, for which
// ruleset, and the one-time token proving it.
type State struct {
	DiscordID snowflake.ID
	Gamemode  osu.Gamemode
	Token     string
}

// ParseState decodes a "{discord_id}:{gamemode_id}:{token}" state string.
func ParseState(state string) (State, error) {
	parts := strings.SplitN(state, ":", 3)
	if len(parts) != 3 {
		return State{}, fmt.Errorf("malformed state %q", state)
	}
	discordID, err := snowflake.Parse(parts[0])
	if err != nil {
		return State{}, fmt.Errorf("malformed discord id in state: %w", err)
	}
	modeID, err := strconv.Atoi(parts[1])
	if err != nil || !osu.Gamemode(modeID).Valid() {
		return State{}, fmt.Errorf("malformed gamemode in state %q", state)
	}
	if parts[2] == "" {
		return State{}, fmt.Errorf("missing token in state")
	}
	return State{DiscordID: discordID, Gamemode: osu.Gamemode(modeID), Token: parts[2]}, nil
}

type Server struct {
	store     Store
	exchanger Exchanger
	now       func() time.Time
}

// NewServer builds the callback HTTP server.
func NewServer(addr string, store Store, exchanger Exchanger) *http.Server {
	s := &Server{store: store, exchanger: exchanger, now: time.Now}
	return &http.Server{Addr: addr, Handler: s.routes()}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, rq *http.Request) {
		fmt.Fprint(w, "This is not where you're supposed to be!")
	})
	r.Get("/callback", s.handleCallback)
	r.Get("/success/{name}", s.handleSuccess)
	return r
}

func (s *Server) handleCallback(w http.ResponseWriter, rq *http.Request) {
	ctx := rq.Context()
	code := rq.URL.Query().Get("code")
	state, err := ParseState(rq.URL.Query().Get("state"))
	if err != nil || code == "" {
		http.Error(w, "Invalid request!", http.StatusBadRequest)
		return
	}

	verification, err := s.store.GetVerification(ctx, state.DiscordID)
	if err != nil || verification.Token != state.Token || s.now().After(verification.ExpiresAt) {
		// Unknown user, wrong token or a handshake past its window; the
		// expiry sweep may have removed the row already.
		http.Error(w, "Invalid verification! Not a valid user or token!", http.StatusForbidden)
		return
	}

	osuUser, err := s.exchanger.FetchAuthenticatedUser(ctx, code, state.Gamemode)
	if err != nil {
		slog.Error("verify: error while resolving an authorization code", slog.Any("user.id", state.DiscordID), tint.Err(err))
		http.Error(w, "Something went wrong! Please try again later!", http.StatusBadGateway)
		return
	}

	if err := s.store.UpsertLinkedAccount(ctx, db.LinkedAccount{
		DiscordID: state.DiscordID,
		OsuID:     osuUser.ID,
		Gamemode:  state.Gamemode,
	}); err != nil {
		slog.Error("verify: error while saving a linked account", slog.Any("user.id", state.DiscordID), tint.Err(err))
		http.Error(w, "Something went wrong! Please try again later!", http.StatusInternalServerError)
		return
	}
	if err := s.store.DeleteVerification(ctx, state.DiscordID); err != nil {
		slog.Error("verify: error while deleting a verification", slog.Any("user.id", state.DiscordID), tint.Err(err))
	}

	slog.Info("verify: linked an account",
		slog.Any("user.id", state.DiscordID),
		slog.Int64("osu.id", osuUser.ID),
		slog.String("osu.mode", state.Gamemode.String()))
	http.Redirect(w, rq, "/success/"+osuUser.Username, http.StatusSeeOther)
}

func (s *Server) handleSuccess(w http.ResponseWriter, rq *http.Request) {
	name := chi.URLParam(rq, "name")
	fmt.Fprintf(w, "Hey %s!\nYou've successfully connected your account to the bot! You can close this window and return to Discord.", name)
}
