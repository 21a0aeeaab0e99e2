package osu

import (
	"fmt"
	"strings"

	"osu-rank-bot/config"
)

// Gamemode is one of the four osu! rulesets. The numeric values match the
// IDs used by the osu! API and are stored as-is in the database.
type Gamemode int

const (
	GamemodeStandard Gamemode = iota
	GamemodeTaiko
	GamemodeCtb
	GamemodeMania
)

// Gamemodes lists all rulesets in API ID order.
var Gamemodes = []Gamemode{GamemodeStandard, GamemodeTaiko, GamemodeCtb, GamemodeMania}

func (m Gamemode) String() string {
	switch m {
	case GamemodeStandard:
		return "Standard"
	case GamemodeTaiko:
		return "Taiko"
	case GamemodeCtb:
		return "Catch The Beat"
	case GamemodeMania:
		return "Mania"
	}
	return "Unknown"
}

// URLName returns the ruleset name the osu! API uses in request paths.
func (m Gamemode) URLName() string {
	switch m {
	case GamemodeStandard:
		return "osu"
	case GamemodeTaiko:
		return "taiko"
	case GamemodeCtb:
		return "fruits"
	case GamemodeMania:
		return "mania"
	}
	return ""
}

// Valid reports whether m is a known ruleset ID.
func (m Gamemode) Valid() bool {
	return m >= GamemodeStandard && m <= GamemodeMania
}

// RoleKind returns the guild role slot tied to the ruleset.
func (m Gamemode) RoleKind() config.RoleKind {
	switch m {
	case GamemodeStandard:
		return config.RoleKindStandard
	case GamemodeTaiko:
		return config.RoleKindTaiko
	case GamemodeCtb:
		return config.RoleKindCtb
	case GamemodeMania:
		return config.RoleKindMania
	}
	return ""
}

var gamemodeAliases = map[string]Gamemode{
	"standard":      GamemodeStandard,
	"std":           GamemodeStandard,
	"osu":           GamemodeStandard,
	"osu!":          GamemodeStandard,
	"osu!standard":  GamemodeStandard,
	"taiko":         GamemodeTaiko,
	"osu!taiko":     GamemodeTaiko,
	"ctb":           GamemodeCtb,
	"catch":         GamemodeCtb,
	"catch the beat": GamemodeCtb,
	"fruits":        GamemodeCtb,
	"osu!catch":     GamemodeCtb,
	"mania":         GamemodeMania,
	"osu!mania":     GamemodeMania,
}

// ParseGamemode resolves a user-supplied ruleset name, accepting the common
// aliases.
func ParseGamemode(name string) (Gamemode, error) {
	if mode, ok := gamemodeAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return mode, nil
	}
	return 0, fmt.Errorf("unknown gamemode %q", name)
}
