package util

import (
	"github.com/disgoorg/disgo/discord"
)

const (
	ColorSuccess = 0x2ECC71
	ColorWarning = 0xF1C40F
	ColorError   = 0xE74C3C
	ColorInfo    = 0x001BFF
)

// SuccessEmbed is the confirmation template used by command responses.
func SuccessEmbed(text string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetColor(ColorSuccess).
		SetDescription("✅ " + text).
		Build()
}

// WarningEmbed reports a user-facing precondition or not-found outcome.
func WarningEmbed(text string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetColor(ColorWarning).
		SetDescription("⚠️ " + text).
		Build()
}

// ErrorEmbed reports an unexpected failure.
func ErrorEmbed(text string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetColor(ColorError).
		SetDescription("❌ " + text).
		Build()
}
