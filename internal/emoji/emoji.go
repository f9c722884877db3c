package emoji

import (
	"github.com/drakos74/ar-trader/internal/api"
	"github.com/drakos74/ar-trader/internal/model"
)

// https://unicode.org/emoji/charts/full-emoji-list.html
const (
	Zero = "🥜"
	Down = "🐞"
	Up   = "🦠"

	DotSnow  = "❄"
	DotFire  = "🔥"
	DotWater = "💧"

	Biohazard = "😝"
	Recycling = "🤑"

	Error = "🚫"

	Open  = "🔔"
	Close = "🔕"

	Hourglass = "⏳"
	Check     = "✅"

	Money = "💰"
)

// MapSide maps the side of a position to an emoji.
func MapSide(s model.Side) string {
	switch s {
	case model.Long:
		return Recycling
	case model.Short:
		return Biohazard
	}
	return Error
}

// MapToSign maps the given float value according to it's sign.
func MapToSign(f float64) string {
	emo := DotSnow
	if f > 0 {
		emo = DotFire
	} else if f < 0 {
		emo = DotWater
	}
	return emo
}

// MapToSentiment maps the given float value according to it's sign.
func MapToSentiment(f float64) string {
	emo := Zero
	if f > 0 {
		emo = Up
	} else if f < 0 {
		emo = Down
	}
	return emo
}

// MapKind maps the event kind to an emoji.
func MapKind(k api.Kind) string {
	switch k {
	case api.Entry:
		return Open
	case api.Exit:
		return Close
	case api.TrailingExit:
		return Money
	case api.CooldownStart:
		return Hourglass
	case api.CooldownEnd:
		return Check
	case api.InvalidPrice:
		return Error
	}
	return Zero
}
