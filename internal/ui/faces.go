package ui

import (
	"grundy/internal/bible"
	"grundy/internal/neglect"
	"grundy/internal/pet"
)

const defaultFace = "🐾"

var speciesEmoji = map[string]string{
	"munchlet": "🐹",
	"grib":     "🐸",
	"plompo":   "🐷",
	"fizz":     "🦊",
	"ember":    "🐲",
	"chomper":  "🐊",
	"whisp":    "👻",
	"luxe":     "🦚",
}

// SpeciesEmoji returns the icon for a species, or a paw print for one the
// UI does not know.
func SpeciesEmoji(speciesID string) string {
	if e, ok := speciesEmoji[speciesID]; ok {
		return e
	}
	return defaultFace
}

// PetFace picks the face shown for p. A transient pose wins over the
// pet's resting state.
func PetFace(p pet.Pet, stage neglect.Stage, pose string) string {
	switch bible.ReactionType(pose) {
	case bible.ReactionEcstatic:
		return "😍"
	case bible.ReactionPositive:
		return "😋"
	case bible.ReactionNegative:
		return "😖"
	case "happy":
		return "😸"
	}

	switch {
	case stage == neglect.StageRunaway:
		return "🏃"
	case p.IsSick:
		return "🤢"
	case stage.IsWithdrawnBand():
		return "🥀"
	case pet.GetFullnessState(p.Hunger) == bible.FullnessHungry:
		return "🙀"
	}
	switch pet.GetMoodTier(p.MoodValue) {
	case bible.MoodSad:
		return "😿"
	case bible.MoodLow:
		return "😾"
	}
	return SpeciesEmoji(p.SpeciesID)
}
