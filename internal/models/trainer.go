package models

// TrainerID identifies a Trainer record.
type TrainerID string

type TrainerType string

const (
	TrainerEnergetic    TrainerType = "energetic"
	TrainerCalm         TrainerType = "calm"
	TrainerStrict       TrainerType = "strict"
	TrainerGentle       TrainerType = "gentle"
	TrainerMotivational TrainerType = "motivational"
)

// Personality is the embedded motivational payload for a trainer.
type Personality struct {
	Catchphrase       string   `json:"catchphrase"`
	SupportivePhrases []string `json:"supportive_phrases,omitempty"`
}

// Trainer is a selectable motivational persona. Exactly one trainer is
// selected at any time once at least one exists. AvatarImage and
// VoicePrefix are opaque names resolved by the asset collaborator.
type Trainer struct {
	ID          TrainerID   `json:"id"`
	Name        string      `json:"name"`
	Type        TrainerType `json:"type"`
	IsSelected  bool        `json:"is_selected"`
	AvatarImage string      `json:"avatar_image,omitempty"`
	VoicePrefix string      `json:"voice_prefix,omitempty"`
	Personality Personality `json:"personality"`
}
