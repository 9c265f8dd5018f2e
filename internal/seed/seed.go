// Package seed populates an empty store with the default trainers and
// settings. Bootstrap is idempotent and safe to run on every start.
package seed

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stampcard/internal/logger"
	"stampcard/internal/models"
	"stampcard/internal/storage"
)

// DefaultSettings are the documented first-run preferences.
func DefaultSettings() models.AppSettings {
	return models.AppSettings{
		Volume:               0.8,
		NotificationTime:     "20:00",
		Theme:                "auto",
		Language:             "ja",
		SoundEnabled:         true,
		NotificationsEnabled: true,
		FirstLaunch:          true,
	}
}

// DefaultTrainers returns the five default personas. Exactly one is
// marked selected. IDs are generated per call; Bootstrap only inserts
// them when the trainer table is empty.
func DefaultTrainers() []models.Trainer {
	return []models.Trainer{
		{
			ID:          models.TrainerID(uuid.New().String()),
			Name:        "ヒナタ",
			Type:        models.TrainerEnergetic,
			IsSelected:  true,
			AvatarImage: "trainer_hinata",
			VoicePrefix: "voice_hinata",
			Personality: models.Personality{
				Catchphrase: "今日も一緒にがんばろう！",
				SupportivePhrases: []string{
					"すごい、その調子！",
					"毎日の積み重ねが力になるよ！",
				},
			},
		},
		{
			ID:          models.TrainerID(uuid.New().String()),
			Name:        "シズク",
			Type:        models.TrainerCalm,
			AvatarImage: "trainer_shizuku",
			VoicePrefix: "voice_shizuku",
			Personality: models.Personality{
				Catchphrase: "焦らず、少しずつね。",
				SupportivePhrases: []string{
					"今日できたことを大切に。",
					"続けていること自体が素晴らしいの。",
				},
			},
		},
		{
			ID:          models.TrainerID(uuid.New().String()),
			Name:        "ゴウ",
			Type:        models.TrainerStrict,
			AvatarImage: "trainer_gou",
			VoicePrefix: "voice_gou",
			Personality: models.Personality{
				Catchphrase: "言い訳は要らない。やるだけだ。",
				SupportivePhrases: []string{
					"昨日の自分を超えろ。",
					"やると決めたならやり切れ。",
				},
			},
		},
		{
			ID:          models.TrainerID(uuid.New().String()),
			Name:        "コハル",
			Type:        models.TrainerGentle,
			AvatarImage: "trainer_koharu",
			VoicePrefix: "voice_koharu",
			Personality: models.Personality{
				Catchphrase: "無理しないでいいからね。",
				SupportivePhrases: []string{
					"できなかった日があっても大丈夫。",
					"あなたのペースでいきましょう。",
				},
			},
		},
		{
			ID:          models.TrainerID(uuid.New().String()),
			Name:        "レン",
			Type:        models.TrainerMotivational,
			AvatarImage: "trainer_ren",
			VoicePrefix: "voice_ren",
			Personality: models.Personality{
				Catchphrase: "限界は自分で決めるものじゃない！",
				SupportivePhrases: []string{
					"その一歩が未来を変える！",
					"継続は最強のスキルだ！",
				},
			},
		},
	}
}

// Bootstrap seeds defaults into an empty store. Tables that already hold
// data are left untouched, so running it on every process start never
// duplicates records.
func Bootstrap(store storage.Provider) error {
	trainers, err := store.ListTrainers()
	if err != nil {
		return fmt.Errorf("failed to inspect trainers: %w", err)
	}
	if len(trainers) == 0 {
		err := store.WriteTx(func(tx storage.Tx) error {
			for _, t := range DefaultTrainers() {
				if err := tx.PutTrainer(t); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed trainers: %w", err)
		}
		logger.Info("seeded default trainers")
	}

	settings, err := store.GetSettings()
	switch {
	case err == nil:
		// Settings exist. FirstLaunch stays true only for the run that
		// seeded it; the next successful bootstrap read flips it off.
		if settings.FirstLaunch {
			settings.FirstLaunch = false
			if err := store.SaveSettings(settings); err != nil {
				return fmt.Errorf("failed to clear first-launch flag: %w", err)
			}
			logger.Info("first launch completed")
		}
	case errors.Is(err, storage.ErrNotFound):
		if err := store.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
		logger.Info("seeded default settings")
	default:
		return fmt.Errorf("failed to inspect settings: %w", err)
	}

	return nil
}

// ResetAndReseed wipes every table and runs Bootstrap again. Destructive;
// exposed for development and support use only.
func ResetAndReseed(store storage.Provider) error {
	if err := store.Reset(); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return Bootstrap(store)
}
