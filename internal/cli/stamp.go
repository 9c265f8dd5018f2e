package cli

import (
	"fmt"
	"math/rand"

	"stampcard/internal/engine"
	"stampcard/internal/logger"
	"stampcard/internal/models"
)

type StampCmd struct {
	ID   string `arg:"" help:"Goal id."`
	Type string `help:"Completion type tag." default:"done"`
	Mood string `help:"Optional mood tag." default:""`
	Note string `help:"Optional note." default:""`
}

func (c *StampCmd) Run(ctx *Context) error {
	goal, err := ctx.Engine.RecordStamp(models.GoalID(c.ID), engine.StampInput{
		Type: c.Type,
		Mood: c.Mood,
		Note: c.Note,
	})
	if err != nil {
		fmt.Println(UserError(err))
		return err
	}

	fmt.Printf("%s %s  streak %s  total %d\n",
		doneStyle.Render("Stamped"), titleStyle.Render(goal.Title),
		streakStyle.Render(fmt.Sprintf("%d", goal.CurrentStreak)), goal.TotalStamps)

	if err := ctx.State.Refresh(); err != nil {
		return err
	}
	c.encourage(ctx)
	return nil
}

// encourage plays (or prints) a phrase from the selected trainer. Failures
// here never fail the command; the stamp is already recorded.
func (c *StampCmd) encourage(ctx *Context) {
	trainer := ctx.State.Current().SelectedTrainer
	if trainer == nil || ctx.Player == nil {
		return
	}

	phrase := trainer.Personality.Catchphrase
	if n := len(trainer.Personality.SupportivePhrases); n > 0 {
		phrase = trainer.Personality.SupportivePhrases[rand.Intn(n)]
	}

	if err := ctx.Player.Play(trainer.VoicePrefix, fmt.Sprintf("%s: %s", trainer.Name, phrase)); err != nil {
		logger.Warn("voice playback failed", "trainer", trainer.ID, "error", err)
	}
}
