package cli

import (
	"fmt"

	"stampcard/internal/models"
)

type TrainerCmd struct {
	List   TrainerListCmd   `cmd:"" help:"List trainers."`
	Select TrainerSelectCmd `cmd:"" help:"Select the active trainer."`
}

type TrainerListCmd struct{}

func (c *TrainerListCmd) Run(ctx *Context) error {
	if err := ctx.State.Refresh(); err != nil {
		return err
	}

	snap := ctx.State.Current()
	if len(snap.Trainers) == 0 {
		fmt.Println("No trainers found. Run 'stampcard init' to seed defaults.")
		return nil
	}

	for _, t := range snap.Trainers {
		marker := "  "
		if t.IsSelected {
			marker = doneStyle.Render("* ")
		}
		fmt.Printf("%s%s (%s)  %s\n", marker, titleStyle.Render(t.Name), t.Type,
			faintStyle.Render(string(t.ID)))
		if t.Personality.Catchphrase != "" {
			fmt.Printf("    %s\n", faintStyle.Render(t.Personality.Catchphrase))
		}
	}
	return nil
}

type TrainerSelectCmd struct {
	ID string `arg:"" help:"Trainer id."`
}

func (c *TrainerSelectCmd) Run(ctx *Context) error {
	if err := ctx.State.SelectTrainer(models.TrainerID(c.ID)); err != nil {
		fmt.Println(UserError(err))
		return err
	}

	if t := ctx.State.Current().SelectedTrainer; t != nil {
		fmt.Printf("Selected trainer: %s\n", titleStyle.Render(t.Name))
		if ctx.Player != nil && t.Personality.Catchphrase != "" {
			_ = ctx.Player.Play(t.VoicePrefix, fmt.Sprintf("%s: %s", t.Name, t.Personality.Catchphrase))
		}
	}
	return nil
}
