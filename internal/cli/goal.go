package cli

import (
	"fmt"
	"time"

	"stampcard/internal/engine"
	"stampcard/internal/models"
	"stampcard/internal/utils"
)

type GoalCmd struct {
	Add     GoalAddCmd     `cmd:"" help:"Add a new goal."`
	List    GoalListCmd    `cmd:"" help:"List goals."`
	Edit    GoalEditCmd    `cmd:"" help:"Edit a goal's fields."`
	Delete  GoalDeleteCmd  `cmd:"" help:"Delete a goal (soft delete)."`
	Restore GoalRestoreCmd `cmd:"" help:"Restore a deleted goal."`
}

type GoalAddCmd struct {
	Title      string `arg:"" help:"Goal title."`
	Category   string `help:"Goal category." default:""`
	Motivation string `help:"Why this goal matters to you." default:""`
	Difficulty int    `help:"Difficulty from 1 (easy) to 5 (hard)." default:"3"`
	Target     string `help:"Target end date (YYYY-MM-DD)." default:""`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	if c.Difficulty < 1 || c.Difficulty > 5 {
		return fmt.Errorf("difficulty must be between 1 and 5, got %d", c.Difficulty)
	}

	var target *time.Time
	if c.Target != "" {
		t, err := utils.ParseDay(c.Target, time.Local)
		if err != nil {
			return fmt.Errorf("invalid target date %q: %w", c.Target, err)
		}
		target = &t
	}

	goal, err := ctx.Engine.CreateGoal(engine.GoalInput{
		Title:         c.Title,
		Category:      c.Category,
		Motivation:    c.Motivation,
		Difficulty:    c.Difficulty,
		TargetEndDate: target,
	})
	if err != nil {
		fmt.Println(UserError(err))
		return err
	}

	fmt.Printf("Added goal: %s (%s)\n", titleStyle.Render(goal.Title), goal.ID)
	return nil
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *Context) error {
	goals := ctx.Engine.ListGoals()
	if len(goals) == 0 {
		fmt.Println("No goals yet. Add one with 'stampcard goal add'.")
		return nil
	}

	for _, g := range goals {
		line := titleStyle.Render(g.Title)
		if g.Category != "" {
			line += faintStyle.Render(" [" + g.Category + "]")
		}
		if ctx.Engine.IsCompletedToday(g) {
			line += doneStyle.Render("  done today")
		}
		fmt.Println(line)
		fmt.Printf("  %s  streak %s (best %d)  total %d\n",
			faintStyle.Render(string(g.ID)),
			streakStyle.Render(fmt.Sprintf("%d", g.CurrentStreak)),
			g.BestStreak, g.TotalStamps)
		if p := engine.ProgressPercentage(g); p > 0 {
			fmt.Printf("  progress %.0f%%\n", p)
		}
	}
	return nil
}

type GoalEditCmd struct {
	ID         string  `arg:"" help:"Goal id."`
	Title      *string `help:"New title."`
	Category   *string `help:"New category."`
	Motivation *string `help:"New motivation text."`
	Difficulty *int    `help:"New difficulty (1-5)."`
	Active     *bool   `help:"Set the active flag."`
}

func (c *GoalEditCmd) Run(ctx *Context) error {
	if c.Difficulty != nil && (*c.Difficulty < 1 || *c.Difficulty > 5) {
		return fmt.Errorf("difficulty must be between 1 and 5, got %d", *c.Difficulty)
	}

	goal, err := ctx.Engine.UpdateGoal(models.GoalID(c.ID), engine.GoalUpdate{
		Title:      c.Title,
		Category:   c.Category,
		Motivation: c.Motivation,
		Difficulty: c.Difficulty,
		IsActive:   c.Active,
	})
	if err != nil {
		fmt.Println(UserError(err))
		return err
	}

	fmt.Printf("Updated goal: %s\n", titleStyle.Render(goal.Title))
	return nil
}

type GoalDeleteCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Engine.DeleteGoal(models.GoalID(c.ID)); err != nil {
		fmt.Println(UserError(err))
		return err
	}
	fmt.Printf("Deleted goal %s. Restore it with 'stampcard goal restore %s'.\n", c.ID, c.ID)
	return nil
}

type GoalRestoreCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *GoalRestoreCmd) Run(ctx *Context) error {
	if err := ctx.Engine.RestoreGoal(models.GoalID(c.ID)); err != nil {
		fmt.Println(UserError(err))
		return err
	}
	fmt.Printf("Restored goal %s.\n", c.ID)
	return nil
}
