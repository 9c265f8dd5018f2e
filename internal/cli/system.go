package cli

import (
	"fmt"

	"stampcard/internal/seed"
)

type InitCmd struct{}

// Run seeds defaults into the store. Bootstrap is idempotent, so running
// init on an already-populated store changes nothing.
func (c *InitCmd) Run(ctx *Context) error {
	if err := seed.Bootstrap(ctx.Store); err != nil {
		fmt.Println(UserError(err))
		return err
	}
	fmt.Println("Storage initialized.")
	return nil
}

type ResetCmd struct {
	Yes bool `help:"Confirm wiping all data."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if !c.Yes {
		return fmt.Errorf("reset wipes all goals, stamps, trainers and settings; re-run with --yes to confirm")
	}
	if err := seed.ResetAndReseed(ctx.Store); err != nil {
		fmt.Println(UserError(err))
		return err
	}
	fmt.Println("All data wiped and defaults reseeded.")
	return nil
}

type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *Context) error {
	fmt.Printf("backend: %s\n", ctx.Store.Kind())
	if ctx.Store.Kind() == "null" {
		fmt.Println(errStyle.Render("storage is running degraded: reads are empty, writes fail"))
		return nil
	}

	goals, err := ctx.Store.ListGoals(true)
	if err != nil {
		return fmt.Errorf("goal check failed: %w", err)
	}
	trainers, err := ctx.Store.ListTrainers()
	if err != nil {
		return fmt.Errorf("trainer check failed: %w", err)
	}

	selected := 0
	for _, t := range trainers {
		if t.IsSelected {
			selected++
		}
	}

	fmt.Printf("goals:    %d\n", len(goals))
	fmt.Printf("trainers: %d (%d selected)\n", len(trainers), selected)
	if len(trainers) > 0 && selected != 1 {
		fmt.Println(errStyle.Render("invariant violation: expected exactly one selected trainer"))
	}

	stampTotal := 0
	for _, g := range goals {
		n, err := ctx.Store.CountStamps(g.ID)
		if err != nil {
			return fmt.Errorf("stamp check failed: %w", err)
		}
		stampTotal += n
	}
	fmt.Printf("stamps:   %d\n", stampTotal)
	fmt.Println(doneStyle.Render("ok"))
	return nil
}
