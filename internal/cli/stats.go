package cli

import (
	"fmt"
	"strings"

	"stampcard/internal/models"
)

type StatsCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	sum, err := ctx.Engine.Summary(models.GoalID(c.ID))
	if err != nil {
		fmt.Println(UserError(err))
		return err
	}

	fmt.Println(titleStyle.Render(sum.Title))
	fmt.Printf("  total stamps:   %d\n", sum.TotalStamps)
	fmt.Printf("  current streak: %s\n", streakStyle.Render(fmt.Sprintf("%d", sum.CurrentStreak)))
	fmt.Printf("  best streak:    %d\n", sum.BestStreak)
	if sum.CompletedToday {
		fmt.Printf("  %s\n", doneStyle.Render("completed today"))
	}
	if sum.Progress > 0 {
		fmt.Printf("  progress:       %.0f%%\n", sum.Progress)
	}

	week, err := ctx.Engine.WeeklyActivity(models.GoalID(c.ID))
	if err != nil {
		fmt.Println(UserError(err))
		return err
	}

	fmt.Println("  last 7 days:")
	for _, dc := range week {
		bar := strings.Repeat("#", dc.Count)
		fmt.Printf("    %s %s %s\n", dc.Day.Format("Mon 01-02"),
			faintStyle.Render(fmt.Sprintf("%d", dc.Count)), doneStyle.Render(bar))
	}
	return nil
}
