package cli

import (
	"fmt"
	"strconv"

	"stampcard/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change a setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	st, err := ctx.Store.GetSettings()
	if err != nil {
		fmt.Println(UserError(err))
		return err
	}

	fmt.Printf("volume:            %.1f\n", st.Volume)
	fmt.Printf("notification-time: %s\n", st.NotificationTime)
	fmt.Printf("theme:             %s\n", st.Theme)
	fmt.Printf("language:          %s\n", st.Language)
	fmt.Printf("sound:             %t\n", st.SoundEnabled)
	fmt.Printf("notifications:     %t\n", st.NotificationsEnabled)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key (volume, notification-time, theme, language, sound, notifications)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	st, err := ctx.Store.GetSettings()
	if err != nil {
		fmt.Println(UserError(err))
		return err
	}

	switch c.Key {
	case "volume":
		v, err := strconv.ParseFloat(c.Value, 64)
		if err != nil || v < 0 || v > 1 {
			return fmt.Errorf("volume must be a number between 0 and 1, got %q", c.Value)
		}
		st.Volume = v
	case "notification-time":
		if _, err := utils.ParseClock(c.Value); err != nil {
			return fmt.Errorf("notification-time must be HH:MM, got %q", c.Value)
		}
		st.NotificationTime = c.Value
	case "theme":
		switch c.Value {
		case "auto", "light", "dark":
			st.Theme = c.Value
		default:
			return fmt.Errorf("theme must be auto, light or dark, got %q", c.Value)
		}
	case "language":
		st.Language = c.Value
	case "sound":
		v, err := strconv.ParseBool(c.Value)
		if err != nil {
			return fmt.Errorf("sound must be true or false, got %q", c.Value)
		}
		st.SoundEnabled = v
	case "notifications":
		v, err := strconv.ParseBool(c.Value)
		if err != nil {
			return fmt.Errorf("notifications must be true or false, got %q", c.Value)
		}
		st.NotificationsEnabled = v
	default:
		return fmt.Errorf("unknown setting %q", c.Key)
	}

	if err := ctx.Store.SaveSettings(st); err != nil {
		fmt.Println(UserError(err))
		return err
	}
	fmt.Printf("Set %s to %s\n", c.Key, c.Value)
	return nil
}
