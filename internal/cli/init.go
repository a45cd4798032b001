package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/tally/internal/adapters/sqlite"
	"github.com/example/tally/internal/app"
	"github.com/example/tally/internal/config"
	"github.com/example/tally/internal/core/week"
	"github.com/example/tally/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var weeks int
	var startDate string
	var activeWeek int

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the tally database and template view",
		Long: `Create .tally/config.json in the current directory, initialize the
database schema, seed the default notification template, and build the
reserved template view the team views are rebuilt from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, cfgErr := config.LoadConfig(cwd)
			if cfgErr != nil {
				cfg = config.Default()
				cfg.Actor = os.Getenv("USER")
				if err := config.SaveConfig(cwd, cfg); err != nil {
					return err
				}
				fmt.Println("✓ Config created at .tally/config.json")
			}

			dbPath := cfg.DBPath
			if dbPath == "" {
				dbPath, err = config.DefaultDBPath()
				if err != nil {
					return err
				}
			}

			conn, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Printf("✓ Database initialized at %s\n", dbPath)

			if err := db.SeedTemplates(conn); err != nil {
				return err
			}
			fmt.Println("✓ Notification template seeded")

			start, err := resolveStart(startDate)
			if err != nil {
				return err
			}
			if err := ensureTemplateView(cmd.Context(), conn, start, weeks, activeWeek); err != nil {
				return err
			}
			fmt.Printf("✓ Template view ready (%d week blocks from %s)\n",
				weeks, start.Format(week.LabelFormat))

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  tally import roster.yaml")
			fmt.Println("  tally sync --all")
			return nil
		},
	}

	cmd.Flags().IntVar(&weeks, "weeks", 6, "number of week blocks in the template")
	cmd.Flags().StringVar(&startDate, "start", "", "first week's date (YYYY-MM-DD, default: this week's Monday)")
	cmd.Flags().IntVar(&activeWeek, "active", 0, "0-based index of the active week block")
	return cmd
}

// resolveStart parses the start flag, defaulting to the current week's
// Monday.
func resolveStart(s string) (time.Time, error) {
	if s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse start date: %w", err)
		}
		return t, nil
	}
	now := time.Now()
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ensureTemplateView creates the reserved template view and writes its
// header. An existing template is left alone.
func ensureTemplateView(ctx context.Context, conn *sql.DB, start time.Time, weeks, activeWeek int) error {
	store := sqlite.NewSheetStore(conn)

	view, err := store.GetView(ctx, app.TemplateView)
	if err != nil {
		return err
	}
	if view != nil {
		return nil
	}

	if err := store.CreateView(ctx, app.TemplateView, "", true); err != nil {
		return err
	}
	header := week.TemplateHeader(start, weeks, activeWeek)
	return store.WriteHeader(ctx, app.TemplateView, header)
}
