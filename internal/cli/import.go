package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/tally/internal/ports/secondary"
	"github.com/example/tally/internal/wire"
)

// rosterFile is the YAML shape consumed by the import command.
type rosterFile struct {
	Subjects []struct {
		ID        string `yaml:"id"`
		LastName  string `yaml:"last_name"`
		FirstName string `yaml:"first_name"`
		Grade     string `yaml:"grade"`
		Team      string `yaml:"team"`
		Flags     string `yaml:"flags"`
	} `yaml:"subjects"`
	Staff []struct {
		Email string `yaml:"email"`
		Name  string `yaml:"name"`
		Team  string `yaml:"team"`
		Role  string `yaml:"role"`
	} `yaml:"staff"`
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <roster.yaml>",
		Short: "Replace the subject directory and staff roles from a YAML file",
		Long: `Replace the directory content wholesale from a roster file. The
directory is read-only to every other operation; this is the only writer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read roster file: %w", err)
			}

			var roster rosterFile
			if err := yaml.Unmarshal(data, &roster); err != nil {
				return fmt.Errorf("failed to parse roster file: %w", err)
			}

			subjects := make([]*secondary.SubjectRecord, len(roster.Subjects))
			for i, s := range roster.Subjects {
				if s.ID == "" || s.Team == "" {
					return fmt.Errorf("subject %d is missing id or team", i)
				}
				subjects[i] = &secondary.SubjectRecord{
					ID:        s.ID,
					LastName:  s.LastName,
					FirstName: s.FirstName,
					Grade:     s.Grade,
					TeamID:    s.Team,
					Flags:     s.Flags,
				}
			}

			staff := make([]*secondary.StaffRecord, len(roster.Staff))
			for i, s := range roster.Staff {
				if s.Role != "lead" && s.Role != "responder" {
					return fmt.Errorf("staff %s has unknown role %q", s.Email, s.Role)
				}
				staff[i] = &secondary.StaffRecord{
					Email:  s.Email,
					Name:   s.Name,
					TeamID: s.Team,
					Role:   s.Role,
				}
			}

			ctx := actorContext()
			if err := wire.Directory().ImportSubjects(ctx, subjects); err != nil {
				return err
			}
			if err := wire.Directory().ImportStaff(ctx, staff); err != nil {
				return err
			}

			fmt.Printf("✓ Imported %d subjects and %d staff entries\n", len(subjects), len(staff))
			return nil
		},
	}
}
