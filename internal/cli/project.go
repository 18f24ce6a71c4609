package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calderahq/caldera/internal/store"
	"github.com/calderahq/caldera/internal/ui"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var (
	projectLocale  string
	projectLocales []string
)

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p := &store.Project{
			Name:          args[0],
			DefaultLocale: projectLocale,
			Locales:       projectLocales,
		}
		if err := st.CreateProject(p); err != nil {
			return err
		}
		ui.Success("created project %s", ui.AccentBold.Render(p.Name))
		ui.Info("uuid: %s", p.UUID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		projects, err := st.ListProjects()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			ui.Info("no projects")
			return nil
		}

		table := ui.NewTable("UUID", "NAME", "LOCALES")
		for _, p := range projects {
			table.AddRow(p.UUID, p.Name, strings.Join(p.Locales, ","))
		}
		table.Render()
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <uuid>",
	Short: "Delete a project and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.ProjectByUUID(args[0])
		if err != nil {
			return err
		}
		if err := st.DeleteProject(p.ID); err != nil {
			return err
		}
		ui.Success("deleted project %s", p.Name)
		return nil
	},
}

var projectStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("projects:    %d\n", stats.Projects)
		fmt.Printf("collections: %d\n", stats.Collections)
		fmt.Printf("fields:      %d\n", stats.Fields)
		fmt.Printf("content:     %d\n", stats.Content)
		fmt.Printf("attributes:  %d\n", stats.Attributes)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectLocale, "locale", "en", "default locale")
	projectCreateCmd.Flags().StringSliceVar(&projectLocales, "locales", nil, "available locales")
	projectCmd.AddCommand(projectCreateCmd, projectListCmd, projectDeleteCmd, projectStatsCmd)
	rootCmd.AddCommand(projectCmd)
}
