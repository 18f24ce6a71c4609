package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calderahq/caldera/docs"
	"github.com/calderahq/caldera/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the documentation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			entries, err := docs.FS.ReadDir(".")
			if err != nil {
				return err
			}
			fmt.Println(ui.Bold.Render("Topics:"))
			for _, entry := range entries {
				topic := strings.TrimSuffix(entry.Name(), ".md")
				fmt.Println("  " + ui.Accent.Render(topic))
			}
			ui.Info("caldera docs <topic>")
			return nil
		}

		raw, err := docs.FS.ReadFile(args[0] + ".md")
		if err != nil {
			return fmt.Errorf("unknown topic %q", args[0])
		}
		fmt.Print(ui.RenderMarkdown(string(raw)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
