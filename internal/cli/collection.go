package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/calderahq/caldera/internal/engine"
	"github.com/calderahq/caldera/internal/schema"
	"github.com/calderahq/caldera/internal/store"
	"github.com/calderahq/caldera/internal/ui"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage collections and their fields",
}

var collectionProject string

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.ProjectByUUID(collectionProject)
		if err != nil {
			return err
		}
		collections, err := st.ListCollections(p.ID)
		if err != nil {
			return err
		}
		if len(collections) == 0 {
			ui.Info("no collections")
			return nil
		}

		table := ui.NewTable("SLUG", "NAME", "FIELDS", "RECORDS")
		eng := engine.New(st, zerolog.Nop())
		for _, c := range collections {
			fields, err := st.FieldsForCollection(c.ID)
			if err != nil {
				return err
			}
			counts, err := eng.CountStates(&engine.Scope{Project: p, Collection: &c})
			if err != nil {
				return err
			}
			table.AddRow(c.Slug, c.Name, strconv.Itoa(len(fields)), strconv.Itoa(counts.Total))
		}
		table.Render()
		return nil
	},
}

var collectionShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a collection's schema and record counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		eng := engine.New(st, zerolog.Nop())
		p, err := st.ProjectByUUID(collectionProject)
		if err != nil {
			return err
		}
		sc, err := eng.ResolveScope(p.UUID, args[0])
		if err != nil {
			return err
		}

		fmt.Println(ui.AccentBold.Render(sc.Collection.Name), ui.Muted.Render("("+sc.Collection.Slug+")"))

		counts, err := eng.CountStates(sc)
		if err != nil {
			return err
		}
		ui.Info("%d records: %d published, %d draft, %d trashed",
			counts.Total, counts.Published, counts.Draft, counts.Trashed)

		if len(sc.Fields) == 0 {
			return nil
		}
		table := ui.NewTable("NAME", "TYPE", "LABEL")
		for _, f := range sc.Fields {
			table.AddRow(f.Name, string(f.Type), f.Label)
		}
		table.Render()
		return nil
	},
}

// applyFile is the YAML shape consumed by collection apply.
type applyFile struct {
	Project string         `yaml:"project"`
	Name    string         `yaml:"name"`
	Slug    string         `yaml:"slug"`
	Fields  []schema.Field `yaml:"fields"`
}

var collectionApplyCmd = &cobra.Command{
	Use:   "apply <file.yaml>",
	Short: "Create a collection and its fields from a YAML definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var def applyFile
		if err := yaml.Unmarshal(raw, &def); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		if def.Project == "" {
			def.Project = collectionProject
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.ProjectByUUID(def.Project)
		if err != nil {
			return err
		}
		c := &store.Collection{ProjectID: p.ID, Name: def.Name, Slug: def.Slug}
		if err := st.CreateCollection(c); err != nil {
			return err
		}
		for i := range def.Fields {
			f := &def.Fields[i]
			f.ProjectID = p.ID
			f.CollectionID = c.ID
			if f.Position == 0 {
				f.Position = i
			}
			if err := st.CreateField(f); err != nil {
				return err
			}
		}

		ui.Success("created collection %s with %d fields", ui.AccentBold.Render(c.Slug), len(def.Fields))
		return nil
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a collection and its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.ProjectByUUID(collectionProject)
		if err != nil {
			return err
		}
		c, err := st.CollectionBySlug(p.ID, args[0])
		if err != nil {
			return err
		}
		if err := st.DeleteCollection(c.ID); err != nil {
			return err
		}
		ui.Success("deleted collection %s", c.Slug)
		return nil
	},
}

func init() {
	collectionCmd.PersistentFlags().StringVar(&collectionProject, "project", "", "project uuid")
	collectionCmd.AddCommand(collectionListCmd, collectionShowCmd, collectionApplyCmd, collectionDeleteCmd)
	rootCmd.AddCommand(collectionCmd)
}
