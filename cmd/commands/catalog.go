package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/materials-advisor/internal/app"
	"github.com/yungbote/materials-advisor/internal/catalog"
)

var (
	searchK        int
	addDescription string
	addProperties  string
	addApps        string
	addStandards   []string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and maintain the material catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, cleanup, err := app.OpenCatalog(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tNAME\tSTANDARDS")
		for i, e := range c.List() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, e.Name, strings.Join(e.GOSTStandards, ", "))
		}
		return w.Flush()
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find the materials closest to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, cleanup, err := app.OpenCatalog(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		matches, err := c.Search(cmd.Context(), strings.Join(args, " "), searchK)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a material and persist the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, cleanup, err := app.OpenCatalog(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		e := catalog.Entry{
			Name:          args[0],
			Description:   addDescription,
			Properties:    addProperties,
			Applications:  addApps,
			GOSTStandards: addStandards,
		}
		if err := c.Add(cmd.Context(), e); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %q (%d entries)\n", e.Name, c.Len())
		return nil
	},
}

var catalogReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Embed every entry that has no vector yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, cleanup, err := app.OpenCatalog(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		n, err := c.Reindex(cmd.Context())
		if errors.Is(err, catalog.ErrEmbedding) {
			return fmt.Errorf("%w (is EMBEDDING_API_KEY set?)", err)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "embedded %d entries\n", n)
		return nil
	},
}

func init() {
	catalogSearchCmd.Flags().IntVarP(&searchK, "k", "k", catalog.DefaultTopK, "number of results")
	catalogAddCmd.Flags().StringVar(&addDescription, "description", "", "material description")
	catalogAddCmd.Flags().StringVar(&addProperties, "properties", "", "key properties")
	catalogAddCmd.Flags().StringVar(&addApps, "applications", "", "typical applications")
	catalogAddCmd.Flags().StringSliceVar(&addStandards, "gost", nil, "GOST standards (repeatable)")
	catalogCmd.AddCommand(catalogListCmd, catalogSearchCmd, catalogAddCmd, catalogReindexCmd)
	rootCmd.AddCommand(catalogCmd)
}
