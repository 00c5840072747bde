package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"ternsnip/config"
	"ternsnip/internal/adapter/store"
	"ternsnip/internal/domain"
	"ternsnip/internal/usecase"
)

var (
	queryText  string
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the snippet catalog by name",
	Long: `Search cataloged definitions whose dotted name contains the query.

Examples:
  ternsnip query -q prototype.push
  ternsnip query -q Array --limit 10 --json`,
	RunE: runQuery,
}

var getCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print the snippet of one cataloged definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(getCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "name fragment to search for (required)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "l", 50, "maximum number of results (0 for all)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
	getCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
}

func openCatalog() (*store.BoltStore, error) {
	dbPath := config.CatalogDBPath(GetRootDir())
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no catalog found. Run 'ternsnip index' first")
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if rebuild, reason, err := st.NeedsRebuild(GetConfig()); err == nil && rebuild {
		GetLogger().Warn("catalog is stale, run 'ternsnip index' again", "reason", reason)
	}
	return st, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	st, err := openCatalog()
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := usecase.NewLookupUseCase(st).Search(queryText, queryLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if queryJSON {
		if results == nil {
			results = []domain.Definition{}
		}
		return writeJSON(out, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(results), queryText)
	for _, def := range results {
		printDefinition(out, def)
	}
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	st, err := openCatalog()
	if err != nil {
		return err
	}
	defer st.Close()

	def, err := usecase.NewLookupUseCase(st).Get(args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no definition named %q", args[0])
	}
	if err != nil {
		return err
	}

	if queryJSON {
		return writeJSON(cmd.OutOrStdout(), def)
	}
	printDefinition(cmd.OutOrStdout(), def)
	return nil
}

func printDefinition(out io.Writer, def domain.Definition) {
	snip := def.Snippet
	if snip == "" {
		snip = "(no snippet)"
	}
	fmt.Fprintf(out, "%s\n  type:    %s\n  snippet: %s\n", def.Name, def.Signature, snip)
	if def.Doc != "" {
		fmt.Fprintf(out, "  doc:     %s\n", def.Doc)
	}
	fmt.Fprintln(out)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
