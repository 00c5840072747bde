package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"ternsnip/config"
	"ternsnip/internal/adapter/fs"
	"ternsnip/internal/adapter/store"
	"ternsnip/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Catalog snippets from Tern definition files",
	Long: `Scan a directory for Tern JSON definition files and store every function
definition with its snippet. The catalog is stored in .ternsnip/catalog.db
within the project directory.

Examples:
  ternsnip index                        # Scan the project directory
  ternsnip index ./node_modules/tern    # Scan a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	projectDir := GetRootDir()
	path := projectDir
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	log := GetLogger()

	if err := config.EnsureDataDir(projectDir); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", config.DataDirName, err)
	}

	dbPath := config.CatalogDBPath(projectDir)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer st.Close()

	migration, err := st.CheckMigration(cfg)
	if err != nil {
		return fmt.Errorf("failed to check migration: %w", err)
	}
	if migration.NeedsRebuild {
		log.Info("catalog rebuild required", "reason", migration.Reason)
		if err := st.Clear(); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
	} else if migration.NeedsMigration {
		log.Info("running schema migration", "reason", migration.Reason)
	}
	if err := st.Migrate(cfg); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	expander, err := usecase.NewExpander(cfg, log)
	if err != nil {
		return err
	}

	walker := fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes)
	indexUC := usecase.NewIndexUseCase(st, walker, fs.OSReader{}, expander, log)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progressCallback := func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 && processed < total {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-processed)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Indexing[reset] %s ETA: %s", filepath.Base(currentFile), formatDuration(eta)))
			}
		}
	}

	result, err := indexUC.Index(path, progressCallback)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	stats, err := st.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read catalog stats: %w", err)
	}

	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Files indexed:  %d\n", result.FilesIndexed)
	fmt.Fprintf(out, "  Files skipped:  %d (unchanged)\n", result.FilesSkipped)
	fmt.Fprintf(out, "  Files deleted:  %d (removed)\n", result.FilesDeleted)
	fmt.Fprintf(out, "  Definitions:    %d (%d with snippet)\n", result.DefsStored, result.Snippets)
	fmt.Fprintf(out, "  Catalog total:  %d definitions from %d files\n", stats.TotalDefs, stats.TotalOrigins)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}

	fmt.Fprintf(out, "\nCatalog stored at: %s\n", dbPath)
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
