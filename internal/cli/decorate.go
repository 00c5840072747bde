package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"ternsnip/internal/usecase"
)

var decorateCmd = &cobra.Command{
	Use:   "decorate [file]",
	Short: "Add snippets to a Tern completions response",
	Long: `Read the JSON body of a Tern "completions" query (from a file, or stdin
when the file is omitted or "-") and write it back with a "snippet" field on
every function-typed completion.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecorate,
}

func init() {
	rootCmd.AddCommand(decorateCmd)
}

func runDecorate(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open completions: %w", err)
		}
		defer f.Close()
		in = f
	}

	expander, err := usecase.NewExpander(GetConfig(), GetLogger())
	if err != nil {
		return err
	}

	n, err := usecase.NewDecorateUseCase(expander).DecorateJSON(in, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	GetLogger().Debug("decorated completions", "count", n)
	return nil
}
