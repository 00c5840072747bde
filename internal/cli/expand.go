package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"ternsnip/internal/adapter/signature"
	"ternsnip/internal/adapter/snippet"
	"ternsnip/internal/domain"
	"ternsnip/internal/usecase"
)

var (
	expandNotation    string
	expandNoCallbacks bool
	expandKeepContext bool
	expandRepr        bool
	expandJSON        bool
)

var expandCmd = &cobra.Command{
	Use:   "expand [signature...]",
	Short: "Print the snippet for one or more signatures",
	Long: `Convert Tern function signatures into completion snippets.
Signatures are read from the arguments, or one per line from stdin.

Examples:
  ternsnip expand 'fn(elt, from: number) -> number'
  ternsnip expand --notation chocolat 'fn(f: fn(elt, i: number), context)'
  echo 'fn(a, b)' | ternsnip expand --json`,
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringVarP(&expandNotation, "notation", "n", "", "tabstop notation: lsp or chocolat (default from config)")
	expandCmd.Flags().BoolVar(&expandNoCallbacks, "no-callbacks", false, "do not expand function arguments into callback placeholders")
	expandCmd.Flags().BoolVar(&expandKeepContext, "keep-context", false, "keep a trailing context argument")
	expandCmd.Flags().BoolVar(&expandRepr, "repr", false, "also print the parsed signature")
	expandCmd.Flags().BoolVar(&expandJSON, "json", false, "output as JSON")
}

// ExpandResult is one line of expand output.
type ExpandResult struct {
	Signature string           `json:"signature"`
	Snippet   string           `json:"snippet,omitempty"`
	Repr      string           `json:"repr,omitempty"`
	Tree      *domain.FuncType `json:"tree,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg := *GetConfig()
	if expandNotation != "" {
		cfg.Snippet.Notation = expandNotation
	}
	if expandNoCallbacks {
		cfg.Snippet.ExpandCallbacks = false
	}
	if expandKeepContext {
		cfg.Snippet.DropContext = false
	}

	synth, err := usecase.NewSynthesizer(&cfg)
	if err != nil {
		return err
	}

	sigs := args
	if len(sigs) == 0 {
		sigs, err = readLines(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read signatures: %w", err)
		}
	}

	parser := signature.NewParser()
	results := make([]ExpandResult, 0, len(sigs))
	for _, sig := range sigs {
		results = append(results, expandOne(synth, parser, sig))
	}

	out := cmd.OutOrStdout()
	if expandJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	}

	for _, r := range results {
		if expandRepr && r.Repr != "" {
			fmt.Fprintf(out, "%s\n  ", r.Repr)
		}
		switch {
		case r.Error != "":
			fmt.Fprintf(out, "error: %s\n", r.Error)
		case r.Snippet == "":
			fmt.Fprintln(out, "(no snippet)")
		default:
			fmt.Fprintln(out, r.Snippet)
		}
	}
	return nil
}

func expandOne(synth *snippet.Synthesizer, parser *signature.Parser, sig string) ExpandResult {
	result := ExpandResult{Signature: sig}

	snip, err := synth.Expand(sig)
	switch {
	case errors.Is(err, snippet.ErrNoSnippet):
	case err != nil:
		result.Error = err.Error()
		GetLogger().Debug("malformed signature", "signature", sig, "error", err)
		return result
	default:
		result.Snippet = snip
	}

	if expandRepr {
		if fn, err := parser.Parse(sig); err == nil && fn != nil {
			result.Repr = signature.Repr(fn)
			if expandJSON {
				result.Tree = fn
			}
		}
	}
	return result
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
