package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"critique/internal/metadata"
	"critique/internal/pipeline"
	"critique/internal/textnorm"
)

// readInput joins args, or reads stdin when no argument or "-" is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("no input text")
	}
	return text, nil
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var form string

	cmd := &cobra.Command{
		Use:   "normalize [text|-]",
		Short: "Print the normalized form of a review",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if form == "" {
				form = cfg.Pipeline.UnicodeForm
			}
			if _, err := textnorm.ParseForm(form); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), textnorm.Normalize(text, form))
			return nil
		},
	}
	cmd.Flags().StringVar(&form, "form", "", "Unicode normalization form (NFC, NFD, NFKC, NFKD)")
	return cmd
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var workID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze [text|-]",
		Short: "Run the full pipeline on one review and print its sentences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			models, err := ctx.loadModels(cmd.Context())
			if err != nil {
				return err
			}
			work := pipeline.Work{ID: workID}
			if workID != "" {
				st, err := ctx.openStore()
				if err != nil {
					return err
				}
				deny, err := st.Denylist(cmd.Context())
				if err != nil {
					return err
				}
				resolver := metadata.NewResolver(st, deny)
				work, err = pipeline.ResolveWork(cmd.Context(), resolver, workID, metadata.Options{IncludeFirstNames: cfg.Pipeline.IncludeFirstNames})
				if err != nil {
					return err
				}
			}
			res, err := models.Process(cmd.Context(), text, work)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, res)
			}
			printResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&workID, "work", "w", "", "Catalog id of the reviewed work")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func printResult(cmd *cobra.Command, res pipeline.Result) {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(res.Sentences))
	for i, s := range res.Sentences {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			s.Text,
			fmt.Sprintf("%.3f", s.Polarity.Compound),
			fmt.Sprintf("%.3f", s.Polarity.Positive),
			fmt.Sprintf("%.3f", s.Polarity.Negative),
		})
	}
	fmt.Fprintln(out, renderTable(out, []string{"#", "Sentence", "Compound", "Pos", "Neg"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight}))
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning (%s): %s\n", w.Kind, w.Message)
	}
}

