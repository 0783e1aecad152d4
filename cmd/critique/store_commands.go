package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"critique/internal/api"
	"critique/internal/catalog"
	"critique/internal/store"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage works, credits and the ambiguous-name denylist",
	}
	catalogCmd.AddCommand(newCatalogImportCommand(ctx))
	catalogCmd.AddCommand(newCatalogDenylistCommand(ctx))
	return catalogCmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import works, names and principals from a TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open catalog file: %w", err)
			}
			defer f.Close()
			file, err := catalog.DecodeFile(f)
			if err != nil {
				return err
			}
			records, err := file.Records()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			if err := st.ImportRecords(cmd.Context(), records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d works (%d names, %d principals)\n",
				len(records), len(file.Names), len(file.Principals))
			return nil
		},
	}
}

func newCatalogDenylistCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "denylist [FILE]",
		Short: "Load ambiguous names, one per line (defaults to paths.denylist)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Paths.Denylist
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("denylist file required (argument or paths.denylist)")
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open denylist: %w", err)
			}
			defer f.Close()
			deny, err := catalog.ReadDenylist(f)
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			added, err := st.AddDenylist(cmd.Context(), deny.Names())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Denylisted %d names (%d new)\n", len(deny), added)
			return nil
		},
	}
}

func newReviewsCommand(ctx *commandContext) *cobra.Command {
	reviewsCmd := &cobra.Command{
		Use:   "reviews",
		Short: "Import and inspect stored reviews",
	}
	reviewsCmd.AddCommand(newReviewsImportCommand(ctx))
	reviewsCmd.AddCommand(newReviewsRetryCommand(ctx))
	reviewsCmd.AddCommand(newReviewsShowCommand(ctx))
	return reviewsCmd
}

func newReviewsImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Queue reviews from a TOML file of [[review]] tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open reviews file: %w", err)
			}
			defer f.Close()
			reviews, err := store.DecodeReviews(f)
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			ids, err := st.AddReviews(cmd.Context(), reviews)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued %d reviews\n", len(ids))
			return nil
		},
	}
}

func newReviewsRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Return failed reviews to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			n, err := st.RetryFailed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d failed reviews\n", n)
			return nil
		},
	}
}

func newReviewsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a review with its stored sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid review id %q", args[0])
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			review, err := st.GetReview(cmd.Context(), id)
			if err != nil {
				return err
			}
			sentences, err := st.Sentences(cmd.Context(), id)
			if err != nil {
				return err
			}
			dto := api.FromReview(review, sentences)
			if jsonOut {
				return writeJSON(cmd, dto)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Review %d (%s)\n", dto.ID, dto.Status)
			if dto.WorkID != "" {
				fmt.Fprintf(out, "Work: %s\n", dto.WorkID)
			}
			if dto.ErrorMessage != "" {
				fmt.Fprintf(out, "Error: %s\n", dto.ErrorMessage)
			}
			fmt.Fprintln(out, sentenceTable(out, sentences))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newSentencesCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var mark bool

	cmd := &cobra.Command{
		Use:   "sentences",
		Short: "List sentences awaiting aspect analysis in id order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.Batch.ChunkSize
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			sentences, err := st.SentencesPending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sentences) == 0 {
				fmt.Fprintln(out, "No pending sentences")
				return nil
			}
			fmt.Fprintln(out, sentenceTable(out, sentences))
			if !mark {
				return nil
			}
			ids := make([]int64, len(sentences))
			for i, s := range sentences {
				ids[i] = s.ID
			}
			if err := st.MarkAnalyzed(cmd.Context(), ids); err != nil {
				return err
			}
			fmt.Fprintf(out, "Marked %d sentences analyzed\n", len(ids))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Chunk size (defaults to batch.chunk_size)")
	cmd.Flags().BoolVar(&mark, "mark-analyzed", false, "Mark the listed sentences as analyzed")
	return cmd
}

func sentenceTable(out io.Writer, sentences []store.Sentence) string {
	rows := make([][]string, 0, len(sentences))
	for _, s := range sentences {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			strconv.FormatInt(s.ReviewID, 10),
			s.Text,
			fmt.Sprintf("%.3f", s.Compound),
		})
	}
	return renderTable(out, []string{"ID", "Review", "Sentence", "Compound"}, rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignRight})
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the database contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			dto := api.FromStats(stats)
			if jsonOut {
				return writeJSON(cmd, dto)
			}
			rows := [][]string{
				{"works", strconv.Itoa(dto.Works)},
				{"names", strconv.Itoa(dto.Names)},
				{"denylisted", strconv.Itoa(dto.Denylisted)},
			}
			statuses := make([]string, 0, len(dto.Reviews))
			for status := range dto.Reviews {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				rows = append(rows, []string{"reviews " + status, strconv.Itoa(dto.Reviews[status])})
			}
			rows = append(rows,
				[]string{"sentences", strconv.Itoa(dto.Sentences)},
				[]string{"sentences analyzed", strconv.Itoa(dto.SentencesAnalyzed)},
				[]string{"words", strconv.Itoa(dto.Words)},
			)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Item", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}
