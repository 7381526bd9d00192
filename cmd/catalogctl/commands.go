package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"catalog-matcher/internal/fileio"
	"catalog-matcher/internal/matcher/model"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Walk the image folders and print the number of indexed images",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := eng.Reload()
		fmt.Fprintf(cmd.OutOrStdout(), "%d images indexed\n", n)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search TERM",
	Short: "Rank images for a product name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")
		term := strings.Join(args, " ")

		eng.Reload()
		res := eng.Search(term, top)
		if len(res) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no match")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, c := range res {
			fmt.Fprintf(tw, "%.2f\t%s\n", c.Score, c.Key)
		}
		return tw.Flush()
	},
}

var processCmd = &cobra.Command{
	Use:   "process FILE",
	Short: "Resolve an order list (.txt, .csv, .xlsx, .xls) and optionally export it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		raw, err := fileio.ReadOrderList(f, filepath.Base(args[0]))
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		eng.Reload()
		results, err := eng.Process(raw)
		if err != nil {
			return err
		}
		printResults(cmd, results)

		if doExport, _ := cmd.Flags().GetBool("export"); doExport {
			path, rows, err := eng.Export(results)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", rows, path)
		}
		return nil
	},
}

var learnCmd = &cobra.Command{
	Use:   "learn TERM KEY",
	Short: "Confirm that TERM always resolves to the indexed image KEY",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng.Reload()
		if err := eng.Learn(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%q -> %s\n", eng.Preprocess(args[0]), args[1])
		return nil
	},
}

func printResults(cmd *cobra.Command, results []model.MatchResult) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tSCORE\tPRODUCT\tPRICE\tMATCH")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\t%s\n", r.Status, r.Score, r.Product, r.Price, r.Match)
	}
	_ = tw.Flush()

	sum := model.Summarize(results)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d products: %d OK, %d REVISAR, %d VERIFICAR, %d NAO_ENCONTRADO\n",
		sum.Total,
		sum.ByStatus[model.StatusOK],
		sum.ByStatus[model.StatusReview],
		sum.ByStatus[model.StatusVerify],
		sum.ByStatus[model.StatusNotFound],
	)
}

func init() {
	searchCmd.Flags().Int("top", 5, "number of candidates")
	processCmd.Flags().Bool("export", false, "write accepted matches to the automation file")

	rootCmd.AddCommand(indexCmd, searchCmd, processCmd, learnCmd)
}
