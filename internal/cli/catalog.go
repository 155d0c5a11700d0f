package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/heritage-web/internal/catalog"
	"finitefield.org/heritage-web/internal/domain"
)

var errCatalogInvalid = errors.New("catalog has consistency errors")

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the heritage catalog",
	}
	cmd.AddCommand(newCatalogCheckCmd(a))
	cmd.AddCommand(newCatalogStatsCmd())
	return cmd
}

func newCatalogCheckCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate catalog records against the data invariants",
		Example: `  # Check the catalog compiled into the binary
  heritage catalog check

  # Check a YAML document before replacing the seed catalog
  heritage catalog check --file internal/catalog/data/catalog.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, regions, err := readDocument(file)
			if err != nil {
				return err
			}
			issues := catalog.Check(items, regions)
			if a.logger != nil {
				a.logger.Debug("catalog checked",
					zap.String("file", file),
					zap.Int("items", len(items)),
					zap.Int("issues", len(issues)),
				)
			}
			return reportIssues(cmd.OutOrStdout(), len(items), len(regions), issues)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to check instead of the embedded one")

	return cmd
}

func newCatalogStatsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise catalog records by region, state and category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, regions, err := readDocument(file)
			if err != nil {
				return err
			}
			return writeStats(cmd.OutOrStdout(), items, regions)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to summarise instead of the embedded one")

	return cmd
}

func readDocument(path string) ([]domain.HeritageItem, []domain.Region, error) {
	if path == "" {
		return catalog.EmbeddedDocument()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return catalog.ReadDocument(f)
}

func reportIssues(w io.Writer, items, regions int, issues []catalog.Issue) error {
	for _, issue := range issues {
		fmt.Fprintln(w, issue.String())
	}
	var errs, warnings int
	for _, issue := range issues {
		if issue.Severity == catalog.SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	fmt.Fprintf(w, "%d items, %d regions: %d errors, %d warnings\n", items, regions, errs, warnings)
	if catalog.HasErrors(issues) {
		return errCatalogInvalid
	}
	return nil
}

func writeStats(w io.Writer, items []domain.HeritageItem, regions []domain.Region) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "REGION\tSTATES\tITEMS")
	for _, region := range regions {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", region.Name, len(region.States), len(catalog.ByRegion(items, region.ID)))
	}
	fmt.Fprintln(tw, "\t\t")

	fmt.Fprintln(tw, "STATE\tITEMS\t")
	for _, sc := range catalog.PopularStates(items, len(items)) {
		fmt.Fprintf(tw, "%s\t%d\t\n", sc.State, sc.Count)
	}
	fmt.Fprintln(tw, "\t\t")

	fmt.Fprintln(tw, "CATEGORY\tITEMS\t")
	for _, group := range catalog.GroupByCategory(items) {
		fmt.Fprintf(tw, "%s\t%d\t\n", group.Category, len(group.Items))
	}

	return tw.Flush()
}
