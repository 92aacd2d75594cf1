// Package commands holds CLI subcommands registered on the PocketBase root
// command.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"quotebuilder/apiclient"
	"quotebuilder/config"
	"quotebuilder/services"
)

// NewBOMSummaryCommand prints a project's category rollups and totals.
// Either --token or --email with --password is required.
func NewBOMSummaryCommand(cfg *config.Config) *cobra.Command {
	var (
		projectID string
		token     string
		email     string
		password  string
		apiURL    string
	)

	cmd := &cobra.Command{
		Use:   "bom-summary",
		Short: "Print the category rollup of a project's bill of materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if projectID == "" {
				return errors.New("--project is required")
			}
			client := apiclient.New(apiURL, cfg.APITimeout)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.APITimeout+5*time.Second)
			defer cancel()

			if token == "" {
				if email == "" || password == "" {
					return errors.New("either --token or --email and --password are required")
				}
				res, err := client.Login(ctx, email, password)
				if err != nil {
					return fmt.Errorf("login: %w", err)
				}
				token = res.Token
			}

			items, err := client.ListBOM(ctx, token, projectID)
			if err != nil {
				return fmt.Errorf("list bill of materials: %w", err)
			}
			return WriteBOMSummary(cmd.OutOrStdout(), projectID, services.NewItemStore(items))
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "project id")
	cmd.Flags().StringVar(&token, "token", "", "API token")
	cmd.Flags().StringVar(&email, "email", "", "login email, used when --token is empty")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().StringVar(&apiURL, "api", cfg.APIURL, "API base URL")
	return cmd
}

// WriteBOMSummary renders one row per category plus a totals row. Items use
// the default margin since overrides live in the server's database.
func WriteBOMSummary(w io.Writer, projectID string, store *services.ItemStore) error {
	categories := store.Categories()
	if len(categories) == 0 {
		_, err := fmt.Fprintf(w, "Project %s has no bill of materials items.\n", projectID)
		return err
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numStyle := cellStyle.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Category", "Items", "Cost", "Sell", "Share").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			}
			return numStyle
		})

	var qty float64
	for _, c := range categories {
		qty += c.ItemCount
		t.Row(
			c.Name,
			services.FormatQty(c.ItemCount),
			services.FormatMoney(c.TotalCost),
			services.FormatMoney(c.TotalSell),
			services.FormatPercent(c.PercentageOfTotal),
		)
	}
	totals := store.Totals()
	t.Row("Total", services.FormatQty(qty), services.FormatMoney(totals.TotalCost), services.FormatMoney(totals.TotalSell), "")

	if _, err := fmt.Fprintf(w, "Project %s\n%s\n", projectID, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Margin: %s (%s)\n", services.FormatMoney(totals.Margin), services.FormatPercent(totals.MarginPercent))
	return err
}
