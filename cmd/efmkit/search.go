package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openefiling/efmkit/internal/cases"
	"github.com/openefiling/efmkit/internal/cliout"
	"github.com/openefiling/efmkit/internal/efm"
	"github.com/openefiling/efmkit/internal/notify"
)

var (
	searchFirstName    string
	searchLastName     string
	searchBusinessName string
	searchDocket       string
)

var searchCmd = &cobra.Command{
	Use:   "search <court-id>",
	Short: "Search a court's cases by party name or docket number",
	Long: `Search a court's cases by party name or docket number.

Results come back newest first. Only the first window of results gets the
full detail fetch; the rest are returned as stubs.

Examples:
  efmkit search adams --last-name Doe
  efmkit search adams --last-name Doe --first-name Jane
  efmkit search adams --business-name "Acme Anvils"
  efmkit search adams --docket 2023-CV-001`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if searchLastName == "" && searchBusinessName == "" && searchDocket == "" {
			return fmt.Errorf("one of --last-name, --business-name, or --docket is required")
		}

		client := newProxyClient(cfg)
		notifier := notify.NewLogger(slog.Default())
		defer notifier.Close()

		searcher := cases.NewSearcher(cases.SearcherConfig{
			Proxy:      searchProxy{fetcher: newFetcher(cfg, client), client: client},
			Notifier:   notifier,
			WindowSize: cfg.Search.WindowSize,
		})

		var result cases.SearchResult
		if searchDocket != "" {
			result = searcher.SearchByDocket(cmd.Context(), args[0], searchDocket)
		} else {
			result = searcher.SearchByName(cmd.Context(), args[0], &efm.PartyQuery{
				FirstName:    searchFirstName,
				LastName:     searchLastName,
				BusinessName: searchBusinessName,
			}, nil)
		}
		if !result.OK {
			return fmt.Errorf("search failed")
		}
		if result.CMSConnectionIssue {
			fmt.Fprintln(cmd.ErrOrStderr(),
				"warning: the court's case management system connection is degraded; results may be incomplete")
		}

		pretty := ""
		for _, rec := range result.Cases {
			pretty += "* " + rec.Label() + "\n"
		}
		return cliout.Output(result, pretty)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFirstName, "first-name", "", "party first name")
	searchCmd.Flags().StringVar(&searchLastName, "last-name", "", "party last name")
	searchCmd.Flags().StringVar(&searchBusinessName, "business-name", "", "party business name")
	searchCmd.Flags().StringVar(&searchDocket, "docket", "", "docket number (overrides name search)")
}
