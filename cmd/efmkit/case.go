package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openefiling/efmkit/internal/cases"
	"github.com/openefiling/efmkit/internal/cliout"
	"github.com/openefiling/efmkit/internal/notify"
	"github.com/openefiling/efmkit/internal/xmljson"
)

var caseShowRaw bool

var caseCmd = &cobra.Command{
	Use:   "case <court-id> <tracking-id>",
	Short: "Fetch and hydrate one case",
	Long: `Fetch a case's detail document and build the canonical record:
title, type, filing date, participants, attorneys, and who represents whom.

Examples:
  efmkit case adams 8cd422d9-8de2-4e20-b023-dc4752fd9e5e
  efmkit case adams 8cd422d9-8de2-4e20-b023-dc4752fd9e5e --raw -o json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newProxyClient(cfg)
		notifier := notify.NewLogger(slog.Default())
		defer notifier.Close()

		rec := &cases.CaseRecord{CourtID: args[0], TrackingID: args[1]}
		cases.FetchCaseInfo(cmd.Context(), newFetcher(cfg, client), rec, nil, notifier)
		if !rec.Hydrated {
			return fmt.Errorf("couldn't fetch case %s at %s", args[1], args[0])
		}

		if caseShowRaw {
			return cliout.Output(rec.Details, xmljson.PrettyDisplay(rec.Details, 0, true, ""))
		}
		return cliout.Output(rec, rec.Label())
	},
}

func init() {
	caseCmd.Flags().BoolVar(&caseShowRaw, "raw", false, "output the raw detail payload instead of the record")
}
