package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openefiling/efmkit/internal/casecache"
	"github.com/openefiling/efmkit/internal/cases"
	"github.com/openefiling/efmkit/internal/cliout"
	"github.com/openefiling/efmkit/internal/config"
	"github.com/openefiling/efmkit/internal/efm"
	"github.com/openefiling/efmkit/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "efmkit",
	Short: "Court e-filing toolkit for Tyler EFM proxy deployments",
	Long: `efmkit talks to an e-filing proxy fronting a Tyler EFM deployment and
turns its JAXB-flavored JSON into records you can actually work with.

It covers:
  - Case search by party name with windowed detail hydration
  - Participant, attorney, and representation extraction
  - Court code lookup and narrowing (categories, types, parties, filings)
  - Readable rendering of raw proxy payloads`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.efmkit/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "efmkit home directory (default: ~/.efmkit)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json, or pretty",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cliout.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(caseCmd)
	rootCmd.AddCommand(codesCmd)
	rootCmd.AddCommand(displayCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the config for the current invocation.
func loadConfig() (*config.Config, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	return mgr.Get(), nil
}

// newProxyClient builds the proxy client from config.
func newProxyClient(cfg *config.Config) *efm.Client {
	return efm.NewClient(efm.Config{
		URL:          cfg.Proxy.URL,
		APIKey:       cfg.ResolveAPIKey(),
		Jurisdiction: cfg.Proxy.Jurisdiction,
	})
}

// newFetcher wraps the client with the Redis cache when one is configured.
// A cache that fails to connect is reported and skipped; commands still
// work, just slower.
func newFetcher(cfg *config.Config, client *efm.Client) cases.CaseFetcher {
	if cfg.Cache.RedisURL == "" {
		return client
	}
	store, err := casecache.NewStore(casecache.Config{
		URL: cfg.Cache.RedisURL,
		TTL: cfg.Cache.TTL(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "case cache unavailable: %v\n", err)
		return client
	}
	return casecache.NewFetcher(client, store)
}

// searchProxy routes detail fetches through the (possibly cached) fetcher
// while searches go straight to the client.
type searchProxy struct {
	fetcher cases.CaseFetcher
	client  *efm.Client
}

func (s searchProxy) GetCase(ctx context.Context, courtID, trackingID string) efm.Response {
	return s.fetcher.GetCase(ctx, courtID, trackingID)
}

func (s searchProxy) GetCases(ctx context.Context, courtID string, party *efm.PartyQuery, docketNumber string) efm.Response {
	return s.client.GetCases(ctx, courtID, party, docketNumber)
}
