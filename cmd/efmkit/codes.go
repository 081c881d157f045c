package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openefiling/efmkit/internal/cliout"
	"github.com/openefiling/efmkit/internal/codes"
	"github.com/openefiling/efmkit/internal/efm"
)

var (
	codesMatch    []string
	codesExclude  []string
	codesDefault  string
	codesCategory string
	codesCaseType string
	codesInitial  bool
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Look up and narrow court filing codes",
	Long: `Court code lookups: case categories, case types, party types, and
filing types, with the same narrowing the interview flow uses.

--match filters are tried in order, most specific first; if none of them
leave any codes, each is retried as a label-contains match. One survivor
resolves the code outright.

Examples:
  efmkit codes categories adams
  efmkit codes case-types adams --category 7306 --match Divorce
  efmkit codes party-types adams --case-type 27101
  efmkit codes filing-types adams --category 7306 --case-type 27101 --initial`,
}

// codesResult is the structured output of every codes subcommand.
type codesResult struct {
	Options  []codes.Option `json:"options" yaml:"options"`
	Resolved string         `json:"resolved,omitempty" yaml:"resolved,omitempty"`
}

// runCodesQuery narrows a code list response and renders it.
func runCodesQuery(resp efm.Response) error {
	if !resp.IsOk() {
		return fmt.Errorf("code lookup failed: %s", resp.String())
	}
	options, _ := codes.FromResponseData(resp.Data)

	var filters []codes.Filter
	for _, m := range codesMatch {
		filters = append(filters, codes.Label(m))
	}
	var exclude codes.Filter
	if len(codesExclude) > 0 {
		excluded := make(map[string]bool, len(codesExclude))
		for _, code := range codesExclude {
			excluded[code] = true
		}
		exclude = codes.Func(func(o codes.Option) bool { return excluded[o.Code] })
	}

	narrowed, resolved := codes.FilterCodes(options, filters, codesDefault, exclude)

	pretty := ""
	for _, opt := range narrowed {
		pretty += fmt.Sprintf("* %s: %s\n", opt.Code, opt.Label)
	}
	if resolved != "" {
		pretty += fmt.Sprintf("resolved: %s\n", resolved)
	}
	return cliout.Output(codesResult{Options: narrowed, Resolved: resolved}, pretty)
}

func newCodesSubcommand(use, short string, lookup func(*efm.Client, *cobra.Command, []string) efm.Response) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runCodesQuery(lookup(newProxyClient(cfg), cmd, args))
		},
	}
}

func init() {
	categoriesCmd := newCodesSubcommand("categories <court-id>", "List a court's case categories",
		func(client *efm.Client, cmd *cobra.Command, args []string) efm.Response {
			return client.GetCaseCategories(cmd.Context(), args[0])
		})
	caseTypesCmd := newCodesSubcommand("case-types <court-id>", "List a court's case types",
		func(client *efm.Client, cmd *cobra.Command, args []string) efm.Response {
			return client.GetCaseTypes(cmd.Context(), args[0], codesCategory)
		})
	partyTypesCmd := newCodesSubcommand("party-types <court-id>", "List the party types of a case type",
		func(client *efm.Client, cmd *cobra.Command, args []string) efm.Response {
			return client.GetPartyTypes(cmd.Context(), args[0], codesCaseType)
		})
	filingTypesCmd := newCodesSubcommand("filing-types <court-id>", "List the filing types of a case type",
		func(client *efm.Client, cmd *cobra.Command, args []string) efm.Response {
			return client.GetFilingTypes(cmd.Context(), args[0], codesCategory, codesCaseType, codesInitial)
		})

	caseTypesCmd.Flags().StringVar(&codesCategory, "category", "", "case category code")
	partyTypesCmd.Flags().StringVar(&codesCaseType, "case-type", "", "case type code")
	filingTypesCmd.Flags().StringVar(&codesCategory, "category", "", "case category code")
	filingTypesCmd.Flags().StringVar(&codesCaseType, "case-type", "", "case type code")
	filingTypesCmd.Flags().BoolVar(&codesInitial, "initial", false, "initial filings only")

	for _, sub := range []*cobra.Command{categoriesCmd, caseTypesCmd, partyTypesCmd, filingTypesCmd} {
		sub.Flags().StringArrayVar(&codesMatch, "match", nil, "label or code to match (repeatable, most specific first)")
		sub.Flags().StringArrayVar(&codesExclude, "exclude", nil, "code to exclude (repeatable)")
		sub.Flags().StringVar(&codesDefault, "default", "", "code to fall back to when nothing matches")
		codesCmd.AddCommand(sub)
	}
}
