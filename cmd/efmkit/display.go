package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openefiling/efmkit/internal/xmljson"
)

var displayWithXML bool

var displayCmd = &cobra.Command{
	Use:   "display <file.json>",
	Short: "Render a saved proxy payload as readable text",
	Long: `Render a saved proxy JSON payload the way a filer would want to read
it: bookkeeping fields suppressed, namespaces stripped, one property per
line. Use - to read from stdin.

Examples:
  efmkit case adams <id> --raw -o json > case.json
  efmkit display case.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if args[0] == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}

		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("payload is not valid JSON: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), xmljson.PrettyDisplay(doc, 0, !displayWithXML, ""))
		return nil
	},
}

func init() {
	displayCmd.Flags().BoolVar(&displayWithXML, "with-xml", false, "include XML bookkeeping fields")
}
