package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdarn/dmapio/pkg/file"
	"github.com/sdarn/dmapio/pkg/sdarn"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <product> <file>",
	Short: "Validate a DMap file against a product schema",
	Long: `Decode a DMap file and check every record against the named
product schema (iqdat, rawacf, fitacf, grid, map or snd). All
violations are reported, not just the first.

Example:
  dmapio validate rawacf 20120615.rawacf.bz2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		product, path := args[0], args[1]

		data, _, err := file.ReadBytes(path)
		if err != nil {
			return err
		}

		recs, err := sdarn.Read(product, data)
		if err != nil {
			var verr *sdarn.ValidationError
			if errors.As(err, &verr) {
				for _, rv := range verr.Records {
					for _, v := range rv.Violations {
						cmd.Printf("record %d: %s\n", rv.Index, v)
					}
				}
				return fmt.Errorf("%s: %d records failed %s validation",
					path, len(verr.Records), product)
			}
			return err
		}

		cmd.Printf("%s: %d records, all valid %s\n", path, len(recs), product)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
