package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdarn/dmapio/pkg/dmap"
	"github.com/sdarn/dmapio/pkg/file"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Re-encode a DMap file with different compression",
	Long: `Read a DMap file and write it back with the compression implied
by the output filename (.bz2, .gz or none). The stream is fully
decoded and re-encoded on the way, so a successful convert also
proves the file is well formed.

Example:
  dmapio convert 20120615.rawacf.bz2 20120615.rawacf
  dmapio convert 20120615.fitacf 20120615.fitacf.gz`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]

		data, _, err := file.ReadBytes(in)
		if err != nil {
			return err
		}

		recs, err := dmap.ReadAll(data)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}

		encoded, err := dmap.EncodeAll(recs)
		if err != nil {
			return err
		}

		if err := file.WriteBytes(out, encoded, file.ForPath(out)); err != nil {
			return err
		}

		cmd.Printf("wrote %d records to %s\n", len(recs), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
