package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sdarn/dmapio/pkg/catalog"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index <product> <file>...",
	Short: "Add DMap files to the local catalog",
	Long: `Decode one or more DMap files and store a per-record summary
(station, beam, timestamp, byte offset) in the local catalog, so
large archives can be listed without re-reading them.

Example:
  dmapio index rawacf archive/2012/*.rawacf.bz2`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		indexDir, _ := cmd.Flags().GetString("index-dir")
		product := args[0]

		cat, err := catalog.Open(indexDir)
		if err != nil {
			return err
		}
		defer cat.Close()

		for _, path := range args[1:] {
			sums, err := cat.IndexFile(path, product)
			if err != nil {
				return err
			}
			cmd.Printf("%s: indexed %d records\n", path, len(sums))
		}
		return nil
	},
}

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List catalog entries",
	Long: `List the records in the local catalog, optionally filtered by
station identifier or product.

Example:
  dmapio ls --stid 65
  dmapio ls --product fitacf`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		indexDir, _ := cmd.Flags().GetString("index-dir")
		stid, _ := cmd.Flags().GetInt64("stid")
		product, _ := cmd.Flags().GetString("product")

		cat, err := catalog.Open(indexDir)
		if err != nil {
			return err
		}
		defer cat.Close()

		var sums []catalog.Summary
		switch {
		case stid != 0:
			sums, err = cat.ByStation(stid)
		case product != "":
			sums, err = cat.ByProduct(product)
		default:
			sums, err = cat.All()
		}
		if err != nil {
			return err
		}

		for _, s := range sums {
			cmd.Printf("%s  stid=%-4d beam=%-2d %s  %s[%d] @%d (%d bytes)\n",
				s.Time.Format("2006-01-02 15:04:05"), s.Stid, s.Beam,
				s.Product, s.Path, s.Index, s.Offset, s.Size)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(lsCmd)

	indexCmd.Flags().String("index-dir", "./index", "Catalog directory")
	lsCmd.Flags().String("index-dir", "./index", "Catalog directory")
	lsCmd.Flags().Int64("stid", 0, "Filter by station identifier")
	lsCmd.Flags().String("product", "", "Filter by product")
}
