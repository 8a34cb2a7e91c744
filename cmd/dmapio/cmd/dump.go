package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdarn/dmapio/pkg/dmap"
	"github.com/sdarn/dmapio/pkg/file"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the records of a DMap file",
	Long: `Decode a DMap file and print every record's fields. Compressed
files (.bz2, .gz) are decompressed transparently.

Example:
  dmapio dump 20120615.rawacf.bz2
  dmapio dump --json 20120615.fitacf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		data, comp, err := file.ReadBytes(args[0])
		if err != nil {
			return err
		}

		recs, decodeErr := dmap.ReadAll(data)

		if asJSON {
			if err := dumpJSON(cmd, recs, comp); err != nil {
				return err
			}
		} else {
			dumpText(cmd, recs, comp)
		}

		if decodeErr != nil {
			return fmt.Errorf("stream truncated after %d records: %w", len(recs), decodeErr)
		}
		return nil
	},
}

func dumpText(cmd *cobra.Command, recs []*dmap.Record, comp file.Compression) {
	cmd.Printf("compression: %s, records: %d\n", comp, len(recs))
	for i, rec := range recs {
		cmd.Printf("record %d (%d bytes, %d scalars, %d arrays)\n",
			i, rec.EncodedSize(), len(rec.Scalars()), len(rec.Arrays()))
		for _, s := range rec.Scalars() {
			cmd.Printf("  %-20s %-8s %v\n", s.Name(), s.Type(), s.Value())
		}
		for _, a := range rec.Arrays() {
			cmd.Printf("  %-20s %-8s dims=%s\n", a.Name(), a.Type(), dimsString(a.Dims()))
		}
	}
}

func dimsString(dims []int32) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprint(d)
	}
	return "[" + strings.Join(parts, "x") + "]"
}

type dumpRecord struct {
	Index   int            `json:"index"`
	Size    int            `json:"size"`
	Scalars map[string]any `json:"scalars"`
	Arrays  map[string]any `json:"arrays"`
}

func dumpJSON(cmd *cobra.Command, recs []*dmap.Record, comp file.Compression) error {
	out := struct {
		Compression string       `json:"compression"`
		Records     []dumpRecord `json:"records"`
	}{Compression: comp.String()}

	for i, rec := range recs {
		dr := dumpRecord{
			Index:   i,
			Size:    rec.EncodedSize(),
			Scalars: map[string]any{},
			Arrays:  map[string]any{},
		}
		for _, s := range rec.Scalars() {
			dr.Scalars[s.Name()] = s.Value()
		}
		for _, a := range rec.Arrays() {
			dr.Arrays[a.Name()] = map[string]any{
				"type": a.Type().String(),
				"dims": a.Dims(),
				"data": a.Data(),
			}
		}
		out.Records = append(out.Records, dr)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("json", false, "Emit JSON instead of text")
}
