package cmd

import (
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/compressionutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/config"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash <file>...",
	Short: "Print size, CRC32, MD5, SHA-1 and SHA-256 of files (- reads stdin)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		decompress, _ := cmd.Flags().GetBool("decompress")

		type result struct {
			Path   string `json:"path"`
			Format string `json:"format,omitempty"`
			digest.Record
		}
		var results []result

		for _, path := range args {
			progress, done := progressFor("Hashing " + path)
			opts := []digest.Option{
				digest.WithChunkSize(config.Instance.Digest.ChunkSize),
				digest.WithProgress(0, progress),
			}

			var (
				rec    digest.Record
				format string
				err    error
			)
			switch {
			case path == "-":
				rec, err = digest.SumReader(cmd.Context(), cmd.InOrStdin(), opts...)
			case decompress:
				var f compressionutil.Format
				rec, f, err = digest.SumDecompressedFile(cmd.Context(), path, opts...)
				format = string(f)
			default:
				rec, err = digest.SumFile(cmd.Context(), path, opts...)
			}
			done()
			if err != nil {
				return err
			}

			if asJSON {
				results = append(results, result{Path: path, Format: format, Record: rec})
				continue
			}
			printRecord(cmd.OutOrStdout(), path, rec)
		}

		if asJSON {
			return printJSON(cmd.OutOrStdout(), results)
		}
		return nil
	},
}

func init() {
	hashCmd.Flags().Bool("json", false, "Print results as JSON")
	hashCmd.Flags().Bool("decompress", false, "Hash the content of gzip, bzip2 and xz files")
	rootCmd.AddCommand(hashCmd)
}
