package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/fieldex/pkg/sdk"
)

// maxLineBytes bounds one JSONL record.
const maxLineBytes = 8 << 20

// record is one line of an import file.
type record struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// importStats summarizes an import.
type importStats struct {
	Documents int
	Values    int
	Failed    int
}

func newIndexCmd(remote *remoteFlags) *cobra.Command {
	var strict bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "index <file.jsonl>",
		Short: "Index documents from a JSON Lines file",
		Long: `Index documents from a JSON Lines file, one document per line:

  {"id": "sku-1", "fields": {"price": "19.99", "brand": "Acme"}}

Use "-" to read from standard input. Failed values are reported and do not
stop the import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remote.client()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			var errOut io.Writer = cmd.ErrOrStderr()
			if quiet {
				errOut = io.Discard
			}
			// Unset leaves the choice to the server's batch mode.
			var mode *bool
			if cmd.Flags().Changed("strict") {
				mode = &strict
			}
			stats, err := importDocuments(cmd.Context(), c, in, mode, errOut)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d documents, %d values, %d failed\n",
				stats.Documents, stats.Values, stats.Failed)
			return err
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false,
		"Skip a document entirely when any value fails to parse (default: server setting)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not report failed values")

	return cmd
}

// importDocuments indexes every record of r. Malformed lines abort the import.
// A nil strict keeps the server's batch mode.
func importDocuments(ctx context.Context, c *sdk.Client, r io.Reader, strict *bool, errOut io.Writer) (importStats, error) {
	var stats importStats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}

		doc := sdk.Document{ID: rec.ID, Strict: strict}
		for _, name := range slices.Sorted(maps.Keys(rec.Fields)) {
			doc.Values = append(doc.Values, sdk.Value{Field: name, Text: rec.Fields[name]})
		}

		res, err := c.IndexDocument(ctx, doc)
		if err != nil {
			return stats, fmt.Errorf("line %d: document %q: %w", line, rec.ID, err)
		}
		stats.Documents++
		stats.Values += len(res.Results)
		stats.Failed += res.Failed
		for _, v := range res.Results {
			if v.Err != nil {
				_, _ = fmt.Fprintf(errOut, "line %d: %s.%s: %v\n", line, rec.ID, v.Field, v.Err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read: %w", err)
	}
	return stats, nil
}
