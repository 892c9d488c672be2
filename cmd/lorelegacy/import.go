package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/orchestrators/importer"
	"github.com/KirkDiggler/lorelegacy/internal/rulebook"
	"github.com/KirkDiggler/lorelegacy/internal/watch"
)

type importOptions struct {
	input  string
	dryRun bool
	output string
	watch  bool
	types  []string
}

func newImportCmd(a *app) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import pasted rulebook text into the content store",
		Long: `Import reads the rulebook text, extracts traits, skills, spells, weapons and
armor in that order, and writes each record into its collection. A record
with the same name in the same collection is replaced.`,
		Example: `  lorelegacy import --input livre.txt
  lorelegacy import --input livre.txt --dry-run --output yaml
  pbpaste | lorelegacy import --types weapon,armor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(opts.output); err != nil {
				return err
			}
			types, err := parseTypes(opts.types)
			if err != nil {
				return err
			}
			if opts.watch && opts.input == "-" {
				return errors.InvalidArgument("--watch needs an --input file")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := newServices(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.close() }()

			run := func(ctx context.Context) error {
				text, err := readInput(cmd.InOrStdin(), opts.input)
				if err != nil {
					return err
				}
				return runImport(ctx, cmd.OutOrStdout(), svc.importer, text, types, opts)
			}

			if err := run(ctx); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			return watch.File(ctx, &watch.Config{Path: opts.input, OnChange: run})
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", `rulebook text file, "-" reads stdin`)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "extract and print the records without writing them")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or yaml")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-import whenever the input file changes")
	cmd.Flags().StringSliceVar(&opts.types, "types", nil, "record types to import (trait, skill, spell, weapon, armor)")

	return cmd
}

func parseTypes(names []string) ([]content.RecordType, error) {
	types := make([]content.RecordType, 0, len(names))
	for _, n := range names {
		t := content.RecordType(n)
		if !t.Valid() {
			return nil, errors.InvalidArgumentf("unknown record type %q", n)
		}
		types = append(types, t)
	}
	return types, nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read rulebook text")
	}
	return string(raw), nil
}

// importReport is the printable summary of an import or a dry run
type importReport struct {
	DryRun   bool             `json:"dry_run"`
	Records  int              `json:"records"`
	Results  []*resultReport  `json:"results"`
	Failures []*failureReport `json:"failures,omitempty"`
	Batches  []*batchReport   `json:"batches,omitempty"`
}

type resultReport struct {
	Type        content.RecordType   `json:"type"`
	Found       bool                 `json:"found"`
	Records     int                  `json:"records"`
	Matched     int                  `json:"matched,omitempty"`
	Collections []content.Collection `json:"collections"`
}

type failureReport struct {
	Type  content.RecordType `json:"type"`
	Error string             `json:"error"`
}

type batchReport struct {
	Collection content.Collection `json:"collection"`
	Records    []*content.Record  `json:"records"`
}

func newResultReports(results []*rulebook.Result) []*resultReport {
	out := make([]*resultReport, 0, len(results))
	for _, r := range results {
		out = append(out, &resultReport{
			Type:        r.Type,
			Found:       r.Found,
			Records:     r.Records,
			Matched:     r.Matched,
			Collections: r.Collections,
		})
	}
	return out
}

func runImport(
	ctx context.Context,
	w io.Writer,
	svc importer.Service,
	text string,
	types []content.RecordType,
	opts *importOptions,
) error {
	report := &importReport{DryRun: opts.dryRun}

	if opts.dryRun {
		out, err := svc.Preview(ctx, &importer.PreviewInput{Text: text, Types: types})
		if err != nil {
			return err
		}
		report.Results = newResultReports(out.Results)
		for _, b := range out.Batches {
			report.Records += len(b.Records)
			report.Batches = append(report.Batches, &batchReport{
				Collection: b.Collection,
				Records:    b.Records,
			})
		}
	} else {
		out, err := svc.Import(ctx, &importer.ImportInput{Text: text, Types: types})
		if err != nil {
			return err
		}
		report.Records = out.Records()
		report.Results = newResultReports(out.Results)
		for _, f := range out.Failures {
			report.Failures = append(report.Failures, &failureReport{Type: f.Type, Error: f.Err.Error()})
		}
	}

	if opts.output != outputText {
		if err := writeStructured(w, opts.output, report); err != nil {
			return err
		}
	} else if err := writeImportText(w, report); err != nil {
		return err
	}

	if len(report.Failures) > 0 {
		return errors.Internalf("%d record type(s) failed to import", len(report.Failures))
	}
	return nil
}

func writeImportText(w io.Writer, report *importReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tSECTION\tRECORDS\tCOLLECTIONS")
	for _, r := range report.Results {
		section := "found"
		if !r.Found {
			section = "missing"
		}
		keys := make([]string, 0, len(r.Collections))
		for _, c := range r.Collections {
			keys = append(keys, c.Key)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%v\n", r.Type, section, r.Records, keys)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(tw, "%s\tfailed\t-\t%s\n", f.Type, f.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	verb := "imported"
	if report.DryRun {
		verb = "would import"
	}
	_, err := fmt.Fprintf(w, "%s %d record(s)\n", verb, report.Records)
	return err
}
