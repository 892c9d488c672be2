package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/orchestrators/dice"
	"github.com/KirkDiggler/lorelegacy/internal/orchestrators/importer"
	"github.com/KirkDiggler/lorelegacy/internal/render"
)

func newListCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list [collection]",
		Short: "List the stored collections, or the records of one collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			svc, err := newServices(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.close() }()

			w := cmd.OutOrStdout()

			if len(args) == 0 {
				out, err := svc.importer.ListCollections(cmd.Context(), &importer.ListCollectionsInput{})
				if err != nil {
					return err
				}
				if output != outputText {
					return writeStructured(w, output, out.Collections)
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tLABEL\tFOLDER")
				for _, c := range out.Collections {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Key, c.Label, c.Folder)
				}
				return tw.Flush()
			}

			out, err := svc.importer.ListRecords(cmd.Context(), &importer.ListRecordsInput{CollectionKey: args[0]})
			if err != nil {
				return err
			}
			if output != outputText {
				return writeStructured(w, output, out.Records)
			}
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tID")
			for _, r := range out.Records {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Type, r.ID)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")

	return cmd
}

// Formats of the show command
const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func newShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "show <collection> <name>",
		Short:   "Print one stored record",
		Example: `  lorelegacy show armes-epees "Épée longue" --format markdown`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vb := errors.NewValidationBuilder()
			errors.ValidateEnum("format", format, []string{formatHTML, formatMarkdown, formatJSON}, vb)
			if err := vb.Build(); err != nil {
				return err
			}

			svc, err := newServices(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.close() }()

			out, err := svc.importer.GetRecord(cmd.Context(), &importer.GetRecordInput{
				CollectionKey: args[0],
				Name:          args[1],
			})
			if err != nil {
				return err
			}

			return showRecord(cmd.OutOrStdout(), format, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "html, markdown or json")

	return cmd
}

func showRecord(w io.Writer, format string, out *importer.GetRecordOutput) error {
	rec := out.Record

	switch format {
	case formatJSON:
		return writeStructured(w, outputJSON, rec)
	case formatHTML:
		_, err := fmt.Fprintln(w, rec.System.Description)
		return err
	}

	md, err := render.NewRenderer().Markdown(rec.System.Description)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "# %s\n\n%s\n", rec.Name, md)
	return err
}

func newRollCmd(a *app) *cobra.Command {
	var notation string

	cmd := &cobra.Command{
		Use:   "roll [<collection> <name>]",
		Short: "Roll a stored weapon's damage code, or a free damage code",
		Example: `  lorelegacy roll armes-epees "Épée bâtarde"
  lorelegacy roll --notation "1d10 + 2"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if notation != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = svc.close() }()

			var (
				roll  *dice.Roll
				label string
			)
			if notation != "" {
				out, err := svc.dice.Roll(cmd.Context(), &dice.RollInput{Notation: notation})
				if err != nil {
					return err
				}
				roll, label = out.Roll, notation
			} else {
				out, err := svc.dice.RollDamage(cmd.Context(), &dice.RollDamageInput{
					CollectionKey: args[0],
					Name:          args[1],
				})
				if err != nil {
					return err
				}
				roll, label = out.Roll, fmt.Sprintf("%s (%s)", out.Weapon.Name, out.Roll.Notation)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %v %+d = %d\n", label, roll.Dice, roll.Modifier, roll.Total)
			return err
		},
	}

	cmd.Flags().StringVarP(&notation, "notation", "n", "", `damage code to roll, e.g. "2d6 + 1"`)

	return cmd
}
