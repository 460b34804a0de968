package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/factory/pkg/factory"
)

// recordOutput is the printed form of a made record
type recordOutput struct {
	Model      string          `json:"model"`
	ID         any             `json:"id"`
	Ref        any             `json:"ref,omitempty"`
	Attributes factory.Fixture `json:"attributes"`
}

func toRecordOutputs(recs []*factory.Record) []recordOutput {
	out := make([]recordOutput, len(recs))
	for i, r := range recs {
		out[i] = recordOutput{Model: r.Model, ID: r.ID, Ref: r.Ref, Attributes: r.Attributes}
	}
	return out
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray(flagSet, nil, "override an attribute, key=value (value parsed as YAML)")
	cmd.Flags().IntP(flagCount, "n", 0, "build a list of this many fixtures")
}

func readBuildFlags(cmd *cobra.Command) (int, factory.Attrs, error) {
	count, _ := cmd.Flags().GetInt(flagCount)
	if count < 0 {
		return 0, nil, fmt.Errorf("invalid --count %d", count)
	}
	pairs, _ := cmd.Flags().GetStringArray(flagSet)
	overrides, err := parseSet(pairs)
	if err != nil {
		return 0, nil, err
	}
	return count, overrides, nil
}

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build NAME [TRAIT...]",
		Short: "Build fixtures and print them as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, overrides, err := readBuildFlags(cmd)
			if err != nil {
				return err
			}

			name, traits := args[0], args[1:]
			if count > 0 {
				list, err := a.factory.BuildList(name, buildArgs(count, traits, overrides)...)
				if err != nil {
					return err
				}
				return printJSON(cmd, list)
			}

			fixture, err := a.factory.Build(name, buildArgs(0, traits, overrides)...)
			if err != nil {
				return err
			}
			return printJSON(cmd, fixture)
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func newMakeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make NAME [TRAIT...]",
		Short: "Build fixtures, push them into the store and print the records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, overrides, err := readBuildFlags(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			if err := a.useStore(ctx); err != nil {
				return err
			}

			name, traits := args[0], args[1:]
			if count > 0 {
				recs, err := a.factory.MakeList(ctx, name, buildArgs(count, traits, overrides)...)
				if err != nil {
					return err
				}
				return printJSON(cmd, toRecordOutputs(recs))
			}

			rec, err := a.factory.Make(ctx, name, buildArgs(0, traits, overrides)...)
			if err != nil {
				return err
			}
			return printJSON(cmd, toRecordOutputs([]*factory.Record{rec})[0])
		},
	}
	addBuildFlags(cmd)
	return cmd
}
