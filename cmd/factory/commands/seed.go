package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgo/factory/internal/seed"
)

// seedOutput is the printed summary of a scenario run
type seedOutput struct {
	Scenario   string         `json:"scenario"`
	Created    int            `json:"created"`
	Records    []recordOutput `json:"records"`
	DurationMS int64          `json:"duration_ms"`
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed SCENARIO",
		Short: "Push a predefined scenario into the store",
		Long: fmt.Sprintf(`Push a predefined scenario built from the seed definitions into the store.

Scenarios: %s`, strings.Join(seed.Scenarios(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			if err := a.useStore(ctx); err != nil {
				return err
			}

			res, err := seed.Run(ctx, a.factory, args[0])
			if err != nil {
				return err
			}
			a.logger.Info("seeded scenario",
				slog.String("scenario", args[0]),
				slog.Int("created", res.Created),
				slog.Duration("duration", res.Duration),
			)
			return printJSON(cmd, seedOutput{
				Scenario:   args[0],
				Created:    res.Created,
				Records:    toRecordOutputs(res.Records),
				DurationMS: res.Duration.Milliseconds(),
			})
		},
	}
}
