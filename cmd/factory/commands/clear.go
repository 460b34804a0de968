package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every fixture from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			if err := a.useStore(ctx); err != nil {
				return err
			}
			if err := a.factory.ClearStore(ctx); err != nil {
				return err
			}
			a.logger.Info("cleared store", slog.String("store", a.cfg.Factory.Store))
			return nil
		},
	}
}
