package commands

import (
	"github.com/spf13/cobra"
)

// definitionOutput is the printed form of a registered definition
type definitionOutput struct {
	Name    string   `json:"name"`
	Model   string   `json:"model"`
	Aliases []string `json:"aliases"`
	Traits  []string `json:"traits"`
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := a.factory.Registry()
			names := reg.Names()

			out := make([]definitionOutput, 0, len(names))
			for _, name := range names {
				def, ok := reg.Lookup(name)
				if !ok {
					continue
				}
				out = append(out, definitionOutput{
					Name:    def.Name(),
					Model:   def.ModelName(),
					Aliases: def.Aliases(),
					Traits:  def.Traits(),
				})
			}
			return printJSON(cmd, out)
		},
	}
}
