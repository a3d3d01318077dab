package cli

import (
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBase()
			if err != nil {
				return err
			}
			defer b.Close()

			if err := migrate(cmd.Context(), b); err != nil {
				return err
			}
			b.log.Info().Msg("migration done")
			return nil
		},
	}
}
