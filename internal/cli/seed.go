package cli

import (
	"fmt"

	"bookstore/internal/infra/seed"
	auth "bookstore/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
)

type seedOptions struct {
	file string
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and books from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "configs/seed.yaml", "seed file")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	f, err := seed.LoadFile(opts.file)
	if err != nil {
		return err
	}

	b, err := openBase()
	if err != nil {
		return err
	}
	defer b.Close()

	if err := migrate(cmd.Context(), b); err != nil {
		return err
	}

	res, err := seed.Apply(cmd.Context(), b.db, f, auth.NewBcryptPasswords(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d books\n", res.Users, res.Books)
	return nil
}
