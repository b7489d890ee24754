package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/personvault/internal/model"
	"github.com/roach88/personvault/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Add every person in a seed file",
		Long: `Add every person in a YAML seed file on behalf of the file's owner.

The file is validated against the person schema before anything is
written. Each person is stored in its own transaction; the run stops at
the first failure.

Example:
  personvault seed --db ./people.db people.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}
}

func runSeed(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	doc, err := seed.Load(path)
	if err != nil {
		_ = out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid seed file", err)
	}
	persons, err := doc.ToPersons()
	if err != nil {
		_ = out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid seed file", err)
	}

	s, closeFn, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	owner := model.User{ID: doc.Owner}
	result := seedResult{Owner: doc.Owner, Added: []int64{}}
	for i := range persons {
		id, err := s.svc.Add(cmd.Context(), owner, &persons[i])
		if err != nil {
			return s.out.Fail("seed", err)
		}
		s.out.VerboseLog("seeded person %d (%s)", id, persons[i].PassportID)
		result.Added = append(result.Added, id)
	}
	return s.out.Success(result)
}
