package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/personvault/internal/model"
)

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person owned by --owner",
		Long: `Add a person from a YAML or JSON document.

The person's coordinates and location are stored in the same transaction
as the person itself.

Example:
  personvault add --db ./people.db --owner 7 --file ada.yaml
  cat ada.json | personvault add --owner 7 --file -`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, file, cmd)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "person document (YAML or JSON, - for stdin)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runAdd(opts *RootOptions, file string, cmd *cobra.Command) error {
	p, err := readPerson(cmd, file)
	if err != nil {
		out := newFormatter(opts, cmd)
		_ = out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid person document", err)
	}

	s, closeFn, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	id, err := s.svc.Add(cmd.Context(), s.user, &p)
	if err != nil {
		return s.out.Fail("add person", err)
	}
	s.out.VerboseLog("added person %d for owner %d", id, s.user.ID)
	return s.out.Success(actionResult{Action: "Added", PersonID: id, Owner: s.user.ID})
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <id>",
		Short:         "Show a person with its coordinates and location",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], cmd)
		},
	}
}

func runGet(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid argument", err)
	}

	s, closeFn, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	p, found, err := s.svc.Get(cmd.Context(), id)
	if err != nil {
		return s.out.Fail("get person", err)
	}
	if !found {
		_ = s.out.Error(ErrCodeNotFound, fmt.Sprintf("person %d not found", id), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("person %d not found", id))
	}
	return s.out.Success(personView{p})
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a person owned by --owner",
		Long: `Replace a person's fields from a YAML or JSON document.

Only the owner may update a person. The existing coordinates row is
rewritten in place; a location is added, rewritten or detached to match
the document.

Example:
  personvault update 3 --owner 7 --file ada.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], file, cmd)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "person document (YAML or JSON, - for stdin)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runUpdate(opts *RootOptions, arg, file string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid argument", err)
	}
	p, err := readPerson(cmd, file)
	if err != nil {
		out := newFormatter(opts, cmd)
		_ = out.Error(ErrCodeInvalidInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid person document", err)
	}

	s, closeFn, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := s.svc.Update(cmd.Context(), s.user, id, &p); err != nil {
		return s.out.Fail("update person", err)
	}
	return s.out.Success(actionResult{Action: "Updated", PersonID: id, Owner: s.user.ID})
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a person owned by --owner",
		Long: `Remove a person. Only the owner may remove it.

Coordinates and location rows are kept unless cascade delete is enabled
(--cascade-delete, cascade_delete in the config file, or
PERSONVAULT_CASCADE_DELETE).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(opts, args[0], cmd)
		},
	}
}

func runRemove(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid argument", err)
	}

	s, closeFn, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := s.svc.Remove(cmd.Context(), s.user, id); err != nil {
		return s.out.Fail("remove person", err)
	}
	return s.out.Success(actionResult{Action: "Removed", PersonID: id, Owner: s.user.ID})
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List persons ordered by id",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := openSession(opts, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			var persons []model.Person
			if mine {
				persons, err = s.svc.ListMine(cmd.Context(), s.user)
			} else {
				persons, err = s.svc.List(cmd.Context())
			}
			if err != nil {
				return s.out.Fail("list persons", err)
			}
			return s.out.Success(personList(persons))
		},
	}

	cmd.Flags().BoolVar(&mine, "mine", false, "only persons owned by --owner")

	return cmd
}

// NewCheckAccessCommand creates the check-access command.
func NewCheckAccessCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-access <id>",
		Short: "Report whether --owner may modify a person",
		Long: `Report whether --owner owns the person. A missing person is
reported as denied, not as an error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid argument", err)
			}

			s, closeFn, err := openSession(opts, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			allowed, err := s.svc.CheckAccess(cmd.Context(), s.user, id)
			if err != nil {
				return s.out.Fail("check access", err)
			}
			return s.out.Success(accessResult{PersonID: id, Owner: s.user.ID, Allowed: allowed})
		},
	}
}
