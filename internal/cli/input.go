package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/personvault/internal/model"
	"github.com/roach88/personvault/internal/seed"
)

// readPerson loads a person document from path, or from stdin when path is "-".
func readPerson(cmd *cobra.Command, path string) (model.Person, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.Person{}, fmt.Errorf("read person document: %w", err)
	}
	return seed.ParsePerson(data)
}

// parseID parses a positional person id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid person id %q", arg)
	}
	return id, nil
}
