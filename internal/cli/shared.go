package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/teamcutter/xtract/internal/domain"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// report prints err unless an extraction tool failed; the tool has
// already said what went wrong.
func report(w io.Writer, err error) {
	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fmt.Fprintf(w, "%s %v\n", red("✗"), err)
}
