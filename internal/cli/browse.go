package cli

import (
	"errors"
	"os"

	"catalog-cli/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotTerminal = errors.New("browse needs an interactive terminal (stdin and stdout must be a TTY)")

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse, search, select and reorder items interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return writeErr(cmd, errNotTerminal)
			}
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return tui.Run(cmd.Context(), c, tui.Options{
				PageSize: app.cfg.PageSize,
				Debounce: app.cfg.SearchDebounce,
			})
		},
	}
}
