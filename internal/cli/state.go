package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"catalog-cli/internal/format"
	"catalog-cli/internal/model"

	"github.com/spf13/cobra"
	"github.com/tailscale/hujson"
)

func newStateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Read or replace the persisted selection and order",
	}
	cmd.AddCommand(newStateGetCmd(app))
	cmd.AddCommand(newStateSetCmd(app))
	cmd.AddCommand(newStateToggleCmd(app))
	cmd.AddCommand(newStateClearCmd(app))
	return cmd
}

// overlayTable lists pinned ids in order, then selected ids that are not pinned.
type overlayTable model.Overlay

func (o overlayTable) TableHeader() []string { return []string{"POS", "ID", "SELECTED"} }

func (o overlayTable) TableRows() []format.Row {
	ov := model.Overlay(o)
	rows := make([]format.Row, 0, len(ov.SortedIDs)+len(ov.SelectedIDs))
	pinned := make(map[int]bool, len(ov.SortedIDs))
	for i, id := range ov.SortedIDs {
		pinned[id] = true
		rows = append(rows, format.Row{
			Cells:  []string{strconv.Itoa(i + 1), strconv.Itoa(id), yesNo(ov.IsSelected(id))},
			Marked: true,
		})
	}
	for _, id := range ov.SelectedIDs {
		if !pinned[id] {
			rows = append(rows, format.Row{Cells: []string{"-", strconv.Itoa(id), yesNo(true)}})
		}
	}
	return rows
}

func writeOverlay(cmd *cobra.Command, app *App, ov model.Overlay) error {
	if strings.EqualFold(app.Format, format.Table) {
		return writeOut(cmd, app, overlayTable(ov))
	}
	return writeOut(cmd, app, map[string]any{"data": ov})
}

func newStateGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the persisted overlay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ov, err := c.GetState(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOverlay(cmd, app, ov)
		},
	}
}

func newStateSetCmd(app *App) *cobra.Command {
	var selected, sorted []int
	var file string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the persisted overlay",
		Long: strings.TrimSpace(`
Replace the whole overlay. Either pass --selected/--sorted, or --file with a JSON document
{"selectedIds": [...], "sortedIds": [...]}. Comments and trailing commas are allowed in the
file. Use --file - to read stdin.
`),
		Example: strings.TrimSpace(`
catalog state set --selected 3,7 --sorted 7,3
catalog state set --file overlay.jsonc
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ov model.Overlay
			if file != "" {
				if cmd.Flags().Changed("selected") || cmd.Flags().Changed("sorted") {
					return writeErr(cmd, errors.New("--file cannot be combined with --selected/--sorted"))
				}
				var err error
				ov, err = readOverlayFile(cmd.InOrStdin(), file)
				if err != nil {
					return writeErr(cmd, err)
				}
			} else {
				ov = model.Overlay{SelectedIDs: selected, SortedIDs: sorted}
			}

			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ov = ov.Normalize()
			if err := c.SetState(cmd.Context(), ov); err != nil {
				return writeErr(cmd, err)
			}
			return writeOverlay(cmd, app, ov)
		},
	}

	cmd.Flags().IntSliceVar(&selected, "selected", nil, "Selected ids (comma-separated)")
	cmd.Flags().IntSliceVar(&sorted, "sorted", nil, "Manual order: pinned ids first, in this order")
	cmd.Flags().StringVar(&file, "file", "", "Read the overlay from a JSON/JSONC file (- for stdin)")
	return cmd
}

// readOverlayFile parses a JSON-with-comments overlay document.
func readOverlayFile(stdin io.Reader, path string) (model.Overlay, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return model.Overlay{}, err
	}
	std, err := hujson.Standardize(b)
	if err != nil {
		return model.Overlay{}, fmt.Errorf("parse %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()
	var ov model.Overlay
	if err := dec.Decode(&ov); err != nil {
		return model.Overlay{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return ov, nil
}

func newStateToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Select or deselect one item (selected items are pinned in selection order)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, errInvalidID(args[0]))
			}
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ov, err := c.GetState(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			ov = ov.Toggle(id)
			if err := c.SetState(cmd.Context(), ov); err != nil {
				return writeErr(cmd, err)
			}
			return writeOverlay(cmd, app, ov.Normalize())
		},
	}
}

func newStateClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every selection and pin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ov := model.Overlay{}.Normalize()
			if err := c.SetState(cmd.Context(), ov); err != nil {
				return writeErr(cmd, err)
			}
			return writeOverlay(cmd, app, ov)
		},
	}
}
