package cli

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"catalog-cli/internal/client"
	"catalog-cli/internal/format"
	"catalog-cli/internal/model"
	"catalog-cli/internal/query"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Query catalog items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	return cmd
}

// itemPage renders as a table with pinned rows highlighted.
type itemPage struct {
	items []model.Item
	ov    model.Overlay
}

func (p itemPage) TableHeader() []string { return []string{"ID", "LABEL", "SELECTED", "PINNED"} }

func (p itemPage) TableRows() []format.Row {
	pinned := make(map[int]bool, len(p.ov.SortedIDs))
	for _, id := range p.ov.SortedIDs {
		pinned[id] = true
	}
	rows := make([]format.Row, len(p.items))
	for i, it := range p.items {
		rows[i] = format.Row{
			Cells:  []string{strconv.Itoa(it.ID), it.Label, yesNo(p.ov.IsSelected(it.ID)), yesNo(pinned[it.ID])},
			Marked: pinned[it.ID],
		}
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func newItemsListCmd(app *App) *cobra.Command {
	var q string
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of items, pinned items first",
		Example: strings.TrimSpace(`
catalog items list
catalog items list --q "item 12" --offset 20 --limit 20
catalog items list --format table
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !cmd.Flags().Changed("limit") {
				limit = app.cfg.PageSize
			}
			// The server caps a page; hasMore and the next offset must use the same cap.
			limit = min(limit, query.MaxPageSize)

			items, err := c.ListItems(cmd.Context(), q, offset, limit)
			if err != nil {
				return writeErr(cmd, err)
			}

			if strings.EqualFold(app.Format, format.Table) {
				ov, err := c.GetState(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, itemPage{items: items, ov: ov})
			}

			hasMore := query.HasMore(len(items), limit)
			hints := []string{}
			if hasMore {
				hints = append(hints, "catalog items list --q "+strconv.Quote(q)+" --offset "+strconv.Itoa(offset+limit)+" --limit "+strconv.Itoa(limit))
			}
			return writeOut(cmd, app, map[string]any{
				"data": items,
				"meta": map[string]any{
					"q":          q,
					"offset":     offset,
					"limit":      limit,
					"returned":   len(items),
					"hasMore":    hasMore,
					"nextOffset": offset + limit,
				},
				"_hints": hints,
			})
		},
	}

	cmd.Flags().StringVar(&q, "q", "", "Case-insensitive label substring")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset into the ordered result")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default: page_size)")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item",
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
			it, err := c.GetItem(cmd.Context(), id)
			var se *client.StatusError
			if errors.As(err, &se) && se.Code == http.StatusNotFound {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}
