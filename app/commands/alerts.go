package commands

import (
	"context"
	"fmt"
	"strconv"

	"postboard/app/config"
	"postboard/app/models"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// alerts manages keyword alerts: add <keyword> <author> | list
func (c *CLI) alerts(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(c.Out, "Usage: postboard alerts add <keyword> <author> | alerts list")
		return ErrUsage
	}

	store, err := openStore(cfg)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()

	switch args[0] {
	case "add":
		if len(args) < 3 {
			fmt.Fprintln(c.Out, "Usage: postboard alerts add <keyword> <author>")
			return ErrUsage
		}
		alert := &models.KeywordAlert{Keyword: args[1], AuthorName: args[2]}
		if err := alert.Validate(); err != nil {
			return errors.Wrap(err, "invalid alert")
		}
		if err := store.Alerts().Create(ctx, alert); err != nil {
			return errors.Wrap(err, "save alert")
		}
		fmt.Fprintf(c.Out, "Alert %d registered: %q for %s\n", alert.ID, alert.Keyword, alert.AuthorName)
		return nil

	case "list":
		alerts, err := store.Alerts().List(ctx)
		if err != nil {
			return errors.Wrap(err, "list alerts")
		}
		if len(alerts) == 0 {
			fmt.Fprintln(c.Out, "No keyword alerts registered")
			return nil
		}
		table := tablewriter.NewWriter(c.Out)
		table.SetHeader([]string{"ID", "Keyword", "Author", "Created"})
		table.SetAutoWrapText(false)
		for _, a := range alerts {
			table.Append([]string{
				strconv.Itoa(a.ID),
				a.Keyword,
				a.AuthorName,
				a.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil

	default:
		fmt.Fprintf(c.Out, "Unknown alerts command: %s\n", args[0])
		return ErrUsage
	}
}
