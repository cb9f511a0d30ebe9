package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

func (a *App) move(ctx context.Context, typ string) error {
	name, err := getSimpleText(a.reader, "Item name", a.out)
	if err != nil {
		return err
	}
	qty, err := GetInt(a.reader, "Quantity", a.out, 0, false)
	if err != nil {
		return err
	}

	tr, err := a.api.Record(ctx, name, typ, qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recorded %s\n", tr)
	return nil
}

// StockIn records goods received.
func (a *App) StockIn(ctx context.Context) error { return a.move(ctx, "IN") }

// StockOut records goods issued. The server refuses to go below zero.
func (a *App) StockOut(ctx context.Context) error { return a.move(ctx, "OUT") }

// History prints recorded movements, newest first, optionally for one item.
func (a *App) History(ctx context.Context, item string) error {
	list, err := a.api.Transactions(ctx, item)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No transactions")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tTYPE\tQTY\tITEM\tBY")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			t.CreatedAt.Local().Format(time.DateTime), t.Type, t.Quantity, t.ItemName, t.Username)
	}
	return tw.Flush()
}
