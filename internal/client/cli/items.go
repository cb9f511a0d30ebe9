package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/stockkeeper/internal/client/models"
)

func (a *App) printItems(items []models.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tQTY\tMIN\tPRICE\tEXPIRES\tTAGS")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t%s\t%s\n",
			it.Name, it.Category, it.Quantity, it.MinQuantity, it.Price, it.Expires(), strings.Join(it.Tags, ","))
	}
	return tw.Flush()
}

// List prints all items in name order.
func (a *App) List(ctx context.Context) error {
	items, err := a.api.ListItems(ctx)
	if err != nil {
		return err
	}
	return a.printItems(items)
}

// LowStock prints items at or below their threshold.
func (a *App) LowStock(ctx context.Context) error {
	items, err := a.api.LowStock(ctx)
	if err != nil {
		return err
	}
	return a.printItems(items)
}

// Add prompts for the fields of a new item and creates it.
// Empty min quantity leaves the server default in place.
func (a *App) Add(ctx context.Context) error {
	var (
		it  models.NewItem
		err error
	)

	if it.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if it.Category, err = getSimpleText(a.reader, "Category (optional)", a.out); err != nil {
		return err
	}
	if it.Quantity, err = GetInt(a.reader, "Quantity", a.out, 0, true); err != nil {
		return err
	}
	minQty, err := GetInt(a.reader, "Min quantity (empty for default)", a.out, -1, true)
	if err != nil {
		return err
	}
	if minQty >= 0 {
		it.MinQuantity = &minQty
	}

	priceText, err := getSimpleText(a.reader, "Price", a.out)
	if err != nil {
		return err
	}
	if priceText != "" {
		if it.Price, err = strconv.ParseFloat(priceText, 64); err != nil {
			return fmt.Errorf("%q is not a price", priceText)
		}
	}

	tags, err := getSimpleText(a.reader, "Tags (comma separated, optional)", a.out)
	if err != nil {
		return err
	}
	it.Tags = models.ParseTags(tags)

	if it.ExpirationDate, err = getSimpleText(a.reader, "Expiration date YYYY-MM-DD (optional)", a.out); err != nil {
		return err
	}

	created, err := a.api.CreateItem(ctx, it)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Item created: %s (id %d)\n", created.Name, created.ID)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	s, err := a.api.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Unique products: %d\nTotal items: %d\nTotal value: %.2f\nLow stock: %d\n",
		s.UniqueProducts, s.TotalItems, s.TotalValue, s.LowStockCount)
	return nil
}
