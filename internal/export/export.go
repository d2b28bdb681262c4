// Package export renders resolved deal results for humans: CSV for
// spreadsheets and a plain-text table for terminals. Selected rows are marked
// by structural identity with the chosen offers, so re-sorting never loses
// which listing won.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cardscout/backend/internal/domain"
)

// Row is one offer prepared for rendering.
type Row struct {
	Card      string
	Set       string
	Condition string
	Foil      bool
	Price     float64
	Store     string
	URL       string
	Selected  bool
}

var header = []string{"Card", "Set", "Condition", "Foil", "Price", "Store", "URL", "Selected"}

// BuildRows turns the full offer set into rows sorted by ascending price,
// marking every offer that structurally equals one of the selected offers.
func BuildRows(selected, all []domain.Offer) []Row {
	rows := make([]Row, 0, len(all))
	for _, offer := range all {
		row := Row{
			Card:      offer.CardName,
			Set:       offer.Set,
			Condition: offer.Condition,
			Foil:      offer.Foil,
			Price:     offer.Price,
			Store:     offer.Store,
			URL:       offer.URL,
		}
		for _, pick := range selected {
			if offer.SameListing(pick) && offer.CardName == pick.CardName {
				row.Selected = true
				break
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Price < rows[j].Price })
	return rows
}

// WriteCSV writes the rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Card,
			row.Set,
			row.Condition,
			boolMark(row.Foil),
			fmt.Sprintf("%.2f", row.Price),
			row.Store,
			row.URL,
			boolMark(row.Selected),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatTable renders the rows as an aligned text table.
func FormatTable(rows []Row) string {
	if len(rows) == 0 {
		return "No offers found."
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			row.Card, row.Set, row.Condition, boolMark(row.Foil),
			row.Price, row.Store, row.URL, boolMark(row.Selected))
	}
	tw.Flush()
	return b.String()
}

func boolMark(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
