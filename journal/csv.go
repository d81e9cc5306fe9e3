package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/shopspring/decimal"
)

var csvHeader = []string{"date", "amount", "description", "balance"}

// WriteCSV writes the statement of a with a header row.
func WriteCSV(w io.Writer, a account.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range Statement(a) {
		err := cw.Write([]string{
			l.Date,
			money(l.Amount),
			l.Description,
			money(l.Balance),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates path and writes the statement of a into it.
func WriteCSVFile(path string, a account.Account) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, a); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
