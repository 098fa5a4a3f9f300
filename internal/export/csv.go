package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sparshnfc/storefront/internal/docstore"
)

// OrdersCSV writes the orders report: one header row, one row per order.
func OrdersCSV(w io.Writer, orders []docstore.Document) error {
	return writeCSV(w, orders, orderFields)
}

// UsersCSV writes the users report.
func UsersCSV(w io.Writer, users []docstore.Document) error {
	return writeCSV(w, users, userFields)
}

func writeCSV(w io.Writer, docs []docstore.Document, rowOf func(docstore.Document) []field) error {
	if len(docs) == 0 {
		return fmt.Errorf("no data to export")
	}

	cw := csv.NewWriter(w)

	header := rowOf(docs[0])
	labels := make([]string, len(header))
	for i, f := range header {
		labels[i] = f.Label
	}
	if err := cw.Write(labels); err != nil {
		return err
	}

	for _, doc := range docs {
		row := rowOf(doc)
		values := make([]string, len(row))
		for i, f := range row {
			values[i] = f.Value
		}
		if err := cw.Write(values); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
