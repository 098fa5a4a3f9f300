// Package export renders normalized order and user records as CSV and PDF
// reports. Inputs come from the records fetcher, so timestamps are already
// guaranteed present and parseable.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/sparshnfc/storefront/internal/docstore"
)

type field struct {
	Label string
	Value string
}

// get walks a nested path through a document.
func get(doc docstore.Document, path ...string) (any, bool) {
	var cur any = map[string]any(doc)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func str(doc docstore.Document, path ...string) string {
	v, ok := get(doc, path...)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

func firstStr(doc docstore.Document, paths ...[]string) string {
	for _, p := range paths {
		if s := str(doc, p...); s != "" {
			return s
		}
	}
	return "N/A"
}

func itemCount(doc docstore.Document) int {
	for _, p := range [][]string{{"order", "items"}, {"items"}} {
		if v, ok := get(doc, p...); ok {
			if items, ok := v.([]any); ok {
				return len(items)
			}
		}
	}
	return 0
}

func totalAmount(doc docstore.Document) string {
	for _, p := range [][]string{{"order", "total"}, {"total"}} {
		if v, ok := get(doc, p...); ok && v != nil {
			return str(doc, p...)
		}
	}
	return "0"
}

func formatDate(raw string) string {
	if raw == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("02/01/2006, 15:04:05")
}

func orderFields(doc docstore.Document) []field {
	address := strings.TrimSpace(fmt.Sprintf("%s, %s, %s %s",
		str(doc, "shipping", "addressLine1"),
		str(doc, "shipping", "city"),
		str(doc, "shipping", "state"),
		str(doc, "shipping", "pincode"),
	))

	return []field{
		{"Order ID", firstStr(doc, []string{"orderId"}, []string{"id"})},
		{"Customer Name", firstStr(doc, []string{"shipping", "name"}, []string{"customerName"})},
		{"Customer Email", firstStr(doc, []string{"shipping", "email"}, []string{"customerEmail"})},
		{"Customer Phone", firstStr(doc, []string{"shipping", "phone"})},
		{"Items Count", fmt.Sprint(itemCount(doc))},
		{"Total Amount", totalAmount(doc)},
		{"Status", firstStr(doc, []string{"status"})},
		{"Payment Method", firstStr(doc, []string{"payment", "method"})},
		{"Date", formatDate(str(doc, "createdAt"))},
		{"Shipping Address", address},
	}
}

func userFields(doc docstore.Document) []field {
	verified := "No"
	if v, ok := get(doc, "emailVerified"); ok {
		if b, ok := v.(bool); ok && b {
			verified = "Yes"
		}
	}

	joined := str(doc, "createdAt")
	if joined == "" {
		joined = str(doc, "lastUpdated")
	}

	return []field{
		{"Name", firstStr(doc, []string{"fullName"})},
		{"Email", firstStr(doc, []string{"email"})},
		{"Phone", firstStr(doc, []string{"phone"})},
		{"City", firstStr(doc, []string{"address", "city"})},
		{"State", firstStr(doc, []string{"address", "state"})},
		{"Postal Code", firstStr(doc, []string{"address", "postalCode"})},
		{"Joined Date", formatDate(joined)},
		{"Email Verified", verified},
		{"Provider", firstStr(doc, []string{"provider"})},
	}
}
