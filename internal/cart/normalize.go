// Package cart implements the cart reconciliation engine: one authoritative
// snapshot and mutation operations over either a guest (local-only) or a
// server (remote-backed) cart, with a one-time guest→server merge at login.
package cart

import (
	"encoding/json"
	"strconv"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/models"
)

// rawLine is the tolerant shape used to parse guest cart JSON. The original
// storefront persisted lines with loosely typed fields (numbers as strings,
// missing names), so every field is coerced rather than trusted.
type rawLine struct {
	ProductID any `json:"product_id"`
	VariantID any `json:"variant_id"`
	Name      any `json:"name"`
	Image     any `json:"image"`
	Price     any `json:"price"`
	Qty       any `json:"qty"`
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInt(v any) int {
	return int(asFloat(v))
}

// parseGuest decodes a guest cart slot into normalized lines. Malformed JSON
// yields an empty list, never an error; the guest cart is best-effort state.
func parseGuest(raw []byte) []models.CartLine {
	if len(raw) == 0 {
		return []models.CartLine{}
	}

	var rows []rawLine
	if err := json.Unmarshal(raw, &rows); err != nil {
		return []models.CartLine{}
	}

	lines := make([]models.CartLine, 0, len(rows))
	for _, r := range rows {
		l := models.CartLine{
			ProductID: asString(r.ProductID),
			VariantID: asString(r.VariantID),
			Name:      asString(r.Name),
			ImageRef:  asString(r.Image),
			UnitPrice: asFloat(r.Price),
			Quantity:  asInt(r.Qty),
		}
		if l.ProductID == "" {
			continue
		}
		lines = append(lines, normalizeLine(l))
	}
	return dedupe(lines)
}

// normalizeLine clamps a line into its invariants: quantity at least 1 and a
// non-negative unit price.
func normalizeLine(l models.CartLine) models.CartLine {
	if l.Quantity < 1 {
		l.Quantity = 1
	}
	if l.UnitPrice < 0 {
		l.UnitPrice = 0
	}
	return l
}

// dedupe collapses duplicate (product, variant) keys by summing quantities.
// Order of first appearance is preserved.
func dedupe(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, l := range lines {
		k := l.Key()
		if i, ok := index[k]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[k] = len(out)
		out = append(out, l)
	}
	return out
}

// fromRecords maps server cart records into normalized lines, carrying the
// server-assigned line id.
func fromRecords(records []api.CartLineRecord) []models.CartLine {
	lines := make([]models.CartLine, 0, len(records))
	for _, r := range records {
		if r.ProductID == "" {
			continue
		}
		lines = append(lines, normalizeLine(models.CartLine{
			ProductID:    r.ProductID,
			VariantID:    r.VariantID,
			Name:         r.Name,
			ImageRef:     r.Image,
			UnitPrice:    r.Price,
			Quantity:     r.Qty,
			ServerLineID: r.ID,
		}))
	}
	return dedupe(lines)
}
