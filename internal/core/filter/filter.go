// Package filter narrows MES record batches with case-insensitive substring
// criteria. It performs no I/O.
package filter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/qfactory/mes-helper/internal/core/domain"
)

type predicate struct {
	field   string
	pattern string
}

// Filter returns the records whose fields contain every non-blank pattern in
// criteria, compared case-insensitively. A field missing from a record is
// treated as "". Input order is preserved and the input slice is not modified.
func Filter(records []domain.Record, criteria domain.Criteria) []domain.Record {
	fold := cases.Fold()
	preds := compile(criteria, fold)

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if matches(r, preds, fold) {
			out = append(out, r)
		}
	}
	return out
}

// Restrict keeps only the criteria entries whose field is in fields.
func Restrict(criteria domain.Criteria, fields []string) domain.Criteria {
	out := make(domain.Criteria, len(fields))
	for _, f := range fields {
		if p, ok := criteria[f]; ok {
			out[f] = p
		}
	}
	return out
}

// Inventory builds criteria over the inventory field set.
func Inventory(itemCode, itemName, warehouseCode, lotCode string) domain.Criteria {
	return domain.Criteria{
		domain.FieldItemCode:      itemCode,
		domain.FieldItemName:      itemName,
		domain.FieldWarehouseCode: warehouseCode,
		domain.FieldLotCode:       lotCode,
	}
}

// Shipments builds criteria over the shipment field set.
func Shipments(itemCode, lotCode, partnerCode string) domain.Criteria {
	return domain.Criteria{
		domain.FieldItemCode:    itemCode,
		domain.FieldLotCode:     lotCode,
		domain.FieldPartnerCode: partnerCode,
	}
}

// Active reports whether criteria contains at least one non-blank pattern.
func Active(criteria domain.Criteria) bool {
	for _, p := range criteria {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

func compile(criteria domain.Criteria, fold cases.Caser) []predicate {
	preds := make([]predicate, 0, len(criteria))
	for field, pattern := range criteria {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		preds = append(preds, predicate{field: field, pattern: fold.String(pattern)})
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].field < preds[j].field })
	return preds
}

func matches(r domain.Record, preds []predicate, fold cases.Caser) bool {
	for _, p := range preds {
		v, ok := r[p.field]
		if !ok {
			return false
		}
		if !strings.Contains(fold.String(Text(v)), p.pattern) {
			return false
		}
	}
	return true
}

// Text renders a decoded JSON scalar the way it appeared on the wire.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
