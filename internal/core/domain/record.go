package domain

import (
	"fmt"
	"time"
)

// Field names the filter engine understands. They match the MES row keys.
const (
	FieldItemCode      = "itemCode"
	FieldItemName      = "itemName"
	FieldWarehouseCode = "warehouseCode"
	FieldLotCode       = "lotCode"
	FieldPartnerCode   = "partnerCode"
)

// InventoryFields and ShipmentFields are the predefined criteria sets.
var (
	InventoryFields = []string{FieldItemCode, FieldItemName, FieldWarehouseCode, FieldLotCode}
	ShipmentFields  = []string{FieldItemCode, FieldLotCode, FieldPartnerCode}
)

// Record is one inventory-lot or shipment row exactly as MES returned it.
type Record map[string]any

// Criteria maps a field name to a case-insensitive substring pattern.
// An empty (or blank) pattern matches everything.
type Criteria map[string]string

// QueryResult is the outcome of a fetch-then-filter query.
type QueryResult struct {
	TotalFetched int
	Matched      []Record
	// Truncated is set when the bulk fetch returned Limit rows or more, so
	// rows beyond the page may have been dropped by MES.
	Truncated bool
	Limit     int
}

// Summary renders the human-readable count line shown next to a result.
func (r *QueryResult) Summary() string {
	var msg string
	if len(r.Matched) == 0 {
		msg = fmt.Sprintf("no data (original %d records, 0 matched criteria)", r.TotalFetched)
	} else {
		msg = fmt.Sprintf("original %d records, %d matched criteria", r.TotalFetched, len(r.Matched))
	}
	if r.Truncated {
		msg += fmt.Sprintf("; warning: fetch limit of %d rows reached, results may be incomplete", r.Limit)
	}
	return msg
}

// Operation names, used in errors, audit entries and metrics labels.
const (
	OperationLogin     = "login"
	OperationInventory = "inventory"
	OperationShipments = "shipments"
)

// QueryAudit is one entry of the optional query audit trail. It never holds
// row data, only the shape of the query and its outcome.
type QueryAudit struct {
	Operation    string
	SessionID    string
	UserKey      string
	Criteria     Criteria
	DateFrom     string
	DateTo       string
	TotalFetched int
	Matched      int
	Truncated    bool
	Duration     time.Duration
	Error        string
	CreatedAt    time.Time
}
