package cli

import (
	"github.com/spf13/cobra"

	"github.com/qfactory/mes-helper/internal/core/domain"
	"github.com/qfactory/mes-helper/internal/core/filter"
	"github.com/qfactory/mes-helper/internal/core/ports"
)

// Preferred leading table columns; remaining row keys follow alphabetically.
var (
	inventoryColumns = []string{domain.FieldItemCode, domain.FieldItemName, domain.FieldLotCode, domain.FieldWarehouseCode}
	shipmentColumns  = []string{domain.FieldPartnerCode, domain.FieldItemCode, domain.FieldItemName, domain.FieldLotCode}
)

func newInventoryCommand(r *runner) *cobra.Command {
	var (
		creds                                      credentials
		itemCode, itemName, warehouseCode, lotCode string
	)
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List inventory lots, filtered locally by substring",
		Long: `Fetches every lot of the user's plant from MES and keeps the rows whose
fields contain the given patterns (case-insensitive). Empty patterns match all rows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, id, _, err := r.login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			res, err := a.Queries.QueryInventory(cmd.Context(), ports.InventoryQueryInput{
				SessionID: id,
				Criteria:  filter.Inventory(itemCode, itemName, warehouseCode, lotCode),
			})
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res, inventoryColumns)
		},
	}
	creds.bind(cmd)
	f := cmd.Flags()
	f.StringVar(&itemCode, "item-code", "", "Item code contains")
	f.StringVar(&itemName, "item-name", "", "Item name contains")
	f.StringVar(&warehouseCode, "warehouse-code", "", "Warehouse code contains")
	f.StringVar(&lotCode, "lot-code", "", "Lot code contains")
	return cmd
}

func newShipmentsCommand(r *runner) *cobra.Command {
	var (
		creds                          credentials
		from, to                       string
		itemCode, lotCode, partnerCode string
	)
	cmd := &cobra.Command{
		Use:   "shipments",
		Short: "List shipment results for a date range, filtered locally by substring",
		Long: `Fetches shipment results between --from and --to (inclusive, YYYY-MM-DD;
default yesterday..today) and keeps the rows matching the given patterns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defFrom, defTo := defaultRange(r.clock)
			if !cmd.Flags().Changed("from") {
				from = defFrom
			}
			if !cmd.Flags().Changed("to") {
				to = defTo
			}

			a, id, _, err := r.login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			res, err := a.Queries.QueryShipments(cmd.Context(), ports.ShipmentQueryInput{
				SessionID: id,
				DateFrom:  from,
				DateTo:    to,
				Criteria:  filter.Shipments(itemCode, lotCode, partnerCode),
			})
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), res, shipmentColumns)
		},
	}
	creds.bind(cmd)
	f := cmd.Flags()
	f.StringVar(&from, "from", "", "First shipment date, YYYY-MM-DD (default yesterday)")
	f.StringVar(&to, "to", "", "Last shipment date, YYYY-MM-DD (default today)")
	f.StringVar(&itemCode, "item-code", "", "Item code contains")
	f.StringVar(&lotCode, "lot-code", "", "Lot code contains")
	f.StringVar(&partnerCode, "partner-code", "", "Partner code contains")
	return cmd
}
