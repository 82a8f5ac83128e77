package ports

import (
	"context"

	"github.com/qfactory/mes-helper/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	SessionID string
	Profile   domain.Profile
}

// InventoryQueryInput carries the parameters of an inventory query.
type InventoryQueryInput struct {
	SessionID string
	Criteria  domain.Criteria
}

// ShipmentQueryInput carries the parameters of a shipment query. Dates use
// the YYYY-MM-DD layout and are both required.
type ShipmentQueryInput struct {
	SessionID string
	DateFrom  string
	DateTo    string
	Criteria  domain.Criteria
}

// QueryService is the facade shared by the HTTP and CLI surfaces.
type QueryService interface {
	Login(ctx context.Context, userKey, password string) (*LoginResult, error)
	QueryInventory(ctx context.Context, input InventoryQueryInput) (*domain.QueryResult, error)
	QueryShipments(ctx context.Context, input ShipmentQueryInput) (*domain.QueryResult, error)
}
