package ports

import (
	"context"

	"github.com/qfactory/mes-helper/internal/core/domain"
)

// FetchResult is one bulk page returned by MES.
type FetchResult struct {
	Rows []domain.Record
	// Truncated reports that the page was full, so MES may hold more rows.
	Truncated bool
	Limit     int
}

// MESClient performs the remote calls for one logical user session. The
// implementation keeps cookies between calls, so a client must not be
// shared between sessions.
type MESClient interface {
	Login(ctx context.Context, userKey, password string) (*domain.Profile, error)
	// FetchInventory never forwards caller filter text; it always requests the
	// full lot list for the profile's company and plant.
	FetchInventory(ctx context.Context, profile domain.Profile) (*FetchResult, error)
	// FetchShipments forwards only the shipment date range.
	FetchShipments(ctx context.Context, profile domain.Profile, dateFrom, dateTo string) (*FetchResult, error)
}

// MESClientFactory creates a fresh client (with an empty cookie jar) per login.
type MESClientFactory interface {
	New() (MESClient, error)
}
