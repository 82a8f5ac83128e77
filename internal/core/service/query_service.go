package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"github.com/qfactory/mes-helper/internal/core/domain"
	"github.com/qfactory/mes-helper/internal/core/filter"
	"github.com/qfactory/mes-helper/internal/core/ports"
	"github.com/qfactory/mes-helper/internal/pkg/metrics"
)

const auditTimeout = 3 * time.Second

// QueryService logs users in to MES and answers fetch-then-filter queries.
// It holds no state of its own besides the session registry it delegates to.
type QueryService struct {
	sessions ports.SessionRegistry
	clients  ports.MESClientFactory
	audit    ports.AuditRepository
	validate *validator.Validate
	clock    clock.Clock
	log      zerolog.Logger
}

// NewQueryService wires the facade. audit may be nil, in which case queries
// are not recorded.
func NewQueryService(
	sessions ports.SessionRegistry,
	clients ports.MESClientFactory,
	audit ports.AuditRepository,
	clk clock.Clock,
	log zerolog.Logger,
) *QueryService {
	if clk == nil {
		clk = clock.WallClock
	}
	return &QueryService{
		sessions: sessions,
		clients:  clients,
		audit:    audit,
		validate: newValidator(),
		clock:    clk,
		log:      log,
	}
}

// Login authenticates userKey against MES with a fresh client and records the
// session. A failed login leaves any earlier session of the user untouched.
func (s *QueryService) Login(ctx context.Context, userKey, password string) (*ports.LoginResult, error) {
	userKey = strings.TrimSpace(userKey)
	if err := check(s.validate, loginInput{UserKey: userKey, Password: password}); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	unlock := s.sessions.Lock(userKey)
	defer unlock()

	client, err := s.clients.New()
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	profile, err := client.Login(ctx, userKey, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Warn().Err(err).Str("user_key", userKey).Msg("login failed")
		return nil, err
	}

	sess, err := s.sessions.RecordLogin(userKey, *profile, client)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.ActiveSessions.Set(float64(s.sessions.Count()))

	s.log.Info().
		Str("user_key", userKey).
		Str("company_code", sess.Profile.CompanyCode).
		Str("plant_code", sess.Profile.PlantCode).
		Msg("login succeeded")

	return &ports.LoginResult{SessionID: sess.ID, Profile: sess.Profile}, nil
}

// Profile returns the profile of an authenticated session.
func (s *QueryService) Profile(sessionID string) (domain.Profile, error) {
	p, ok := s.sessions.CurrentProfile(sessionID)
	if !ok {
		return domain.Profile{}, domain.ErrNotAuthorized
	}
	return p, nil
}

// QueryInventory fetches every lot visible to the session and filters them
// locally by the inventory criteria.
func (s *QueryService) QueryInventory(ctx context.Context, in ports.InventoryQueryInput) (*domain.QueryResult, error) {
	criteria := filter.Restrict(in.Criteria, domain.InventoryFields)
	entry := &domain.QueryAudit{
		Operation: domain.OperationInventory,
		SessionID: in.SessionID,
		Criteria:  criteria,
	}

	return s.run(ctx, in.SessionID, entry, func(c ports.MESClient, p domain.Profile) (*ports.FetchResult, error) {
		return c.FetchInventory(ctx, p)
	})
}

// QueryShipments fetches shipment results for the date range and filters them
// locally by the shipment criteria. Dates are checked before any remote call.
func (s *QueryService) QueryShipments(ctx context.Context, in ports.ShipmentQueryInput) (*domain.QueryResult, error) {
	from, to := strings.TrimSpace(in.DateFrom), strings.TrimSpace(in.DateTo)
	if err := checkDates(s.validate, from, to); err != nil {
		metrics.QueryErrorsTotal.WithLabelValues(domain.OperationShipments, reason(err)).Inc()
		return nil, err
	}

	criteria := filter.Restrict(in.Criteria, domain.ShipmentFields)
	entry := &domain.QueryAudit{
		Operation: domain.OperationShipments,
		SessionID: in.SessionID,
		Criteria:  criteria,
		DateFrom:  from,
		DateTo:    to,
	}

	return s.run(ctx, in.SessionID, entry, func(c ports.MESClient, p domain.Profile) (*ports.FetchResult, error) {
		return c.FetchShipments(ctx, p, from, to)
	})
}

type fetchFunc func(ports.MESClient, domain.Profile) (*ports.FetchResult, error)

// run resolves the session, performs the fetch under the user's lock, filters
// the rows and records the audit entry.
func (s *QueryService) run(ctx context.Context, sessionID string, entry *domain.QueryAudit, fetch fetchFunc) (*domain.QueryResult, error) {
	op := entry.Operation
	start := s.clock.Now()

	sess, client, unlock, err := s.acquire(sessionID)
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues(op, reason(err)).Inc()
		s.log.Debug().Str("operation", op).Msg("query rejected: no matching session")
		return nil, err
	}
	defer unlock()
	entry.UserKey = sess.Profile.UserKey

	fetched, err := fetch(client, sess.Profile)
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues(op, reason(err)).Inc()
		entry.Error = err.Error()
		s.record(ctx, entry, start)
		return nil, err
	}

	matched := filter.Filter(fetched.Rows, entry.Criteria)
	res := &domain.QueryResult{
		TotalFetched: len(fetched.Rows),
		Matched:      matched,
		Truncated:    fetched.Truncated,
		Limit:        fetched.Limit,
	}
	metrics.QueryRows.WithLabelValues(op, "fetched").Observe(float64(res.TotalFetched))
	metrics.QueryRows.WithLabelValues(op, "matched").Observe(float64(len(matched)))

	entry.TotalFetched = res.TotalFetched
	entry.Matched = len(matched)
	entry.Truncated = res.Truncated
	s.record(ctx, entry, start)

	s.log.Info().
		Str("operation", op).
		Str("user_key", entry.UserKey).
		Int("fetched", res.TotalFetched).
		Int("matched", len(matched)).
		Bool("filtered", filter.Active(entry.Criteria)).
		Bool("truncated", res.Truncated).
		Msg("query completed")

	return res, nil
}

// acquire looks the session up, takes the user's lock and looks it up again,
// since a concurrent re-login may have replaced the id in between.
func (s *QueryService) acquire(sessionID string) (domain.Session, ports.MESClient, func(), error) {
	profile, ok := s.sessions.CurrentProfile(sessionID)
	if !ok {
		return domain.Session{}, nil, nil, domain.ErrNotAuthorized
	}
	unlock := s.sessions.Lock(profile.UserKey)
	sess, client, ok := s.sessions.Lookup(sessionID)
	if !ok {
		unlock()
		return domain.Session{}, nil, nil, domain.ErrNotAuthorized
	}
	return sess, client, unlock, nil
}

// record writes the audit entry. Failures are logged and never reach the caller.
func (s *QueryService) record(ctx context.Context, entry *domain.QueryAudit, start time.Time) {
	if s.audit == nil {
		return
	}
	now := s.clock.Now()
	entry.CreatedAt = now.UTC()
	entry.Duration = now.Sub(start)

	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := s.audit.InsertQuery(actx, entry); err != nil {
		s.log.Warn().Err(err).Str("operation", entry.Operation).Msg("failed to write query audit")
	}
}

// reason maps an error to its failure kind for metrics labels.
func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, domain.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, domain.ErrTransport):
		return metrics.OutcomeTransport
	case errors.Is(err, domain.ErrHTTPStatus):
		return metrics.OutcomeHTTPStatus
	case errors.Is(err, domain.ErrParse):
		return metrics.OutcomeParse
	case errors.Is(err, domain.ErrApplication):
		return metrics.OutcomeApplication
	}
	return "internal"
}

var _ ports.QueryService = (*QueryService)(nil)
