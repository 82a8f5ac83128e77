package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qfactory/mes-helper/internal/core/domain"
	"github.com/qfactory/mes-helper/internal/core/filter"
	"github.com/qfactory/mes-helper/internal/core/ports"
)

// Machine-callable API names, passed as ?api= or as the /api/:api path segment.
const (
	APILogin     = "login-for-gpt"
	APIInventory = "inventory-for-gpt"
	APIShipments = "shipments-for-gpt"
)

// GPTHandler adapts the query service to the GET/query-string API used by
// automated agents.
type GPTHandler struct {
	svc ports.QueryService
}

func NewGPTHandler(svc ports.QueryService) *GPTHandler {
	return &GPTHandler{svc: svc}
}

// APIResponse is the envelope of every machine-surface response. Failures
// only carry ok=false and a message.
type APIResponse struct {
	OK        bool            `json:"ok"`
	Message   string          `json:"message"`
	SessionID string          `json:"session_id,omitempty"`
	Profile   *domain.Profile `json:"profile,omitempty"`
}

// QueryResponse is returned by the inventory and shipment APIs. Total is the
// number of matched rows, Fetched the size of the unfiltered batch.
type QueryResponse struct {
	OK        bool            `json:"ok"`
	Message   string          `json:"message"`
	Rows      []domain.Record `json:"rows"`
	Total     int             `json:"total"`
	Fetched   int             `json:"fetched"`
	Truncated bool            `json:"truncated"`
}

type indexResponse struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message"`
	APIs    []string `json:"apis"`
}

// Dispatch routes GET / and GET /api/:api to the named operation.
//
// @Summary      Dispatch a machine-surface call
// @Description  Selects login-for-gpt, inventory-for-gpt or shipments-for-gpt via the api query parameter.
// @Tags         gpt
// @Produce      json
// @Param        api  query     string  false  "API name"
// @Success      200  {object}  QueryResponse
// @Failure      400  {object}  APIResponse
// @Router       / [get]
func (h *GPTHandler) Dispatch(c echo.Context) error {
	api := strings.TrimSpace(c.Param("api"))
	if api == "" {
		api = strings.TrimSpace(c.QueryParam("api"))
	}

	switch api {
	case "":
		return c.JSON(http.StatusOK, indexResponse{
			OK:      true,
			Message: "QFactory MES helper",
			APIs:    []string{APILogin, APIInventory, APIShipments},
		})
	case APILogin:
		return h.Login(c)
	case APIInventory:
		return h.Inventory(c)
	case APIShipments:
		return h.Shipments(c)
	}
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown api mode: %s", api))
}

// Login authenticates against MES and returns the session id to present on
// later calls.
//
// @Summary      Log in to MES
// @Tags         gpt
// @Produce      json
// @Param        userKey   query     string  true  "MES user key"
// @Param        password  query     string  true  "MES password"
// @Success      200       {object}  APIResponse
// @Failure      400       {object}  APIResponse
// @Failure      401       {object}  APIResponse
// @Failure      502       {object}  APIResponse
// @Router       /api/login-for-gpt [get]
func (h *GPTHandler) Login(c echo.Context) error {
	res, err := h.svc.Login(c.Request().Context(), param(c, "userKey"), param(c, "password"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, APIResponse{
		OK:        true,
		Message:   "login success",
		SessionID: res.SessionID,
		Profile:   &res.Profile,
	})
}

// Inventory returns the lots matching the optional criteria.
//
// @Summary      Query inventory lots
// @Tags         gpt
// @Produce      json
// @Param        session_id     query     string  true   "Session id from login"
// @Param        itemCode       query     string  false  "Item code substring"
// @Param        itemName       query     string  false  "Item name substring"
// @Param        warehouseCode  query     string  false  "Warehouse code substring"
// @Param        lotCode        query     string  false  "Lot code substring"
// @Success      200            {object}  QueryResponse
// @Failure      401            {object}  APIResponse
// @Failure      502            {object}  APIResponse
// @Router       /api/inventory-for-gpt [get]
func (h *GPTHandler) Inventory(c echo.Context) error {
	res, err := h.svc.QueryInventory(c.Request().Context(), ports.InventoryQueryInput{
		SessionID: param(c, "session_id", "sessionId"),
		Criteria: filter.Inventory(
			param(c, domain.FieldItemCode),
			param(c, domain.FieldItemName),
			param(c, domain.FieldWarehouseCode),
			param(c, domain.FieldLotCode),
		),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQueryResponse(res))
}

// Shipments returns the shipment results in the date range that match the
// optional criteria.
//
// @Summary      Query shipment results
// @Tags         gpt
// @Produce      json
// @Param        session_id   query     string  true   "Session id from login"
// @Param        date_from    query     string  true   "First day, YYYY-MM-DD"
// @Param        date_to      query     string  true   "Last day, YYYY-MM-DD"
// @Param        itemCode     query     string  false  "Item code substring"
// @Param        lotCode      query     string  false  "Lot code substring"
// @Param        partnerCode  query     string  false  "Partner code substring"
// @Success      200          {object}  QueryResponse
// @Failure      400          {object}  APIResponse
// @Failure      401          {object}  APIResponse
// @Failure      502          {object}  APIResponse
// @Router       /api/shipments-for-gpt [get]
func (h *GPTHandler) Shipments(c echo.Context) error {
	res, err := h.svc.QueryShipments(c.Request().Context(), ports.ShipmentQueryInput{
		SessionID: param(c, "session_id", "sessionId"),
		DateFrom:  param(c, "date_from", "dateFrom"),
		DateTo:    param(c, "date_to", "dateTo"),
		Criteria: filter.Shipments(
			param(c, domain.FieldItemCode),
			param(c, domain.FieldLotCode),
			param(c, domain.FieldPartnerCode),
		),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQueryResponse(res))
}

func toQueryResponse(res *domain.QueryResult) QueryResponse {
	rows := res.Matched
	if rows == nil {
		rows = []domain.Record{}
	}
	return QueryResponse{
		OK:        true,
		Message:   res.Summary(),
		Rows:      rows,
		Total:     len(rows),
		Fetched:   res.TotalFetched,
		Truncated: res.Truncated,
	}
}

// param returns the first non-empty query value among names.
func param(c echo.Context, names ...string) string {
	for _, n := range names {
		if v := c.QueryParam(n); v != "" {
			return v
		}
	}
	return ""
}
