package mes

import (
	"encoding/json"
	"strconv"
)

// MES REST paths, relative to the base URL.
const (
	pathLogin     = "/common/login/post-login"
	pathInventory = "/inv/stock-onhand-lot/detail-list"
	pathShipments = "/sal/shipping_history/shipment-result-list"
)

type loginRequest struct {
	CompanyCode  string `json:"companyCode"`
	UserKey      string `json:"userKey"`
	Password     string `json:"password"`
	LanguageCode string `json:"languageCode"`
}

type loginResponse struct {
	Success  *bool          `json:"success"`
	Message  string         `json:"message"`
	Msg      string         `json:"msg"`
	UserInfo *loginUserInfo `json:"userInfo"`
	OrgInfo  *loginOrgInfo  `json:"orgInfo"`
}

type loginUserInfo struct {
	CompanyCode  string `json:"companyCode"`
	LanguageCode string `json:"languageCode"`
	UserName     string `json:"userName"`
}

type loginOrgInfo struct {
	OrgCompanyID json.Number `json:"orgCompanyId"`
	PlantID      json.Number `json:"plantId"`
	PlantCode    string      `json:"plantCode"`
}

// paging is shared by both bulk fetches. MES expects the limit as a string.
type paging struct {
	Start int    `json:"start"`
	Page  int    `json:"page"`
	Limit string `json:"limit"`
}

func firstPage(limit int) paging {
	return paging{Start: 1, Page: 1, Limit: strconv.Itoa(limit)}
}

// inventoryRequest mirrors the lot detail screen. Every filter field is sent
// empty; filtering happens locally after the fetch.
type inventoryRequest struct {
	LanguageCode          string      `json:"languageCode"`
	CompanyID             json.Number `json:"companyId"`
	PlantID               json.Number `json:"plantId"`
	ItemCode              string      `json:"itemCode"`
	ItemName              string      `json:"itemName"`
	ItemType              string      `json:"itemType"`
	ProjectCode           string      `json:"projectCode"`
	ProjectName           string      `json:"projectName"`
	ProductGroup          string      `json:"productGroup"`
	ItemClass1            string      `json:"itemClass1"`
	ItemClass2            string      `json:"itemClass2"`
	ItemClass3            string      `json:"itemClass3"`
	ItemClass4            string      `json:"itemClass4"`
	WarehouseCode         string      `json:"warehouseCode"`
	WarehouseName         string      `json:"warehouseName"`
	WarehouseLocationCode string      `json:"warehouseLocationCode"`
	EffectiveDateFrom     string      `json:"effectiveDateFrom"`
	EffectiveDateTo       string      `json:"effectiveDateTo"`
	CreationDateFrom      string      `json:"creationDateFrom"`
	CreationDateTo        string      `json:"creationDateTo"`
	LotStatus             string      `json:"lotStatus"`
	LotCode               string      `json:"lotCode"`
	JobName               string      `json:"jobName"`
	PartnerItem           string      `json:"partnerItem"`
	PeopleName            string      `json:"peopleName"`
	DefectiveFlag         string      `json:"defectiveFlag"`
	paging
}

// shipmentRequest only forwards the date range.
type shipmentRequest struct {
	LanguageCode     string      `json:"languageCode"`
	CompanyID        json.Number `json:"companyId"`
	ShipmentDateFrom string      `json:"shipmentDateFrom"`
	ShipmentDateTo   string      `json:"shipmentDateTo"`
	PlantCode        string      `json:"plantCode"`
	PlantID          json.Number `json:"plantId"`
	PartnerCode      string      `json:"partnerCode"`
	PartnerName      string      `json:"partnerName"`
	ShipmentNum      string      `json:"shipmentNum"`
	OrderNum         string      `json:"orderNum"`
	LotCode          string      `json:"lotCode"`
	ItemCode         string      `json:"itemCode"`
	ItemName         string      `json:"itemName"`
	ProjectCode      string      `json:"projectCode"`
	ProjectName      string      `json:"projectName"`
	ShippingCheck    string      `json:"shippingCheck"`
	paging
}

// listResponse is the envelope of both bulk fetches. A missing data or list
// object yields no rows.
type listResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Data    *struct {
		List []map[string]any `json:"list"`
	} `json:"data"`
}

func message(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
