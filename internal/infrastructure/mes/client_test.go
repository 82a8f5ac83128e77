package mes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/qfactory/mes-helper/internal/core/domain"
)

const loginOK = `{"success":true,"userInfo":{"companyCode":"BWC40601","languageCode":"KO","userName":"Kim"},
"orgInfo":{"orgCompanyId":100,"plantId":11,"plantCode":"BW1"}}`

var testProfile = domain.Profile{
	UserKey:      "u1",
	CompanyCode:  "BWC40601",
	CompanyID:    "100",
	PlantID:      "11",
	PlantCode:    "BW1",
	LanguageCode: "KO",
}

func newTestClient(t *testing.T, srv *httptest.Server, limit int) *Client {
	t.Helper()
	f := newFactory(Config{
		BaseURL:      srv.URL,
		Origin:       "https://mes.example",
		CompanyCode:  "BWC40601",
		LanguageCode: "KO",
		FetchLimit:   limit,
		LoginTimeout: 2 * time.Second,
		FetchTimeout: 2 * time.Second,
	}, http.DefaultTransport, zerolog.Nop())
	c, err := f.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c.(*Client)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return m
}

func remoteKind(t *testing.T, err error, want error) *domain.RemoteError {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	var re *domain.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected *domain.RemoteError, got %T", err)
	}
	return re
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_SuccessKeepsCookiesForFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathLogin:
			body := decodeBody(t, r)
			if body["companyCode"] != "BWC40601" || body["languageCode"] != "KO" {
				t.Errorf("unexpected login constants: %v", body)
			}
			if body["userKey"] != "u1" || body["password"] != "pw" {
				t.Errorf("unexpected credentials: %v", body)
			}
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc", Path: "/"})
			_, _ = w.Write([]byte(loginOK))
		case pathInventory:
			ck, err := r.Cookie("JSESSIONID")
			if err != nil || ck.Value != "abc" {
				t.Errorf("session cookie not sent with fetch")
			}
			_, _ = w.Write([]byte(`{"data":{"list":[{"itemCode":"A1"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, 9999)
	p, err := c.Login(context.Background(), "u1", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if p.UserKey != "u1" || p.CompanyID != "100" || p.PlantID != "11" || p.PlantCode != "BW1" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if p.LanguageCode != "KO" || p.DisplayName != "Kim" || p.CompanyCode != "BWC40601" {
		t.Fatalf("unexpected user info: %+v", p)
	}

	res, err := c.FetchInventory(context.Background(), *p)
	if err != nil {
		t.Fatalf("FetchInventory: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
}

func TestLogin_SendsBrowserHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := map[string]string{
			"Accept":           "*/*",
			"Content-Type":     "application/json",
			"Origin":           "https://mes.example",
			"Referer":          "https://mes.example/",
			"X-Requested-With": "XMLHttpRequest",
		}
		for k, v := range want {
			if got := r.Header.Get(k); got != v {
				t.Errorf("header %s: got %q, want %q", k, got, v)
			}
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		_, _ = w.Write([]byte(loginOK))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv, 9999).Login(context.Background(), "u1", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestLogin_ApplicationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid password"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 9999).Login(context.Background(), "u1", "bad")
	re := remoteKind(t, err, domain.ErrApplication)
	if re.Message != "invalid password" {
		t.Fatalf("expected server message, got %q", re.Message)
	}
}

func TestLogin_MissingSuccessFlagIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"userInfo":{}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 9999).Login(context.Background(), "u1", "pw")
	re := remoteKind(t, err, domain.ErrApplication)
	if !strings.Contains(re.Message, "userInfo") {
		t.Fatalf("expected body snippet as message, got %q", re.Message)
	}
}

func TestLogin_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 9999).Login(context.Background(), "u1", "pw")
	re := remoteKind(t, err, domain.ErrHTTPStatus)
	if re.StatusCode != http.StatusInternalServerError || re.Body != "boom" {
		t.Fatalf("unexpected error detail: %+v", re)
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Fatalf("expected status in message, got %q", err.Error())
	}
}

func TestLogin_MissingOrgInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"userInfo":{"languageCode":"KO"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 9999).Login(context.Background(), "u1", "pw")
	remoteKind(t, err, domain.ErrParse)
}

func TestLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv, 9999)
	srv.Close()

	_, err := c.Login(context.Background(), "u1", "pw")
	remoteKind(t, err, domain.ErrTransport)
}

// ── Fetch ────────────────────────────────────────────────────────────────────

func TestFetchInventory_PayloadHasNoFilterText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathInventory {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body := decodeBody(t, r)
		for _, k := range []string{"itemCode", "itemName", "warehouseCode", "lotCode", "itemType", "peopleName"} {
			if body[k] != "" {
				t.Errorf("expected empty %s, got %v", k, body[k])
			}
		}
		if body["limit"] != "9999" {
			t.Errorf("limit must be the string \"9999\", got %#v", body["limit"])
		}
		if body["start"] != json.Number("1") || body["page"] != json.Number("1") {
			t.Errorf("unexpected paging: start=%v page=%v", body["start"], body["page"])
		}
		if body["defectiveFlag"] != "Y" {
			t.Errorf("defectiveFlag: got %v", body["defectiveFlag"])
		}
		if body["companyId"] != json.Number("100") || body["plantId"] != json.Number("11") {
			t.Errorf("scope: companyId=%v plantId=%v", body["companyId"], body["plantId"])
		}
		if body["languageCode"] != "KO" {
			t.Errorf("languageCode: got %v", body["languageCode"])
		}
		_, _ = w.Write([]byte(`{"data":{"list":[{"itemCode":"A1","qty":3},{"itemCode":"B2","qty":1.5}]}}`))
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv, 9999).FetchInventory(context.Background(), testProfile)
	if err != nil {
		t.Fatalf("FetchInventory: %v", err)
	}
	if len(res.Rows) != 2 || res.Truncated {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Rows[0]["qty"] != json.Number("3") {
		t.Fatalf("numbers should be kept verbatim, got %#v", res.Rows[0]["qty"])
	}
}

func TestFetchShipments_ForwardsOnlyDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathShipments {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body := decodeBody(t, r)
		if body["shipmentDateFrom"] != "2024-05-01" || body["shipmentDateTo"] != "2024-05-02" {
			t.Errorf("dates: %v..%v", body["shipmentDateFrom"], body["shipmentDateTo"])
		}
		for _, k := range []string{"itemCode", "lotCode", "partnerCode", "partnerName", "orderNum"} {
			if body[k] != "" {
				t.Errorf("expected empty %s, got %v", k, body[k])
			}
		}
		if body["shippingCheck"] != "Y" || body["plantCode"] != "BW1" {
			t.Errorf("shippingCheck=%v plantCode=%v", body["shippingCheck"], body["plantCode"])
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"list":[{"partnerCode":"P9"}]}}`))
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv, 9999).FetchShipments(context.Background(), testProfile, "2024-05-01", "2024-05-02")
	if err != nil {
		t.Fatalf("FetchShipments: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0]["partnerCode"] != "P9" {
		t.Fatalf("unexpected rows: %+v", res.Rows)
	}
}

func TestFetch_MissingListIsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"data":{}}`, `{"data":{"list":[]}}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		res, err := newTestClient(t, srv, 9999).FetchInventory(context.Background(), testProfile)
		srv.Close()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", body, err)
		}
		if res.Rows == nil || len(res.Rows) != 0 {
			t.Fatalf("%s: expected empty non-nil rows, got %#v", body, res.Rows)
		}
	}
}

func TestFetch_NotJSON(t *testing.T) {
	page := "<html>" + strings.Repeat("x", 500) + "</html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 9999).FetchInventory(context.Background(), testProfile)
	re := remoteKind(t, err, domain.ErrParse)
	if len(re.Body) != snippetLimit || !strings.HasPrefix(re.Body, "<html>") {
		t.Fatalf("expected %d-byte snippet, got %d bytes", snippetLimit, len(re.Body))
	}
}

func TestFetch_ExplicitFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"msg":"session expired"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 9999).FetchShipments(context.Background(), testProfile, "2024-05-01", "2024-05-01")
	re := remoteKind(t, err, domain.ErrApplication)
	if re.Message != "session expired" {
		t.Fatalf("unexpected message %q", re.Message)
	}
}

func TestFetch_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 9999).FetchInventory(context.Background(), testProfile)
	re := remoteKind(t, err, domain.ErrHTTPStatus)
	if re.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", re.StatusCode)
	}
}

func TestFetch_FullPageIsTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body := decodeBody(t, r); body["limit"] != "2" {
			t.Errorf("limit: got %v", body["limit"])
		}
		_, _ = w.Write([]byte(`{"data":{"list":[{"itemCode":"A"},{"itemCode":"B"}]}}`))
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv, 2).FetchInventory(context.Background(), testProfile)
	if err != nil {
		t.Fatalf("FetchInventory: %v", err)
	}
	if !res.Truncated || res.Limit != 2 {
		t.Fatalf("expected truncated result with limit 2, got %+v", res)
	}
}

func TestFactory_ClientsDoNotShareCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == pathLogin {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "first", Path: "/"})
			_, _ = w.Write([]byte(loginOK))
			return
		}
		if _, err := r.Cookie("JSESSIONID"); err == nil {
			t.Errorf("second client must start with an empty jar")
		}
		_, _ = w.Write([]byte(`{"data":{"list":[]}}`))
	}))
	defer srv.Close()

	first := newTestClient(t, srv, 9999)
	if _, err := first.Login(context.Background(), "u1", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	second := newTestClient(t, srv, 9999)
	if _, err := second.FetchInventory(context.Background(), testProfile); err != nil {
		t.Fatalf("FetchInventory: %v", err)
	}
}

func TestSnippet_KeepsValidUTF8(t *testing.T) {
	s := snippet([]byte(strings.Repeat("재고", 100)))
	if len(s) > snippetLimit {
		t.Fatalf("snippet too long: %d", len(s))
	}
	if !strings.HasPrefix(strings.Repeat("재고", 100), s) {
		t.Fatalf("snippet is not a prefix of the body")
	}
}
