package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	custommiddleware "propshare/internal/middleware"
	"propshare/internal/repository"
	"propshare/internal/usecase"
)

const testAdminPassword = "operator-secret"

type apiEnvelope struct {
	Success bool            `json:"success"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := repository.NewFileDocumentStore(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("NewFileDocumentStore() failed: %v", err)
	}
	writer := usecase.NewDocumentWriter(store)
	accounts := usecase.NewAccountService(writer)
	accounts.SetHashCost(bcrypt.MinCost)
	ledger := usecase.NewLedgerService(writer, nil, nil)
	auth := custommiddleware.NewAuth("test-secret", testAdminPassword)

	e := echo.New()
	SetupRoutes(e, &RouterConfig{
		Auth:         auth,
		AuthHandler:  NewAuthHandler(accounts, auth, false),
		DataHandler:  NewDataHandler(ledger),
		AdminHandler: NewAdminHandler(ledger, writer, "file"),
	})
	return &testServer{e: e}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) (int, apiEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env apiEnvelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid JSON body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

type session struct {
	token        string
	userID       string
	publicID     string
	referralCode string
}

func (s *testServer) register(t *testing.T, email, referralCode string) session {
	t.Helper()
	body := `{"name":"Test","email":"` + email + `","password":"secret123","referralCode":"` + referralCode + `"}`
	code, env := s.do(t, http.MethodPost, "/api/auth/register", body, nil)
	if code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %+v", code, env)
	}

	var out struct {
		Token string `json:"token"`
		User  struct {
			ID           string `json:"id"`
			PublicID     string `json:"publicId"`
			ReferralCode string `json:"referralCode"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if strings.Contains(string(env.Data), "passwordHash") {
		t.Error("register response leaked the password hash")
	}
	return session{token: out.Token, userID: out.User.ID, publicID: out.User.PublicID, referralCode: out.User.ReferralCode}
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana@example.com", "")

	code, _ := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret123"}`, nil)
	if code != http.StatusOK {
		t.Errorf("login status = %d, want 200", code)
	}
	code, _ = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"nope"}`, nil)
	if code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", code)
	}
	code, _ = s.do(t, http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"ana@example.com","password":"secret123"}`, nil)
	if code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", code)
	}
}

func TestDataEndpoints(t *testing.T) {
	s := newTestServer(t)
	ana := s.register(t, "ana@example.com", "")
	bob := s.register(t, "bob@example.com", "")

	code, _ := s.do(t, http.MethodGet, "/api/data", "", nil)
	if code != http.StatusUnauthorized {
		t.Errorf("anonymous GET status = %d, want 401", code)
	}

	code, _ = s.do(t, http.MethodGet, "/api/data?userId="+bob.userID, "", bearer(ana.token))
	if code != http.StatusForbidden {
		t.Errorf("foreign userId status = %d, want 403", code)
	}

	testCases := []struct {
		name string
		body string
		want int
	}{
		{name: "deposit", body: `{"action":"deposit","payload":{"amount":1000}}`, want: http.StatusOK},
		{name: "foreign userId", body: `{"action":"deposit","userId":"` + bob.userID + `","payload":{"amount":1000}}`, want: http.StatusForbidden},
		{name: "own public id", body: `{"action":"deposit","userId":"` + ana.publicID + `","payload":{"amount":0}}`, want: http.StatusBadRequest},
		{name: "deposit zero", body: `{"action":"deposit","payload":{"amount":0}}`, want: http.StatusBadRequest},
		{name: "unknown action", body: `{"action":"transfer","payload":{"amount":10}}`, want: http.StatusBadRequest},
		{name: "withdraw bad clabe", body: `{"action":"withdraw","payload":{"amount":10,"clabe":"123","accountHolderName":"Ana"}}`, want: http.StatusBadRequest},
		{name: "withdraw too much", body: `{"action":"withdraw","payload":{"amount":5000,"clabe":"012180001234567891","accountHolderName":"Ana"}}`, want: http.StatusUnprocessableEntity},
		{name: "withdraw", body: `{"action":"withdraw","payload":{"amount":200,"clabe":"012180001234567891","accountHolderName":"Ana"}}`, want: http.StatusOK},
		{name: "invest unknown property", body: `{"action":"invest","payload":{"propertyId":"nope","amount":500,"term":30}}`, want: http.StatusNotFound},
		{name: "invest", body: `{"action":"invest","payload":{"propertyId":"prop-polanco-lofts","amount":500,"term":30}}`, want: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := s.do(t, http.MethodPost, "/api/data", tc.body, bearer(ana.token))
			if code != tc.want {
				t.Fatalf("status = %d, want %d (message %q)", code, tc.want, env.Message)
			}
			if env.Success != (tc.want == http.StatusOK) {
				t.Errorf("success = %v for status %d", env.Success, code)
			}
		})
	}

	code, env := s.do(t, http.MethodGet, "/api/data?userId="+ana.publicID, "", bearer(ana.token))
	if code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", code)
	}
	if strings.Contains(string(env.Data), "passwordHash") {
		t.Error("dashboard response carries a passwordHash key")
	}
	var dash struct {
		User struct {
			PublicID string `json:"publicId"`
		} `json:"user"`
		Balance          float64 `json:"balance"`
		AvailableBalance float64 `json:"availableBalance"`
		Investments      []struct {
			CurrentValue float64 `json:"currentValue"`
		} `json:"investments"`
		Transactions []struct {
			Type string `json:"type"`
		} `json:"transactions"`
		WithdrawalRequests []struct {
			Status string `json:"status"`
		} `json:"withdrawalRequests"`
	}
	if err := json.Unmarshal(env.Data, &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.User.PublicID != ana.publicID {
		t.Errorf("dashboard user publicId = %q, want %q", dash.User.PublicID, ana.publicID)
	}
	if dash.Balance != 500 || dash.AvailableBalance != 300 {
		t.Errorf("balance = %v available = %v, want 500 and 300", dash.Balance, dash.AvailableBalance)
	}
	if len(dash.Investments) != 1 || dash.Investments[0].CurrentValue < 500 || dash.Investments[0].CurrentValue > 500.01 {
		t.Errorf("investments = %+v, want one worth about 500", dash.Investments)
	}
	if len(dash.Transactions) != 3 || dash.Transactions[0].Type != "investment" {
		t.Errorf("transactions = %+v, want 3 newest first", dash.Transactions)
	}
	if len(dash.WithdrawalRequests) != 1 || dash.WithdrawalRequests[0].Status != "pending" {
		t.Errorf("withdrawal requests = %+v, want one pending", dash.WithdrawalRequests)
	}
}

func TestAdminWithdrawalFlow(t *testing.T) {
	s := newTestServer(t)
	ana := s.register(t, "ana@example.com", "")
	admin := map[string]string{custommiddleware.AdminPasswordHeader: testAdminPassword}

	s.do(t, http.MethodPost, "/api/data", `{"action":"deposit","payload":{"amount":1000}}`, bearer(ana.token))
	_, env := s.do(t, http.MethodPost, "/api/data", `{"action":"withdraw","payload":{"amount":400,"clabe":"012180001234567891","accountHolderName":"Ana"}}`, bearer(ana.token))
	var wr struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &wr); err != nil || wr.ID == "" {
		t.Fatalf("decode withdrawal: %v (%s)", err, env.Data)
	}

	code, _ := s.do(t, http.MethodGet, "/api/admin/withdrawals?status=pending", "", bearer(ana.token))
	if code != http.StatusUnauthorized {
		t.Errorf("admin route without password status = %d, want 401", code)
	}

	code, env = s.do(t, http.MethodGet, "/api/admin/withdrawals?status=pending", "", admin)
	if code != http.StatusOK || !strings.Contains(string(env.Data), wr.ID) {
		t.Errorf("pending list status = %d data = %s", code, env.Data)
	}

	code, _ = s.do(t, http.MethodPost, "/api/admin/withdrawals/"+wr.ID+"/approve", "", admin)
	if code != http.StatusOK {
		t.Fatalf("approve status = %d, want 200", code)
	}
	code, _ = s.do(t, http.MethodPost, "/api/admin/withdrawals/"+wr.ID+"/reject", "", admin)
	if code != http.StatusConflict {
		t.Errorf("reject after approve status = %d, want 409", code)
	}
	code, _ = s.do(t, http.MethodPost, "/api/admin/withdrawals/not-a-uuid/approve", "", admin)
	if code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", code)
	}

	code, _ = s.do(t, http.MethodPost, "/api/admin/balances/"+ana.userID+"/adjust", `{"amount":-50,"note":"fee"}`, admin)
	if code != http.StatusOK {
		t.Errorf("adjust status = %d, want 200", code)
	}

	code, env = s.do(t, http.MethodGet, "/api/admin/statistics", "", admin)
	if code != http.StatusOK {
		t.Fatalf("statistics status = %d", code)
	}
	var stats struct {
		TotalBalance float64 `json:"totalBalance"`
	}
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalBalance != 550 {
		t.Errorf("total balance = %v, want 550", stats.TotalBalance)
	}

	code, env = s.do(t, http.MethodGet, "/api/admin/document", "", admin)
	if code != http.StatusOK {
		t.Fatalf("document status = %d", code)
	}
	if strings.Contains(string(env.Data), "$2a$") {
		t.Error("document export leaked a bcrypt hash")
	}
}
