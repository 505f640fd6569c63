package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"medifinder/internal/repository"
	"medifinder/internal/service"
	"medifinder/migrations"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	t.Setenv("ENV", "test")

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.AutoMigrate("sqlite", 1, db))
	return db
}

func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asPharmacy(c echo.Context, pharmacyID string) {
	c.Set("user", &jwt.Token{Claims: &service.UserClaims{
		UserID:     "user-1",
		Name:       "Owner",
		Email:      "owner@example.com",
		Role:       "pharmacy",
		PharmacyID: pharmacyID,
	}})
}

func TestRegisterAndLoginHandlers(t *testing.T) {
	db := newTestDB(t)
	handler := NewUserHandler(*service.NewUserService(*repository.NewUserRepository(db), nil))
	e := echo.New()

	c, rec := newContext(e, http.MethodPost, "/api/users",
		`{"email":"alice@example.com","name":"Alice","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	require.Equal(t, 201, rec.Code)
	require.NotContains(t, rec.Body.String(), "secret123")

	// Duplicate email maps to 409.
	c, rec = newContext(e, http.MethodPost, "/api/users",
		`{"email":"alice@example.com","name":"Alice","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	require.Equal(t, 409, rec.Code)

	c, rec = newContext(e, http.MethodPost, "/api/login",
		`{"email":"alice@example.com","password":"secret123"}`)
	require.NoError(t, handler.Login(c))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "token")

	c, rec = newContext(e, http.MethodPost, "/api/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	require.NoError(t, handler.Login(c))
	require.Equal(t, 401, rec.Code)
}

func TestRequirePharmacy(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.JSON(200, map[string]string{"ok": "yes"}) }

	c, rec := newContext(e, http.MethodGet, "/api/dashboard/stock", "")
	asPharmacy(c, "ph-001")
	require.NoError(t, RequirePharmacy(next)(c))
	require.Equal(t, 200, rec.Code)

	c, rec = newContext(e, http.MethodGet, "/api/dashboard/stock", "")
	c.Set("user", &jwt.Token{Claims: &service.UserClaims{Role: "customer"}})
	require.NoError(t, RequirePharmacy(next)(c))
	require.Equal(t, 403, rec.Code)

	c, rec = newContext(e, http.MethodGet, "/api/dashboard/stock", "")
	require.NoError(t, RequirePharmacy(next)(c))
	require.Equal(t, 401, rec.Code)
}

func TestDashboardStockRoundTrip(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO pharmacies (id, name, sector, address, phone, delivery, lat, lng, description)
		VALUES ('ph-001', 'Kipharma', 'Nyarugenge', 'KN 4 Ave', '+250788111111', 0, -1.94, 30.06, NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO medicines (id, name, strength, requires_prescription) VALUES (1, 'Paracetamol', '500mg', 0)`)
	require.NoError(t, err)

	stockSvc := service.NewStockService(*repository.NewStockRepository(db), *repository.NewMedicineRepository(db), nil)
	orderSvc := service.NewOrderService(*repository.NewOrderRepository(db), *repository.NewStockRepository(db), nil)
	insuranceSvc := service.NewInsuranceService(*repository.NewInsuranceRepository(db))
	notificationSvc := service.NewNotificationService(*repository.NewNotificationRepository(db))
	userSvc := service.NewUserService(*repository.NewUserRepository(db), nil)
	handler := NewDashboardHandler(*stockSvc, *orderSvc, *insuranceSvc, *notificationSvc, *userSvc)
	e := echo.New()

	c, rec := newContext(e, http.MethodPost, "/api/dashboard/stock",
		`{"medicineId":1,"quantity":25,"priceRWF":600}`)
	asPharmacy(c, "ph-001")
	require.NoError(t, handler.AddStock(c))
	require.Equal(t, 201, rec.Code)
	require.Contains(t, rec.Body.String(), "Paracetamol")

	// A second add for the same medicine conflicts.
	c, rec = newContext(e, http.MethodPost, "/api/dashboard/stock",
		`{"medicineId":1,"quantity":5,"priceRWF":600}`)
	asPharmacy(c, "ph-001")
	require.NoError(t, handler.AddStock(c))
	require.Equal(t, 409, rec.Code)

	c, rec = newContext(e, http.MethodGet, "/api/dashboard/stock", "")
	asPharmacy(c, "ph-001")
	require.NoError(t, handler.GetStock(c))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), `"quantity":25`)
	require.Contains(t, rec.Body.String(), `"priceRWF":600`)
}

func TestSearchFiltersBySector(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO pharmacies (id, name, sector, address, phone, delivery, lat, lng, description)
		VALUES ('ph-001', 'Kipharma', 'Nyarugenge', 'KN 4 Ave', '+250788111111', 0, -1.94, 30.06, NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO pharmacies (id, name, sector, address, phone, delivery, lat, lng, description)
		VALUES ('ph-002', 'Pharmacie du Calme', 'Kicukiro', 'KK 15 Rd', '+250788222222', 1, -1.97, 30.10, NULL)`)
	require.NoError(t, err)

	pharmacySvc := service.NewPharmacyService(*repository.NewPharmacyRepository(db),
		*repository.NewInsuranceRepository(db), *repository.NewStockRepository(db))
	handler := NewPharmacyHandler(*pharmacySvc)
	e := echo.New()

	c, rec := newContext(e, http.MethodGet, "/api/pharmacies?loc=Kicukiro", "")
	require.NoError(t, handler.Search(c))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "Pharmacie du Calme")
	require.NotContains(t, rec.Body.String(), "Kipharma")
}

func TestDashboardRejectsUnlinkedAccount(t *testing.T) {
	db := newTestDB(t)
	stockSvc := service.NewStockService(*repository.NewStockRepository(db), *repository.NewMedicineRepository(db), nil)
	orderSvc := service.NewOrderService(*repository.NewOrderRepository(db), *repository.NewStockRepository(db), nil)
	insuranceSvc := service.NewInsuranceService(*repository.NewInsuranceRepository(db))
	notificationSvc := service.NewNotificationService(*repository.NewNotificationRepository(db))
	userSvc := service.NewUserService(*repository.NewUserRepository(db), nil)
	handler := NewDashboardHandler(*stockSvc, *orderSvc, *insuranceSvc, *notificationSvc, *userSvc)
	e := echo.New()

	c, rec := newContext(e, http.MethodGet, "/api/dashboard/stock", "")
	asPharmacy(c, "")
	require.NoError(t, handler.GetStock(c))
	require.Equal(t, 404, rec.Code)
	require.Contains(t, rec.Body.String(), "not linked to a pharmacy")
}

func TestCreateOrderHandlerValidation(t *testing.T) {
	db := newTestDB(t)
	orderSvc := service.NewOrderService(*repository.NewOrderRepository(db), *repository.NewStockRepository(db), nil)
	handler := NewOrderHandler(*orderSvc)
	e := echo.New()

	c, rec := newContext(e, http.MethodPost, "/api/orders", `{"items":[]}`)
	asPharmacy(c, "")
	require.NoError(t, handler.CreateOrder(c))
	require.Equal(t, 400, rec.Code)

	// No token claims at all.
	c, rec = newContext(e, http.MethodPost, "/api/orders", `{}`)
	require.NoError(t, handler.CreateOrder(c))
	require.Equal(t, 401, rec.Code)
}
