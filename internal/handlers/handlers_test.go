package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/checkout"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/media"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
)

var customer = models.Session{UserID: 1, Name: "Asha", Email: "asha@example.com", Role: models.RoleUser}

// newTestApp wires the handlers over a mocked database. sess, when set, is
// installed the way AuthMiddleware would.
func newTestApp(t *testing.T, sess *models.Session) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	st := store.New(db)
	h := &handlers.Handlers{
		Store: st,
		Dispatcher: checkout.NewDispatcher(checkout.Config{
			Carts: st.Carts, Addresses: st.Addresses, Orders: st.Orders, Notifier: st.Notifications,
			AppURL: "http://localhost:3000",
		}),
		Media:  media.NewSigner("public_abc", "private_abc", 30*time.Minute),
		Logger: zap.NewNop(),
	}

	r := gin.New()
	if sess != nil {
		r.Use(func(c *gin.Context) { middleware.SetSession(c, *sess) })
	}
	r.GET("/v1/cart", h.GetCart)
	r.PUT("/v1/cart/items/:id", h.UpdateCartItem)
	r.POST("/v1/addresses", h.CreateAddress)
	r.GET("/v1/checkout/options", h.GetCheckoutOptions)
	r.POST("/v1/checkout", h.Checkout)
	r.GET("/v1/checkout/success", h.CheckoutSuccess)
	r.GET("/v1/uploads/auth", h.GetUploadAuth)
	r.PATCH("/v1/notifications/:id/read", h.MarkNotificationAsRead)
	r.GET("/v1/products", h.SearchProducts)
	r.PATCH("/v1/admin/products/:id/publish", h.PublishProduct)
	r.GET("/v1/seller/dashboard-stats", h.GetSellerStats)
	return r, mock
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCheckoutOptions(t *testing.T) {
	r, _ := newTestApp(t, nil)

	w := do(r, http.MethodGet, "/v1/checkout/options", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Len(t, body["shipping"], 2)
	assert.Len(t, body["wrapping"], 3)
	assert.EqualValues(t, 300, body["maxGiftMessageLen"])
}

func TestUploadAuth(t *testing.T) {
	r, _ := newTestApp(t, &models.Session{UserID: 3, Role: models.RoleSeller})

	w := do(r, http.MethodGet, "/v1/uploads/auth", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var auth media.UploadAuth
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	assert.NotEmpty(t, auth.Token)
	assert.Len(t, auth.Signature, 40)
	assert.Equal(t, "public_abc", auth.PublicKey)
}

func productCartRow() *sqlmock.Rows {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "user_id", "product_id", "quantity", "created_at", "updated_at",
		"p.id", "seller_id", "category_id", "name", "description", "images",
		"base_price", "discounted_price", "in_stock", "is_published", "p.created_at", "p.updated_at",
		"c.name", "u.name",
	}).AddRow(
		11, 1, 5, 2, ts, ts,
		5, 3, 2, "Cotton Kurta", "Handloom cotton kurta", []byte(`["https://ik.imagekit.io/k.jpg"]`),
		4999, 3999, 10, true, ts, ts,
		"kurtas", "Meera Textiles",
	)
}

func TestGetCartBreakdown(t *testing.T) {
	r, mock := newTestApp(t, &customer)
	mock.ExpectQuery("FROM cart_items ci").WithArgs(1).WillReturnRows(productCartRow())

	w := do(r, http.MethodGet, "/v1/cart?shipping=express&wrap=basic", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.TotalItems)
	assert.Equal(t, int64(7998), resp.Pricing.Subtotal)
	assert.Equal(t, int64(10000), resp.Pricing.Shipping)
	assert.Equal(t, int64(2000), resp.Pricing.Wrap)
	assert.Equal(t, int64(19998), resp.Pricing.Total)
	assert.Equal(t, "Meera Textiles", resp.Items[0].Product.SellerName)
}

func TestGetCartEmptyUsesDefaults(t *testing.T) {
	r, mock := newTestApp(t, &customer)
	mock.ExpectQuery("FROM cart_items ci").WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := do(r, http.MethodGet, "/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, int64(5000), resp.Pricing.Total)
}

func TestNoSessionIsUnauthorized(t *testing.T) {
	r, _ := newTestApp(t, nil)

	w := do(r, http.MethodGet, "/v1/cart", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w)["kind"])
}

func TestBadIDParam(t *testing.T) {
	r, _ := newTestApp(t, &customer)

	w := do(r, http.MethodPut, "/v1/cart/items/abc", `{"quantity":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAddressValidation(t *testing.T) {
	r, _ := newTestApp(t, &customer)

	w := do(r, http.MethodPost, "/v1/addresses", `{"firstName":"Al","lastName":"Verma","email":"nope"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "validation", body["kind"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "firstName")
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "lastName")
}

func TestCheckoutPreconditionFailsBeforeAnyQuery(t *testing.T) {
	r, _ := newTestApp(t, &customer)

	w := do(r, http.MethodPost, "/v1/checkout",
		`{"addressId":2,"paymentMethod":"COD","shippingMethod":"standard","wrappingOption":"none","total":0}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode(t, w)
	assert.Equal(t, "precondition", body["kind"])
	assert.Equal(t, apperr.MsgInvalidTotal, body["error"])
}

func TestCheckoutMalformedBody(t *testing.T) {
	r, _ := newTestApp(t, &customer)

	w := do(r, http.MethodPost, "/v1/checkout", `{"total":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutSuccessNeedsOrderID(t *testing.T) {
	r, _ := newTestApp(t, &customer)

	w := do(r, http.MethodGet, "/v1/checkout/success?session_id=cs_1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkNotificationRead(t *testing.T) {
	r, mock := newTestApp(t, &customer)
	mock.ExpectExec("UPDATE notifications SET is_read = 1").
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := do(r, http.MethodPatch, "/v1/notifications/7/read", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchProductsClampsPaging(t *testing.T) {
	r, mock := newTestApp(t, nil)
	mock.ExpectQuery("SELECT COUNT").WithArgs("%kurta%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("FROM products p").WithArgs("%kurta%", 8, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := do(r, http.MethodGet, "/v1/products?q=Kurta&page=-3&limit=500", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 8, body["limit"])
	assert.EqualValues(t, 0, body["totalCount"])
	assert.Equal(t, []any{}, body["products"])
}

func TestPublishProductNotifiesSeller(t *testing.T) {
	r, mock := newTestApp(t, &models.Session{UserID: 99, Role: models.RoleAdmin})
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE products SET is_published").
		WithArgs(true, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("WHERE p.id = ").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "seller_id", "category_id", "name", "description", "images",
			"base_price", "discounted_price", "in_stock", "is_published", "created_at", "updated_at",
			"c.name", "u.name",
		}).AddRow(5, 3, 2, "Cotton Kurta", "Handloom cotton kurta", []byte(`[]`),
			4999, nil, 10, true, ts, ts, "kurtas", "Meera Textiles"))
	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(3, `Your product "Cotton Kurta" is now live`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := do(r, http.MethodPatch, "/v1/admin/products/5/publish", "")
	require.Equal(t, http.StatusOK, w.Code)

	product, ok := decode(t, w)["product"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, product["isPublished"])
}

func TestSellerStats(t *testing.T) {
	r, mock := newTestApp(t, &models.Session{UserID: 3, Role: models.RoleSeller})
	mock.ExpectQuery("FROM products").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"live", "draft"}).AddRow(4, 1))
	mock.ExpectQuery("FROM order_items oi").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"units", "revenue", "pending"}).AddRow(7, 27993, 2))

	w := do(r, http.MethodGet, "/v1/seller/dashboard-stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.SellerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, models.SellerStats{LiveProducts: 4, DraftProducts: 1, UnitsSold: 7, Revenue: 27993, PendingOrders: 2}, stats)
}
