package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/storecore/internal/audit"
	"github.com/vietddude/storecore/internal/cache"
	"github.com/vietddude/storecore/internal/catalog"
	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/core/worker"
	"github.com/vietddude/storecore/internal/infra/store/memory"
	"github.com/vietddude/storecore/internal/notify"
	"github.com/vietddude/storecore/internal/orders"
	"github.com/vietddude/storecore/internal/settings"
)

type apiFixture struct {
	server  *Server
	mem     *memory.MemoryStorage
	signals *memory.SignalRepo
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	mem := memory.NewMemoryStorage()
	mem.SeedProducts([]domain.Product{
		{ID: "p1", Slug: "green-tea", Name: "Green Tea 250g", Category: "Beverages", PriceCents: 95000, Currency: "VND", InStock: true},
		{ID: "p2", Slug: "red-rice", Name: "Red Rice 5kg", Category: "Grocery", PriceCents: 185000, Currency: "VND", InStock: true},
	})

	log := slog.Default()
	reporter := apperr.NewReporter(log, memory.NewErrorLogRepo(mem))
	mgr := cache.NewManager(reporter, nil)

	signalRepo := memory.NewSignalRepo(mem)
	cat := catalog.New(mgr, memory.NewProductRepo(mem), time.Hour)
	eng := settings.New(mgr, memory.NewSettingsRepo(mem),
		audit.NewRecorder(memory.NewAuditRepo(mem), log), 5*time.Minute)
	writer := orders.NewWriter(memory.NewOrderRepo(mem), signalRepo, nil, reporter)
	dispatcher := notify.NewDispatcher(reporter)
	queue := worker.NewQueue(16, time.Second, log)

	srv := NewServer(0, cat, eng, writer, dispatcher, queue, log, false)
	return &apiFixture{server: srv, mem: mem, signals: signalRepo}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func validOrderBody() map[string]any {
	return map[string]any{
		"customer_name":  "Lan Nguyen",
		"customer_email": "lan@example.com",
		"customer_phone": "0912345678",
		"address":        "12 Hang Bai, Hoan Kiem, Ha Noi",
		"items": []map[string]any{
			{"product_id": "p1", "quantity": 2},
		},
	}
}

func TestListProducts(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var got []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 products, got %d", len(got))
	}

	rec = f.do(t, http.MethodGet, "/products?limit=1", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 product with limit, got %d", len(got))
	}
}

func TestGetProduct_NotFoundShape(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/products/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if body["kind"] != "not_found" {
		t.Errorf("expected not_found kind, got %v", body["kind"])
	}
	if body["error"] == "" || body["error"] == nil {
		t.Error("expected a user-facing message")
	}
}

func TestSimilarProducts(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/products/p2/similar", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var got []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	for _, p := range got {
		if p.ID == "p2" {
			t.Error("similar list must exclude the product itself")
		}
	}
}

func TestCreateOrder_HappyPath(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/orders", validOrderBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if body["id"] == "" {
		t.Error("expected an order id")
	}
	// 2 x 95000 + default delivery fee 15000
	if body["total_cents"] != float64(205000) {
		t.Errorf("expected total 205000, got %v", body["total_cents"])
	}

	signals := f.signals.Signals()
	if len(signals) != 1 || signals[0].Kind != domain.SignalOrderPlaced {
		t.Errorf("expected one order-placed signal, got %v", signals)
	}
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	f := newAPIFixture(t)

	body := validOrderBody()
	body["customer_email"] = "not-an-email"
	body["customer_phone"] = "123"

	rec := f.do(t, http.MethodPost, "/orders", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	fields, isMap := resp["fields"].(map[string]any)
	if !isMap {
		t.Fatalf("expected field errors, got %v", resp)
	}
	if fields["customer_email"] == nil || fields["customer_phone"] == nil {
		t.Errorf("expected email and phone errors, got %v", fields)
	}
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	f := newAPIFixture(t)

	body := validOrderBody()
	body["items"] = []map[string]any{{"product_id": "ghost", "quantity": 1}}

	rec := f.do(t, http.MethodPost, "/orders", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown product, got %d: %s", rec.Code, rec.Body)
	}
}

func TestCreateOrder_GlobalLockBlocks(t *testing.T) {
	f := newAPIFixture(t)

	lock := map[string]any{"global_lock": true, "lock_message": "Back after Tet"}
	rec := f.do(t, http.MethodPut, "/admin/settings/store", lock)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected settings update to succeed, got %d: %s", rec.Code, rec.Body)
	}

	rec = f.do(t, http.MethodPost, "/orders", validOrderBody())
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 under global lock, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp["error"] != "Back after Tet" {
		t.Errorf("expected lock message surfaced, got %v", resp["error"])
	}
}

func TestCreateOrder_TooManyItems(t *testing.T) {
	f := newAPIFixture(t)

	// Drop the per-order cap to 1, then send 2 items
	rec := f.do(t, http.MethodPut, "/admin/settings/store", map[string]any{"max_items_per_order": 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected settings update to succeed, got %d: %s", rec.Code, rec.Body)
	}

	body := validOrderBody()
	body["items"] = []map[string]any{
		{"product_id": "p1", "quantity": 1},
		{"product_id": "p2", "quantity": 1},
	}
	rec = f.do(t, http.MethodPost, "/orders", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 over item cap, got %d: %s", rec.Code, rec.Body)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/settings/store", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got domain.StoreSettings
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if got.MaxOrdersPerUser != 5 {
		t.Errorf("expected default max_orders_per_user 5, got %d", got.MaxOrdersPerUser)
	}

	rec = f.do(t, http.MethodPut, "/admin/settings/store", map[string]any{"max_orders_per_user": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	// Stored zero, but reads clamp to the floor
	if got.MaxOrdersPerUser != 1 {
		t.Errorf("expected clamped value 1, got %d", got.MaxOrdersPerUser)
	}
}

func TestSettingsUpdate_UnknownFieldRejected(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPut, "/admin/settings/store", map[string]any{"surprise": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("surprise")) {
		t.Errorf("expected offending field named, got %s", rec.Body)
	}
}

func TestCreateOrder_NonPositiveQuantity(t *testing.T) {
	f := newAPIFixture(t)

	for _, qty := range []int{0, -1} {
		body := validOrderBody()
		body["items"] = []map[string]any{{"product_id": "p1", "quantity": qty}}
		rec := f.do(t, http.MethodPost, "/orders", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("quantity %d: expected 400, got %d", qty, rec.Code)
		}
	}
}

func TestPhoneNormalizedBeforeStorage(t *testing.T) {
	f := newAPIFixture(t)

	body := validOrderBody()
	body["customer_phone"] = "+84 912 345 678"

	rec := f.do(t, http.MethodPost, "/orders", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	id := fmt.Sprintf("%v", resp["id"])
	stored, err := memory.NewOrderRepo(f.mem).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("expected order stored: %v", err)
	}
	if stored.CustomerPhone != "0912345678" {
		t.Errorf("expected normalized phone, got %q", stored.CustomerPhone)
	}
}
