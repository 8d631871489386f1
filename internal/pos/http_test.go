package pos_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"ScanTill/internal/catalog"
	"ScanTill/internal/pos"
)

func newPosHandler(t *testing.T, catalogURL string) http.Handler {
	t.Helper()

	s := &pos.Server{
		Store:   pos.NewStore(),
		Catalog: pos.NewCatalogClient(catalogURL),
		Log:     zap.NewNop(),
	}

	return pos.NewHandler(s, pos.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "pos",
	})
}

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &catalog.Server{Store: catalog.NewMemStore(), Log: zap.NewNop()}
	h := catalog.NewHandler(s, catalog.HTTPDeps{Log: zap.NewNop(), Service: "catalog"})
	return httptest.NewServer(h)
}

func postScan(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestScan_NormalizesTagBeforeLookup(t *testing.T) {
	catalogTS := newCatalogTS(t)
	t.Cleanup(catalogTS.Close)

	h := newPosHandler(t, catalogTS.URL)

	rec := postScan(t, h, map[string]any{"tag_id": " a1 b2 c3 d4 "})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var sr struct {
		Action string   `json:"action"`
		Cart   pos.Cart `json:"cart"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sr.Action != "added" || sr.Cart.Items[0].TagID != "A1B2C3D4" {
		t.Fatalf("resp: %+v", sr)
	}
	if sr.Cart.ID != "default" {
		t.Fatalf("cart_id not defaulted: %q", sr.Cart.ID)
	}
}

func TestScan_WhitespaceOnlyTagIsInvalidInput(t *testing.T) {
	catalogTS := newCatalogTS(t)
	t.Cleanup(catalogTS.Close)

	h := newPosHandler(t, catalogTS.URL)

	rec := postScan(t, h, map[string]any{"tag_id": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestScan_CatalogDownIsServiceUnavailable(t *testing.T) {
	catalogTS := newCatalogTS(t)
	catalogTS.Close() // connection refused from here on

	h := newPosHandler(t, catalogTS.URL)

	rec := postScan(t, h, map[string]any{"tag_id": "a1b2c3d4"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminCarts_RequiresOperatorHeader(t *testing.T) {
	catalogTS := newCatalogTS(t)
	t.Cleanup(catalogTS.Close)

	h := newPosHandler(t, catalogTS.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/carts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/carts", nil)
	req.Header.Set("X-Operator-Id", "op_test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}
