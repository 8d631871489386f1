//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_ScanCheckout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	cartID := fmt.Sprintf("e2e_%d", time.Now().UnixNano())

	var health struct {
		Status string `json:"status"`
	}
	doJSON(t, http.MethodGet, baseURL+"/api/health", nil, &health, 200)
	if health.Status != "ok" {
		t.Fatalf("health status=%q", health.Status)
	}

	var productsResp struct {
		Products []struct {
			TagID string `json:"tag_id"`
			Price int64  `json:"price"`
		} `json:"products"`
	}
	doJSON(t, http.MethodGet, baseURL+"/api/products", nil, &productsResp, 200)
	if len(productsResp.Products) == 0 {
		t.Fatalf("expected non-empty catalog")
	}
	tag := productsResp.Products[0].TagID
	price := productsResp.Products[0].Price

	var scan struct {
		Action    string `json:"action"`
		CartTotal int64  `json:"cart_total"`
		CartItems int    `json:"cart_items"`
	}
	doJSON(t, http.MethodPost, baseURL+"/api/scan", map[string]any{
		"tag_id":  tag,
		"cart_id": cartID,
	}, &scan, 200)
	if scan.Action != "added" || scan.CartTotal != price || scan.CartItems != 1 {
		t.Fatalf("scan: %+v", scan)
	}

	var receipt struct {
		Receipt struct {
			ReceiptID string `json:"receipt_id"`
			Total     int64  `json:"total"`
			ItemCount int    `json:"item_count"`
		} `json:"receipt"`
	}
	doJSON(t, http.MethodPost, baseURL+"/api/cart/"+cartID+"/checkout", nil, &receipt, 200)
	if receipt.Receipt.ReceiptID == "" || receipt.Receipt.Total != price || receipt.Receipt.ItemCount != 1 {
		t.Fatalf("receipt: %+v", receipt.Receipt)
	}

	doJSON(t, http.MethodPost, baseURL+"/api/cart/"+cartID+"/checkout", nil, nil, 400)

	doJSON(t, http.MethodPost, baseURL+"/api/scan", map[string]any{
		"tag_id":  "ZZZZZZZZ",
		"cart_id": cartID,
	}, nil, 404)

	var cart struct {
		Cart struct {
			Total int64 `json:"total"`
			Items []any `json:"items"`
		} `json:"cart"`
	}
	doJSON(t, http.MethodGet, baseURL+"/api/cart/"+cartID, nil, &cart, 200)
	if cart.Cart.Total != 0 || len(cart.Cart.Items) != 0 {
		t.Fatalf("cart not empty after checkout: %+v", cart.Cart)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("readyz never succeeded: %v", ctx.Err())
		default:
		}

		resp, err := http.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}

		time.Sleep(500 * time.Millisecond)
	}
}

func doJSON(t *testing.T, method, url string, body, out any, wantStatus int) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status=%d want=%d body=%s", method, url, resp.StatusCode, wantStatus, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode %s: %v body=%s", url, err, string(raw))
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
