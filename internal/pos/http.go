package pos

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ScanTill/internal/catalog"
	"ScanTill/pkg/kit"
)

type Server struct {
	Store   Store
	Catalog *CatalogClient
	Log     *zap.Logger
}

const (
	maxScanBody   = 1 << 20
	defaultCartID = "default"
)

type scanReq struct {
	TagID  string `json:"tag_id"`
	CartID string `json:"cart_id"`
}

type scanResp struct {
	Action    string `json:"action"`
	Product   string `json:"product"`
	Price     int64  `json:"price"`
	CartTotal int64  `json:"cart_total"`
	CartItems int    `json:"cart_items"`
	Cart      Cart   `json:"cart"`
}

func (s *Server) ScanHandler() http.HandlerFunc     { return s.scan }
func (s *Server) SimulateHandler() http.HandlerFunc { return s.simulate }
func (s *Server) CartHandler() http.HandlerFunc     { return s.getCart }
func (s *Server) ClearHandler() http.HandlerFunc    { return s.clear }
func (s *Server) CheckoutHandler() http.HandlerFunc { return s.checkout }
func (s *Server) CartsHandler() http.HandlerFunc    { return s.listCarts }

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	req, err := decodeScanRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	s.toggle(w, r, req.TagID, req.CartID)
}

// simulate is the scan path a browser can drive without a POST body:
// tag from the URL, cart fixed to "default".
func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, chi.URLParam(r, "tagID"), defaultCartID)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request, rawTag, cartID string) {
	tag := catalog.NormalizeTag(rawTag)
	if tag == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "tag_id required", nil)
		return
	}
	if cartID == "" {
		cartID = defaultCartID
	}

	p, err := s.Catalog.GetProduct(r.Context(), tag)
	if err != nil {
		s.writeCatalogError(w, r, err, tag)
		return
	}

	action, cart, err := s.Store.Toggle(r.Context(), cartID, CartItem{
		TagID:    tag,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
	})
	if err != nil {
		if s.Log != nil {
			s.Log.Error("toggle failed", zap.Error(err), zap.String("cart_id", cartID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, scanResp{
		Action:    action,
		Product:   p.Name,
		Price:     p.Price,
		CartTotal: cart.Total,
		CartItems: len(cart.Items),
		Cart:      cart,
	})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	cart, err := s.Store.Get(r.Context(), cartID)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get cart failed", zap.Error(err), zap.String("cart_id", cartID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	cart, err := s.Store.Clear(r.Context(), cartID)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("clear cart failed", zap.Error(err), zap.String("cart_id", cartID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "cart cleared",
		"cart":    cart,
	})
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	rec, err := s.Store.Checkout(r.Context(), cartID)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			kit.WriteError(w, r, http.StatusBadRequest, "empty cart", map[string]any{"cart_id": cartID})
			return
		}
		if s.Log != nil {
			s.Log.Error("checkout failed", zap.Error(err), zap.String("cart_id", cartID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"receipt": rec})
}

func (s *Server) listCarts(w http.ResponseWriter, r *http.Request) {
	op, ok := OperatorFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no operator", nil)
		return
	}

	carts, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list carts failed", zap.Error(err), zap.String("operator_id", op.ID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"carts": carts,
		"count": len(carts),
	})
}

func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error, tag string) {
	switch {
	case errors.Is(err, ErrCatalogNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "unknown product", map[string]any{"tag_id": tag})
	case errors.Is(err, ErrCatalogUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	default:
		if s.Log != nil {
			s.Log.Warn("catalog error", zap.Error(err), zap.String("tag_id", tag))
		}
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	}
}

func decodeScanRequest(w http.ResponseWriter, r *http.Request) (scanReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScanBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req scanReq
	if err := dec.Decode(&req); err != nil {
		return scanReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return scanReq{}, errors.New("extra data after json object")
	}

	return req, nil
}
