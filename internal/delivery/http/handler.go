package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arjunks/vendora/internal/domain"
	"github.com/arjunks/vendora/internal/usecase"
)

// userHeader carries the authenticated user id, supplied by the boundary
// layer in front of this service and trusted as given.
const userHeader = "X-User-ID"

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

type CheckoutRequest struct {
	Items         []usecase.CheckoutItem `json:"items"`
	PaymentMethod domain.PaymentMethod   `json:"paymentMethod"`
	AddressID     string                 `json:"addressId"`
}

type CreateCouponRequest struct {
	Code              string    `json:"code"`
	Discount          float64   `json:"discount"`
	MinPurchaseAmount float64   `json:"minPurchaseAmount"`
	StartingDate      time.Time `json:"startingDate"`
	ExpiryDate        time.Time `json:"expiryDate"`
	UsageLimit        *int      `json:"usageLimit"`
	UsageLimitPerUser int       `json:"usageLimitPerUser"`
	Categories        []string  `json:"categories"`
}

type CreateOfferRequest struct {
	OfferType  domain.OfferType `json:"offerType"`
	ProductID  string           `json:"productId"`
	CategoryID string           `json:"categoryId"`
	Discount   float64          `json:"discount"`
	EndDate    time.Time        `json:"endDate"`
}

type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type WalletTransactionRequest struct {
	Amount      float64                  `json:"amount"`
	Type        domain.TransactionType   `json:"type"`
	Status      domain.TransactionStatus `json:"status"`
	Description string                   `json:"description"`
}

type Handler struct {
	carts    *usecase.CartService
	checkout *usecase.CheckoutService
	coupons  *usecase.CouponService
	offers   *usecase.OfferService
	orders   *usecase.OrderService
	wallets  *usecase.WalletService
}

func NewHandler(
	carts *usecase.CartService,
	checkout *usecase.CheckoutService,
	coupons *usecase.CouponService,
	offers *usecase.OfferService,
	orders *usecase.OrderService,
	wallets *usecase.WalletService,
) *Handler {
	return &Handler{
		carts:    carts,
		checkout: checkout,
		coupons:  coupons,
		offers:   offers,
		orders:   orders,
		wallets:  wallets,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/cart", h.GetCart)
		r.Post("/cart/items", h.AddToCart)
		r.Put("/cart/items/{productID}", h.UpdateCartLine)
		r.Delete("/cart/items/{productID}", h.RemoveFromCart)
		r.Post("/cart/coupon", h.ApplyCoupon)
		r.Post("/checkout", h.Checkout)
		r.Get("/orders/{id}", h.GetOrder)
		r.Get("/wallet", h.GetWallet)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/coupons", h.CreateCoupon)
			r.Post("/offers", h.CreateOffer)
			r.Delete("/offers/{id}", h.DeleteOffer)
			r.Put("/orders/{id}/status", h.UpdateOrderStatus)
			r.Post("/wallets/{userID}/transactions", h.ApplyWalletTransaction)
		})
	})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCartPriced(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.carts.AddToCart(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	var req UpdateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := h.carts.UpdateCartLine(r.Context(), userID, productID, req.Quantity); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := h.carts.RemoveFromCart(r.Context(), userID, productID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	var req ApplyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.carts.ApplyCoupon(r.Context(), userID, req.Code)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), userID, req.Items, req.PaymentMethod, req.AddressID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userID(w, r)
	if !ok {
		return
	}

	wallet, err := h.wallets.GetWallet(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wallet)
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	coupon := &domain.Coupon{
		Code:              req.Code,
		Discount:          req.Discount,
		MinPurchaseAmount: req.MinPurchaseAmount,
		StartingDate:      req.StartingDate,
		ExpiryDate:        req.ExpiryDate,
		UsageLimit:        req.UsageLimit,
		UsageLimitPerUser: req.UsageLimitPerUser,
		Categories:        req.Categories,
	}
	if err := h.coupons.CreateCoupon(r.Context(), coupon); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, coupon)
}

func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	offer := &domain.Offer{
		OfferType:  req.OfferType,
		ProductID:  req.ProductID,
		CategoryID: req.CategoryID,
		Discount:   req.Discount,
		EndDate:    req.EndDate,
	}
	if err := h.offers.CreateOffer(r.Context(), offer); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, offer)
}

func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.offers.DeleteOffer(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ApplyWalletTransaction(w http.ResponseWriter, r *http.Request) {
	var req WalletTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	target := chi.URLParam(r, "userID")
	err := h.wallets.ApplyTransaction(r.Context(), target, req.Amount, req.Type, req.Status, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(userHeader)
	if id == "" {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrOfferNotFound),
		errors.Is(err, domain.ErrCouponNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrPerProductCap),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponUsageLimit),
		errors.Is(err, domain.ErrCouponPerUserLimit),
		errors.Is(err, domain.ErrBelowMinPurchase),
		errors.Is(err, domain.ErrCouponNotEligible),
		errors.Is(err, domain.ErrDuplicateCoupon):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrNoProductsInOrder),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrInvalidCoupon),
		errors.Is(err, domain.ErrInvalidOffer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
