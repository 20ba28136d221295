package domain

import (
	"strings"
	"time"
)

// Product is a catalog entry. DiscountedPrice and HasOffer are denormalized
// from the currently best offer and refreshed whenever offers change.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DiscountedPrice float64   `json:"discountedPrice"`
	HasOffer        bool      `json:"hasOffer"`
	Stock           int       `json:"stock"`
	CategoryID      string    `json:"categoryId"`
	CategoryName    string    `json:"categoryName"`
	BrandID         string    `json:"brandId"`
	BrandName       string    `json:"brandName"`
	CreatedAt       time.Time `json:"createdAt"`
}

type OfferType string

const (
	OfferTypeProduct  OfferType = "product"
	OfferTypeCategory OfferType = "category"
)

// MaxOfferDiscount caps the percentage an admin can put on any offer.
const MaxOfferDiscount = 80.0

// Offer discounts either a single product or every product of a category.
// Exactly one of ProductID / CategoryID is set, matching OfferType.
type Offer struct {
	ID         string    `json:"id"`
	OfferType  OfferType `json:"offerType"`
	ProductID  string    `json:"productId,omitempty"`
	CategoryID string    `json:"categoryId,omitempty"`
	Discount   float64   `json:"discount"`
	EndDate    time.Time `json:"endDate"`
	IsActive   bool      `json:"isActive"`
}

// Valid reports whether the offer can be applied at the given instant.
func (o *Offer) Valid(now time.Time) bool {
	return o != nil && o.IsActive && o.EndDate.After(now)
}

// AllCategories is the sentinel entry making a coupon eligible everywhere.
const AllCategories = "All"

// Coupon codes are stored uppercase. IsActive is always recomputed from
// (ExpiryDate, UsageLimit, UsageCount) via Active, never set on its own.
type Coupon struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	Discount          float64   `json:"discount"`
	MinPurchaseAmount float64   `json:"minPurchaseAmount"`
	StartingDate      time.Time `json:"startingDate"`
	ExpiryDate        time.Time `json:"expiryDate"`
	UsageLimit        *int      `json:"usageLimit"` // nil = unlimited
	UsageCount        int       `json:"usageCount"`
	UsageLimitPerUser int       `json:"usageLimitPerUser"`
	Categories        []string  `json:"categories"`
	IsActive          bool      `json:"isActive"`
}

// Active recomputes the derived active flag.
func (c *Coupon) Active(now time.Time) bool {
	if !c.ExpiryDate.After(now) {
		return false
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return false
	}
	return true
}

// EligibleFor reports whether the coupon can apply to a product of the
// given category. An empty set or the AllCategories sentinel means any;
// the sentinel matches regardless of case.
func (c *Coupon) EligibleFor(category string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, name := range c.Categories {
		if strings.EqualFold(name, AllCategories) || name == category {
			return true
		}
	}
	return false
}

// MaxUnitsPerProduct caps how many units of one product a cart may hold.
const MaxUnitsPerProduct = 5

// CartLine is one (product, quantity) pair in a user's cart.
type CartLine struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

// Cart holds a user's in-progress lines. TotalAmount is a cache recomputed
// from current product prices on every persist, never the source of truth.
type Cart struct {
	UserID      string     `json:"userId"`
	Lines       []CartLine `json:"lines"`
	CouponCode  string     `json:"couponCode,omitempty"`
	TotalAmount float64    `json:"totalAmount"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentOnline         PaymentMethod = "online"
	PaymentWallet         PaymentMethod = "wallet"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturnPending  OrderStatus = "return_pending"
	OrderStatusReturnApproved OrderStatus = "return_approved"
	OrderStatusReturnRejected OrderStatus = "return_rejected"
)

// OrderItem snapshots the price charged at commit time; it is never
// recomputed afterwards.
type OrderItem struct {
	ProductID     string      `json:"productId"`
	Name          string      `json:"name"`
	CategoryName  string      `json:"categoryName"`
	BrandName     string      `json:"brandName"`
	Quantity      int         `json:"quantity"`
	Price         float64     `json:"price"`
	OriginalPrice float64     `json:"originalPrice"`
	Status        OrderStatus `json:"status"`
}

// Order is an immutable commit-time snapshot; only status transitions
// mutate it after creation.
type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	AddressID       string        `json:"addressId"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Items           []OrderItem   `json:"items"`
	Status          OrderStatus   `json:"status"`
	TotalAmount     float64       `json:"totalAmount"`
	CouponCode      string        `json:"couponCode,omitempty"`
	CouponDeduction float64       `json:"couponDeduction"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// WalletTransaction is one row of a wallet's append-only ledger.
type WalletTransaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
}

// Wallet balance equals the sum of completed credits minus completed
// debits and never goes negative.
type Wallet struct {
	UserID       string              `json:"userId"`
	Balance      float64             `json:"balance"`
	Transactions []WalletTransaction `json:"transactions"`
}

// SalesReportEntry is one denormalized reporting row per order line,
// kept in sync with the order status one-way.
type SalesReportEntry struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"orderId"`
	UserID          string      `json:"userId"`
	ProductName     string      `json:"productName"`
	CategoryName    string      `json:"categoryName"`
	BrandName       string      `json:"brandName"`
	Quantity        int         `json:"quantity"`
	UnitPrice       float64     `json:"unitPrice"`
	TotalPrice      float64     `json:"totalPrice"`
	Discount        float64     `json:"discount"`
	CouponDeduction float64     `json:"couponDeduction"`
	OrderStatus     OrderStatus `json:"orderStatus"`
	Date            time.Time   `json:"date"`
}
