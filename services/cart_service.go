package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/utils"
)

// CartError is a cart/checkout validation failure the caller can branch on.
type CartError struct {
	Code    string
	Message string
}

func (e *CartError) Error() string {
	return e.Message
}

// ErrCartNotFound is returned for unknown or already checked-out carts.
var ErrCartNotFound = &CartError{Code: "CART_NOT_FOUND", Message: "Cart not found"}

// CartLine is one (product, quantity) pair in a cart.
type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Cart is session state held only in memory; nothing is persisted server-side
// until checkout materializes an order.
type Cart struct {
	ID        string     `json:"id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
}

var (
	cartsMu sync.Mutex
	carts   = make(map[string]*Cart)
)

// CreateCart opens a new empty cart session.
func CreateCart() *Cart {
	cart := &Cart{
		ID:        utils.NewCartID(),
		Lines:     []CartLine{},
		CreatedAt: time.Now(),
	}
	cartsMu.Lock()
	carts[cart.ID] = cart
	cartsMu.Unlock()
	return cart
}

// GetCart returns a snapshot of the cart's current lines.
func GetCart(cartID string) (*Cart, error) {
	cartsMu.Lock()
	defer cartsMu.Unlock()
	cart, ok := carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	snapshot := &Cart{ID: cart.ID, CreatedAt: cart.CreatedAt, Lines: append([]CartLine{}, cart.Lines...)}
	return snapshot, nil
}

// ResetCartsForTesting drops all cart sessions.
func ResetCartsForTesting() {
	cartsMu.Lock()
	carts = make(map[string]*Cart)
	cartsMu.Unlock()
}

// AddToCart adds one unit of a product. Out-of-stock products are rejected,
// and an increment past the product's current stock is refused leaving the
// existing line unchanged.
func AddToCart(cartID string, productID uint) error {
	var product models.Product
	if err := config.GetDB().First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found"}
		}
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product.Stock <= 0 {
		return &CartError{Code: "OUT_OF_STOCK", Message: "Product is out of stock"}
	}

	cartsMu.Lock()
	defer cartsMu.Unlock()
	cart, ok := carts[cartID]
	if !ok {
		return ErrCartNotFound
	}

	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			if cart.Lines[i].Quantity+1 > product.Stock {
				return &CartError{Code: "STOCK_LIMIT", Message: "Stock limit reached for this product"}
			}
			cart.Lines[i].Quantity++
			return nil
		}
	}

	cart.Lines = append(cart.Lines, CartLine{ProductID: productID, Quantity: 1})
	return nil
}

// UpdateQuantity applies a signed delta to a cart line. Updates that would
// drop the quantity to zero or below, or push it past the product's current
// stock, are silently ignored; no partial clamping.
func UpdateQuantity(cartID string, productID uint, delta int) error {
	var product models.Product
	if err := config.GetDB().First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found"}
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	cartsMu.Lock()
	defer cartsMu.Unlock()
	cart, ok := carts[cartID]
	if !ok {
		return ErrCartNotFound
	}

	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			next := cart.Lines[i].Quantity + delta
			if next <= 0 || next > product.Stock {
				return nil
			}
			cart.Lines[i].Quantity = next
			return nil
		}
	}
	return nil
}

// RemoveFromCart removes a line unconditionally.
func RemoveFromCart(cartID string, productID uint) error {
	cartsMu.Lock()
	defer cartsMu.Unlock()
	cart, ok := carts[cartID]
	if !ok {
		return ErrCartNotFound
	}

	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			return nil
		}
	}
	return nil
}

// CheckoutRequest carries everything checkout needs beyond the cart itself.
// Location is either the structured fields (municipality/province from a
// selected suggestion) or the free-text search input.
type CheckoutRequest struct {
	CustomerName   string `json:"customer_name"`
	Phone          string `json:"phone"`
	Neighborhood   string `json:"neighborhood"`
	Municipality   string `json:"municipality"`
	Province       string `json:"province"`
	AddressDetails string `json:"address_details"`
	LocationQuery  string `json:"location_query"`
	PaymentMethod  string `json:"payment_method"`
}

// CheckoutResult is the durably created order plus the pre-filled messaging
// link the storefront opens for the shopper.
type CheckoutResult struct {
	Order        *models.Order `json:"order"`
	WhatsAppLink string        `json:"whatsapp_link"`
}

// Checkout materializes the cart into an order with status PEDIDO.
//
// Stock is decremented with a conditional update (never below zero) inside
// the same transaction that creates the order, so two simultaneous checkouts
// cannot oversubscribe limited stock. The cart is cleared only after the
// order exists; any failure leaves the cart intact for a retry.
func Checkout(cartID string, req CheckoutRequest) (*CheckoutResult, error) {
	cartsMu.Lock()
	cart, ok := carts[cartID]
	var lines []CartLine
	if ok {
		lines = append([]CartLine{}, cart.Lines...)
	}
	cartsMu.Unlock()
	if !ok {
		return nil, ErrCartNotFound
	}

	if len(lines) == 0 {
		return nil, &CartError{Code: "EMPTY_CART", Message: "Cart is empty"}
	}
	if req.CustomerName == "" {
		return nil, &CartError{Code: "VALIDATION_ERROR", Message: "Customer name is required"}
	}
	if !utils.IsValidPhone(req.Phone) {
		return nil, &CartError{Code: "INVALID_PHONE", Message: "Phone number must have 9 digits"}
	}
	if req.Municipality == "" && req.Province == "" && req.LocationQuery == "" {
		return nil, &CartError{Code: "MISSING_LOCATION", Message: "A delivery location is required"}
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, &CartError{Code: "INVALID_PAYMENT_METHOD", Message: "Unknown payment method"}
	}

	addressDetails := req.AddressDetails
	if addressDetails == "" {
		addressDetails = req.LocationQuery
	}

	var order models.Order
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		items := make([]models.OrderItem, 0, len(lines))
		var amount float64

		for _, line := range lines {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &CartError{Code: "PRODUCT_NOT_FOUND", Message: "A product in the cart no longer exists"}
				}
				return fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
			}

			// Conditional decrement: only succeeds when enough stock remains.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %d: %w", line.ProductID, result.Error)
			}
			if result.RowsAffected == 0 {
				return &CartError{
					Code:    "INSUFFICIENT_STOCK",
					Message: fmt.Sprintf("Not enough stock for %s", product.Name),
				}
			}

			productID := product.ID
			unitPrice := product.EffectivePrice()
			amount += unitPrice * float64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID:     &productID,
				ProductName:   product.Name,
				ProductImage:  product.ImageURL,
				UnitPrice:     unitPrice,
				Quantity:      line.Quantity,
				CommissionPct: product.DeliveryCommissionPct,
			})
		}

		order = models.Order{
			CustomerName:   req.CustomerName,
			CustomerPhone:  utils.NormalizePhone(req.Phone),
			Neighborhood:   req.Neighborhood,
			Municipality:   req.Municipality,
			Province:       req.Province,
			AddressDetails: addressDetails,
			Items:          items,
			Amount:         amount,
			PaymentMethod:  req.PaymentMethod,
			Status:         models.StatusRequest,
		}

		// The unique index on delivery_token is the real guarantee; the retry
		// only smooths over the astronomically rare collision.
		for attempt := 0; attempt < 5; attempt++ {
			order.ID = utils.NewOrderID()
			order.DeliveryToken = utils.NewDeliveryToken()

			var clashes int64
			if err := tx.Model(&models.Order{}).
				Where("id = ? OR delivery_token = ?", order.ID, order.DeliveryToken).
				Count(&clashes).Error; err != nil {
				return fmt.Errorf("failed to check order id uniqueness: %w", err)
			}
			if clashes == 0 {
				break
			}
			if attempt == 4 {
				return errors.New("could not generate a unique order id")
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Durably created: clear the cart now.
	cartsMu.Lock()
	delete(carts, cartID)
	cartsMu.Unlock()

	storeName := "Brilho Essenza"
	businessNumber := ""
	if cache := GetSettingsCache(); cache != nil {
		storeName = cache.GetOrDefault(SettingStoreName, storeName)
		businessNumber = cache.GetOrDefault(SettingBusinessWhatsapp, "")
	}
	if businessNumber == "" {
		if cfg := config.GetConfig(); cfg != nil {
			businessNumber = cfg.WhatsAppNumber
		}
	}

	message := OrderSummaryMessage(&order, storeName)
	return &CheckoutResult{
		Order:        &order,
		WhatsAppLink: WhatsAppLink(businessNumber, message),
	}, nil
}
