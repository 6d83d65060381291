package models

import "time"

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool { return m == PaymentCOD || m == PaymentCard }

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryShipped   DeliveryStatus = "SHIPPED"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	// DeliveryExpired marks an unpaid card order whose reservation was released.
	DeliveryExpired DeliveryStatus = "EXPIRED"
)

// Order is the model for the 'orders' table
type Order struct {
	ID             int64          `json:"id" db:"id"`
	UserID         int64          `json:"userId" db:"user_id"`
	AddressID      int64          `json:"addressId" db:"address_id"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod" db:"payment_method"`
	ShippingMethod string         `json:"shippingMethod" db:"shipping_method"`
	WrappingOption string         `json:"wrappingOption" db:"wrapping_option"`
	GiftMessage    string         `json:"giftMessage,omitempty" db:"gift_message"`
	Subtotal       int64          `json:"subtotal" db:"subtotal"`
	ShippingCost   int64          `json:"shippingCost" db:"shipping_cost"`
	WrapCost       int64          `json:"wrapCost" db:"wrap_cost"`
	TotalAmount    int64          `json:"totalAmount" db:"total_amount"`
	IsPaid         bool           `json:"isPaid" db:"is_paid"`
	DeliveryStatus DeliveryStatus `json:"deliveryStatus" db:"delivery_status"`
	FromCart       bool           `json:"fromCart" db:"from_cart"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`

	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// SellerIDs returns the distinct sellers whose products are on the order.
func (o *Order) SellerIDs() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, it := range o.Items {
		if !seen[it.SellerID] {
			seen[it.SellerID] = true
			ids = append(ids, it.SellerID)
		}
	}
	return ids
}

// OrderItem is the model for the 'order_items' table. Rows are never updated.
type OrderItem struct {
	ID        int64     `json:"id" db:"id"`
	OrderID   int64     `json:"orderId" db:"order_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	SellerID  int64     `json:"sellerId" db:"seller_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     int64     `json:"price" db:"price"` // Unit price at the time of purchase
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	ProductName  string `json:"productName,omitempty" db:"-"`
	ProductImage string `json:"productImage,omitempty" db:"-"`
}

// SellerOrderLine is one order line as shown in the seller panel.
type SellerOrderLine struct {
	OrderID        int64          `json:"orderId"`
	ProductID      int64          `json:"productId"`
	ProductName    string         `json:"productName"`
	Quantity       int            `json:"quantity"`
	Price          int64          `json:"price"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	IsPaid         bool           `json:"isPaid"`
	DeliveryStatus DeliveryStatus `json:"deliveryStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
}
