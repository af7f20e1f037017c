package models

// OrderItem is one line of an order submission: the product reference plus
// how many units were in the cart when the shopper checked out.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderRequest is the POST /orders body.
type OrderRequest struct {
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []OrderItem `json:"items"`
}
