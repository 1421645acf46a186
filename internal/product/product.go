package product

// Product represents a catalog row and maps to the `products` table.
// Stock is the live counter shared by every concurrent checkout; reads
// outside a transaction are advisory only.
type Product struct {
	ID          int     `json:"productId"`
	Name        string  `json:"productName"`
	Description *string `json:"productDesc,omitempty"`
	Price       float64 `json:"productPrice"`
	Stock       int     `json:"stock"`
	Img         *string `json:"productImg,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}
