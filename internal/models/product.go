package models

import "encoding/json"

// Product represents a catalogue entry of the shop.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID           string  `db:"id" json:"id"`
	AltID        string  `db:"alt_id" json:"_id,omitempty"`
	Name         string  `db:"name" json:"name"`
	Stock        float64 `db:"stock" json:"stock"`
	BuyingPrice  float64 `db:"buying_price" json:"buyingPrice"`
	SellingPrice float64 `db:"selling_price" json:"sellingPrice"`
}

type productWire struct {
	ID           ID     `json:"id"`
	AltID        ID     `json:"_id"`
	Name         Text   `json:"name"`
	Stock        Number `json:"stock"`
	BuyingPrice  Number `json:"buyingPrice"`
	SellingPrice Number `json:"sellingPrice"`
}

// UnmarshalJSON decodes a product leniently; missing numbers become zero.
func (p *Product) UnmarshalJSON(data []byte) error {
	var w productWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Product{
		ID:           string(w.ID),
		AltID:        string(w.AltID),
		Name:         string(w.Name),
		Stock:        w.Stock.Float(),
		BuyingPrice:  w.BuyingPrice.Float(),
		SellingPrice: w.SellingPrice.Float(),
	}
	return nil
}
