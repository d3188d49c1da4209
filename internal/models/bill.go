package models

import (
	"encoding/json"
	"time"
)

// CustomerType classifies customers for revenue segmentation.
type CustomerType string

const (
	CustomerTypeNormal   CustomerType = "normal"
	CustomerTypeRetailer CustomerType = "retailer"
)

// BillItem is a single line of a bill. The product is referenced by name or
// by identifier; both may be set.
type BillItem struct {
	ProductName string  `db:"product_name" json:"productName"`
	ProductID   string  `db:"product_id" json:"productId"`
	Price       float64 `db:"price" json:"price"`
	Quantity    int     `db:"quantity" json:"quantity"`
}

type billItemWire struct {
	ProductName Text   `json:"productName"`
	ProductID   ID     `json:"productId"`
	Price       Number `json:"price"`
	Quantity    Number `json:"quantity"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *BillItem) UnmarshalJSON(data []byte) error {
	var w billItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*i = BillItem{
		ProductName: string(w.ProductName),
		ProductID:   string(w.ProductID),
		Price:       w.Price.Float(),
		Quantity:    w.Quantity.Int(),
	}
	return nil
}

// Bill is an issued invoice. Total is authoritative for revenue; Items are
// only consulted for profit.
type Bill struct {
	ID           string       `db:"id" json:"id"`
	BillNo       string       `db:"bill_no" json:"billNo"`
	CustomerName string       `db:"customer_name" json:"customerName"`
	CustomerType CustomerType `db:"customer_type" json:"customerType"`
	Date         time.Time    `db:"issued_at" json:"date"`
	Items        []BillItem   `db:"-" json:"items"`
	Total        float64      `db:"total" json:"total"`

	// floating marks a Date sent without an offset; its wall clock is stored
	// in UTC and belongs to whatever zone the shop runs in.
	floating bool
}

// IssuedIn returns the issue time in loc. Floating dates are read as wall-clock
// times of loc rather than converted from UTC.
func (b Bill) IssuedIn(loc *time.Location) time.Time {
	if !b.floating {
		return b.Date.In(loc)
	}
	d := b.Date
	return time.Date(d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), loc)
}

type billJSON Bill

// MarshalJSON implements json.Marshaler. Floating dates are written without an
// offset so they decode as floating again.
func (b Bill) MarshalJSON() ([]byte, error) {
	var date any = b.Date
	if b.floating {
		date = b.Date.Format(floatingLayout)
	}
	return json.Marshal(struct {
		billJSON
		Date any `json:"date"`
	}{billJSON(b), date})
}

type billWire struct {
	ID           ID              `json:"id"`
	AltID        ID              `json:"_id"`
	BillNo       Text            `json:"billNo"`
	CustomerName Text            `json:"customerName"`
	CustomerType Text            `json:"customerType"`
	Date         json.RawMessage `json:"date"`
	Items        List[BillItem]  `json:"items"`
	Total        Number          `json:"total"`
}

// UnmarshalJSON implements json.Unmarshaler. A non-array items field is
// treated as no items.
func (b *Bill) UnmarshalJSON(data []byte) error {
	var w billWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := string(w.ID)
	if id == "" {
		id = string(w.AltID)
	}
	date, floating := parseTimestamp(w.Date)
	*b = Bill{
		ID:           id,
		BillNo:       string(w.BillNo),
		CustomerName: string(w.CustomerName),
		CustomerType: CustomerType(w.CustomerType),
		Date:         date,
		Items:        []BillItem(w.Items),
		Total:        w.Total.Float(),
		floating:     floating,
	}
	return nil
}

// RecentBill is the abbreviated bill listed in the server summary.
type RecentBill struct {
	BillNo       string       `json:"billNo"`
	CustomerName string       `json:"customerName"`
	CustomerType CustomerType `json:"customerType"`
	Date         time.Time    `json:"date"`
	Total        float64      `json:"total"`
}

type recentBillWire struct {
	BillNo       Text            `json:"billNo"`
	CustomerName Text            `json:"customerName"`
	CustomerType Text            `json:"customerType"`
	Date         json.RawMessage `json:"date"`
	Total        Number          `json:"total"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RecentBill) UnmarshalJSON(data []byte) error {
	var w recentBillWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = RecentBill{
		BillNo:       string(w.BillNo),
		CustomerName: string(w.CustomerName),
		CustomerType: CustomerType(w.CustomerType),
		Date:         ParseTimestamp(w.Date),
		Total:        w.Total.Float(),
	}
	return nil
}
