package models

import "encoding/json"

// Customer is a registered shop customer.
type Customer struct {
	ID   string       `db:"id" json:"id"`
	Name string       `db:"name" json:"name"`
	Type CustomerType `db:"type" json:"type"`
}

type customerWire struct {
	ID    ID   `json:"id"`
	AltID ID   `json:"_id"`
	Name  Text `json:"name"`
	Type  Text `json:"type"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Customer) UnmarshalJSON(data []byte) error {
	var w customerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := string(w.ID)
	if id == "" {
		id = string(w.AltID)
	}
	*c = Customer{ID: id, Name: string(w.Name), Type: CustomerType(w.Type)}
	return nil
}
