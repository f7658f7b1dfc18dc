package dto

import (
	"bytes"
	"strconv"
	"strings"
)

// Numeric accepts a JSON number or a numeric string. Anything that does
// not parse (including null) coerces to zero instead of rejecting the
// request, mirroring the lenient intake of the product form.
type Numeric float64

func (n *Numeric) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Numeric(value)
	return nil
}

type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity Numeric `json:"quantity"`
	Price    Numeric `json:"price"`
	Image    string  `json:"image"`
	Notes    string  `json:"notes"`
}
