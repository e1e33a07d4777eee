package service

import (
	"math"
	"strings"

	"sweet-shop/internal/model"
	"sweet-shop/internal/validation"
)

// Quantities fit a PostgreSQL INTEGER, prices a DECIMAL(10,2) and text
// fields their VARCHAR columns.
const (
	quantityRule = "gte=0,lte=2147483647"
	priceRule    = "gte=0,lte=99999999.99"
	nameRule     = "required,max=255"
	categoryRule = "required,max=100"
	passwordRule = "required,min=6"
)

// maxPasswordBytes is the longest input bcrypt accepts. validator's max
// counts runes, so the byte length is checked separately.
const maxPasswordBytes = 72

func validateRegister(v *validation.Validator, email, password string) error {
	return v.Check().
		Var("email", email, "required,email").
		Var("password", password, passwordRule).
		Require(len(password) <= maxPasswordBytes, "password", "password must be at most 72 bytes").
		Err()
}

func validateLogin(v *validation.Validator, email, password string) error {
	return v.Check().
		Var("email", email, "required,email").
		Var("password", password, "required").
		Err()
}

func validateCreateSweet(v *validation.Validator, req *model.CreateSweetRequest) error {
	if req == nil {
		return model.ErrInvalidBody
	}

	c := v.Check().
		Var("name", strings.TrimSpace(req.Name), nameRule).
		Var("category", strings.TrimSpace(req.Category), categoryRule).
		Require(req.Price != nil, "price", "price is required").
		Require(req.Quantity != nil, "quantity", "quantity is required")

	if req.Price != nil {
		c.Var("price", *req.Price, priceRule)
	}
	if req.Quantity != nil {
		c.Var("quantity", *req.Quantity, quantityRule)
	}
	if req.ImageURL != nil {
		c.Var("imageUrl", strings.TrimSpace(*req.ImageURL), "http_url")
	}

	return c.Err()
}

// validateUpdateSweet applies the create rules to the supplied fields only.
func validateUpdateSweet(v *validation.Validator, req *model.UpdateSweetRequest) error {
	if req == nil {
		return model.ErrInvalidBody
	}

	c := v.Check()
	if req.Name != nil {
		c.Var("name", strings.TrimSpace(*req.Name), nameRule)
	}
	if req.Category != nil {
		c.Var("category", strings.TrimSpace(*req.Category), categoryRule)
	}
	if req.Price != nil {
		c.Var("price", *req.Price, priceRule)
	}
	if req.Quantity != nil {
		c.Var("quantity", *req.Quantity, quantityRule)
	}
	if req.ImageURL != nil {
		c.Var("imageUrl", strings.TrimSpace(*req.ImageURL), "http_url")
	}

	return c.Err()
}

func validateStock(v *validation.Validator, req *model.StockRequest) error {
	if req == nil {
		return model.ErrInvalidBody
	}

	c := v.Check().Require(req.Quantity != nil, "quantity", "quantity is required")
	if req.Quantity != nil {
		c.Var("quantity", *req.Quantity, "min=1,lte=2147483647")
	}
	return c.Err()
}

func validateFilter(v *validation.Validator, f model.SweetFilter) error {
	c := v.Check()
	if f.MinPrice != nil {
		c.Var("minPrice", *f.MinPrice, "gte=0")
	}
	if f.MaxPrice != nil {
		c.Var("maxPrice", *f.MaxPrice, "gte=0")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && c.Valid() {
		c.Require(*f.MinPrice <= *f.MaxPrice, "minPrice", "minPrice must be less than or equal to maxPrice")
	}
	return c.Err()
}

// roundPrice rounds to the two decimal places stored by the catalogue.
func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

// trimmed returns a pointer to the trimmed value of s, or nil when s is nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
