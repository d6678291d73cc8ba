package main

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// checkFlags holds command flags to the same rules as the HTTP request bodies.
func checkFlags(req validation.Validatable) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
