package domain

import (
	"fmt"
	"strings"
	"time"
)

type Passenger struct {
	ID        int64
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}

func (p *Passenger) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if len(p.Phone) != 10 || strings.Trim(p.Phone, "0123456789") != "" {
		return fmt.Errorf("%w: phone must be 10 digits", ErrInvalidInput)
	}
	return nil
}
