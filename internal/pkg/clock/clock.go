// Package clock stamps stored records with their write time
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/lorelegacy/internal/pkg/clock Clock

// Clock tells the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// New returns the wall clock
func New() Clock {
	return systemClock{}
}

// Fixed is a Clock stopped at a given instant
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant
func (c Fixed) Now() time.Time {
	return c.At
}
