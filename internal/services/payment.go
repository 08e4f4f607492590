package services

import (
	"fmt"
	"math/rand"
)

// PaymentProvider is an opaque collaborator: it may fail, and a failure
// must leave the order uncommitted.
type PaymentProvider interface {
	Process(amount float64) error
}

type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

// SimulatedPayment draws a random success/failure. Tests wanting a
// deterministic outcome should inject their own PaymentProvider instead.
type SimulatedPayment struct {
	FailureRate float64
	rng         *rand.Rand
}

func NewSimulatedPayment(failureRate float64, seed int64) *SimulatedPayment {
	return &SimulatedPayment{
		FailureRate: failureRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (p *SimulatedPayment) Process(amount float64) error {
	if amount < 0 {
		return &PaymentError{Reason: "negative amount"}
	}
	if p.rng.Float64() < p.FailureRate {
		return &PaymentError{Reason: "card declined"}
	}
	return nil
}
