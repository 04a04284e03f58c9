package service

import (
	"testing"

	"github.com/atelier-next/internal/constants"
)

func TestCanTransitionOrderStatus(t *testing.T) {
	allowed := []struct{ from, to string }{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed},
		{constants.OrderStatusPending, constants.OrderStatusCancelled},
		{constants.OrderStatusConfirmed, constants.OrderStatusProcessing},
		{constants.OrderStatusProcessing, constants.OrderStatusShipped},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered},
		{constants.OrderStatusShipped, constants.OrderStatusReturned},
		{constants.OrderStatusDelivered, constants.OrderStatusReturned},
		{constants.OrderStatusProcessing, constants.OrderStatusCancelled},
	}
	for _, tc := range allowed {
		if !CanTransitionOrderStatus(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	blocked := []struct{ from, to string }{
		{constants.OrderStatusPending, constants.OrderStatusShipped},
		{constants.OrderStatusPending, constants.OrderStatusDelivered},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled},
		{constants.OrderStatusCancelled, constants.OrderStatusConfirmed},
		{constants.OrderStatusReturned, constants.OrderStatusPending},
		{constants.OrderStatusConfirmed, constants.OrderStatusConfirmed},
	}
	for _, tc := range blocked {
		if CanTransitionOrderStatus(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be blocked", tc.from, tc.to)
		}
	}
}

func TestNormalizeOrderStatus(t *testing.T) {
	if got := NormalizeOrderStatus("  Shipped "); got != constants.OrderStatusShipped {
		t.Fatalf("expected shipped, got %q", got)
	}
	if got := NormalizeOrderStatus(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if IsValidOrderStatus("archived") {
		t.Fatalf("expected archived to be invalid")
	}
	if !IsValidOrderStatus(constants.OrderStatusReturned) {
		t.Fatalf("expected returned to be valid")
	}
}
