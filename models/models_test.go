package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestIsValidTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatus("bogus"), OrderStatusPending, false},
	}

	for _, tc := range cases {
		if got := IsValidTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("IsValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCartLineSameVariant(t *testing.T) {
	pid := uuid.New()
	line := CartLine{ProductID: pid, SizeID: "m", ColorID: "red"}

	if !line.SameVariant(pid, "m", "red") {
		t.Error("expected same variant to match")
	}
	if line.SameVariant(pid, "l", "red") {
		t.Error("different size should not match")
	}
	if line.SameVariant(pid, "m", "blue") {
		t.Error("different color should not match")
	}
	if line.SameVariant(uuid.New(), "m", "red") {
		t.Error("different product should not match")
	}
}

func TestCartItemCount(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{Quantity: 2},
		{Quantity: 3},
	}}
	if got := cart.ItemCount(); got != 5 {
		t.Errorf("expected item count 5, got %d", got)
	}

	empty := Cart{}
	if got := empty.ItemCount(); got != 0 {
		t.Errorf("expected item count 0 for empty cart, got %d", got)
	}
}
