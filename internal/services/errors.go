package services

import "errors"

// Sentinel errors surfaced by the engines. Handlers map these onto HTTP
// statuses; none of them leave partial mutations behind.
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrCourierNotFound    = errors.New("courier not found")
	ErrIllegalTransition  = errors.New("status transition not allowed")
	ErrWindowExpired      = errors.New("cancellation window expired")
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrOrderClaimed means a conditional assignment lost to a concurrent
	// writer: the order already carries a courier.
	ErrOrderClaimed = errors.New("order already claimed")

	// ErrStatusConflict means the order status changed between read and
	// write; the caller should reload and retry.
	ErrStatusConflict = errors.New("order changed concurrently")

	ErrNoClaimRequest     = errors.New("no pending claim request")
	ErrNotOrderCourier    = errors.New("order is held by another courier")
	ErrNotOrderCustomer   = errors.New("order belongs to another customer")
	ErrReceiptRequired    = errors.New("branch-assigned order not confirmed by courier")
	ErrCourierNotEligible = errors.New("courier is not approved or off duty")
)
