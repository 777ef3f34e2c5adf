package domain

import "errors"

var (
	// ErrValidation marks malformed input (missing field, bad enum value).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unknown recipient, an unknown notification id, or
	// a notification not owned by the requesting recipient.
	ErrNotFound = errors.New("not found")

	// ErrDelivery marks a failed publish to the delivery channel. It is
	// logged inside the bus and never surfaced to producers; the store write
	// is the durability guarantee.
	ErrDelivery = errors.New("delivery failed")

	// ErrConnection marks a live-connection subscribe/unsubscribe failure.
	// Surfaced by closing the connection; the client reconnects and catches
	// up via the list query.
	ErrConnection = errors.New("connection failed")
)
