package kudos

import "errors"

var (
	// ErrInsufficientBalance is returned when the sender has no kudos left
	// to give, including when the balance hits zero between the precondition
	// check and the guarded decrement.
	ErrInsufficientBalance = errors.New("no kudos available to give")

	// ErrSelfKudos is returned when a user tries to give kudos to themselves.
	ErrSelfKudos = errors.New("cannot give kudos to yourself")

	// ErrCrossOrganization is returned when the receiver belongs to a
	// different organization than the sender.
	ErrCrossOrganization = errors.New("can only give kudos to users in your organization")

	// ErrReceiverNotFound is returned when the receiver does not exist or is
	// inactive.
	ErrReceiverNotFound = errors.New("receiver not found")

	// ErrKudosNotFound is returned when a transfer record does not exist or
	// is outside the caller's organization.
	ErrKudosNotFound = errors.New("kudos not found")
)
