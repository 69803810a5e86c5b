package billing

import "errors"

// Billing error taxonomy. Handlers map these onto HTTP statuses; everything else
// surfaces as an internal error and rolls the submission back.
var (
	// ErrNotFound covers a missing student, class, account or billing record.
	ErrNotFound = errors.New("not found")

	// ErrMissingFeeSchedule means the student's class has no fee schedule. This is a
	// hard stop: no bill can be produced until an administrator creates one.
	ErrMissingFeeSchedule = errors.New("no fee schedule exists for the student's class")

	// ErrAlreadySettled blocks a duplicate payment against a record that has zero
	// dues and no new charges.
	ErrAlreadySettled = errors.New("billing record is already settled")

	// ErrPaymentSplitMismatch means cashPaid + onlinePaid does not equal amountPaid.
	ErrPaymentSplitMismatch = errors.New("cash and online amounts do not add up to the amount paid")

	// ErrMissingOnlineAccount means an online portion was submitted without an
	// active receiving account.
	ErrMissingOnlineAccount = errors.New("online payment requires an active receiving account")

	// ErrInvalidAmount rejects negative or otherwise unusable monetary input.
	ErrInvalidAmount = errors.New("invalid monetary amount")

	// ErrRecordExists is returned by the storage layer when inserting a billing
	// record collides with the unique (student, month, year) index. The commit path
	// treats it as "switch to the update path", never as a fatal error.
	ErrRecordExists = errors.New("billing record already exists for this period")
)
