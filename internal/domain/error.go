package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidMenuReference = errors.New("menu entry does not exist or is not active")
	ErrDuplicateBooking     = errors.New("student already holds a booking for this menu entry")
	ErrMenuSoldOut          = errors.New("menu entry has no capacity left")
	ErrNotPaid              = errors.New("booking is not paid; collect payment first")
	ErrAlreadyPaid          = errors.New("booking is already paid")
	ErrAlreadyRedeemed      = errors.New("ticket has already been redeemed")
	ErrStaleStatus          = errors.New("booking status changed concurrently")
	ErrCodeTaken            = errors.New("ticket code already assigned")
	ErrLockBusy             = errors.New("another terminal is handling this ticket")
	ErrReadDatabaseRow      = errors.New("failed to read database row")
	ErrOperationFailed      = errors.New("operation failed")
	ErrInvalidExecContext   = errors.New("invalid database execution context")
)
