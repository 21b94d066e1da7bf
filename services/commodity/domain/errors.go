package domain

import "errors"

// Sentinel errors for the commodity domain. Use errors.Is() to check these.
var (
	// ErrAlreadyExists indicates a mint was attempted for an item that already exists.
	ErrAlreadyExists = errors.New("commodity already exists")

	// ErrDoesNotExist indicates a burn or transfer targeted an item that is not minted.
	ErrDoesNotExist = errors.New("commodity does not exist")

	// ErrNotTheOwner indicates the claimed owner's index does not contain the item.
	ErrNotTheOwner = errors.New("account is not the owner of the commodity")

	// ErrOwnerMismatch indicates the owner map records a different owner than the one
	// claimed, although the claimed owner's index lists the item.
	ErrOwnerMismatch = errors.New("commodity owner mismatch")

	// ErrIndexCorrupted indicates an index entry expected to contain an item did not.
	ErrIndexCorrupted = errors.New("account index corrupted")

	// ErrCounterOverflow indicates the live item counter cannot move any further.
	ErrCounterOverflow = errors.New("live commodity counter overflow")

	// ErrUnsigned indicates an operation was invoked without an authenticated caller.
	ErrUnsigned = errors.New("caller is not authenticated")

	// ErrInvalidCommodityID indicates a malformed commodity identifier.
	ErrInvalidCommodityID = errors.New("invalid commodity id")

	// ErrInvalidAccountID indicates a malformed account identifier.
	ErrInvalidAccountID = errors.New("invalid account id")
)
