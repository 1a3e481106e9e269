package economy

import "errors"

// Kind classifies a domain error for transport mapping and retry policy.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindInsufficient
	KindInvalidState
	KindTransient
	KindInternal
)

// Error is a kind-tagged domain error. Transient errors are safe to retry:
// an operation that fails performs no mutation.
type Error struct {
	Kind Kind
	Code string
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

var (
	ErrCharacterNotFound = &Error{Kind: KindNotFound, Code: "character_not_found", msg: "character not found"}
	ErrItemNotFound      = &Error{Kind: KindNotFound, Code: "item_not_found", msg: "item not found"}
	ErrInventoryNotFound = &Error{Kind: KindNotFound, Code: "inventory_not_found", msg: "item not held in inventory"}

	ErrItemExists      = &Error{Kind: KindConflict, Code: "item_exists", msg: "item code or name already exists"}
	ErrNameTaken       = &Error{Kind: KindConflict, Code: "name_taken", msg: "character name already taken"}
	ErrAlreadyEquipped = &Error{Kind: KindConflict, Code: "already_equipped", msg: "item is already equipped"}

	ErrInsufficientFunds = &Error{Kind: KindInsufficient, Code: "insufficient_funds", msg: "wallet balance is too low"}
	ErrInsufficientStock = &Error{Kind: KindInsufficient, Code: "insufficient_stock", msg: "not enough items held"}

	ErrNotEquipped    = &Error{Kind: KindInvalidState, Code: "not_equipped", msg: "item is not equipped"}
	ErrNotInInventory = &Error{Kind: KindInvalidState, Code: "not_in_inventory", msg: "item is not in the inventory"}

	ErrCharacterBusy = &Error{Kind: KindTransient, Code: "character_busy", msg: "another operation on this character is in progress"}
	ErrItemBusy      = &Error{Kind: KindTransient, Code: "item_busy", msg: "the item is being edited, retry"}
)

// Internal wraps an unexpected storage failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal", msg: "internal error", err: err}
}

// Transient wraps a storage timeout or contention failure the caller may retry.
func Transient(err error) *Error {
	return &Error{Kind: KindTransient, Code: "transient", msg: "temporary failure, retry", err: err}
}

// KindOf returns the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
