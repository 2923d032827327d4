package models

import "errors"

// Sentinel errors for validation failures. Handlers map these to 400-class
// responses; anything else is treated as internal.
var (
	ErrNotFound         = errors.New("not found")
	ErrGroupFull        = errors.New("group cannot have more than 32 members")
	ErrDuplicateMember  = errors.New("user is already a member of this group")
	ErrInvalidGroupType = errors.New("group type must be SHORT or LONG")
	ErrSplitMismatch    = errors.New("split amounts must sum to the expense amount")
	ErrPayerNotMember   = errors.New("payer must be a member of the group")
)
