package catalog

// State keys reported in the states field of response variants. The UI looks
// up translations by these names, so they must never change.
const (
	StateCheckoutRenew      = "Checkout::Renew"
	StateItemCheckedOut     = "Item::CheckedOut"
	StateItemHeld           = "Item::Held"
	StateItemHeldWaiting    = "Item::Held::Waiting"
	StateNotCheckedOut      = "not_checked_out"
	StateReturnToBranch     = "return_to_another_branch"
	StateNoItem             = "no_item"
	StateHoldFound          = "hold_found"
	StateUnhandled          = "unhandled"
	StateCheckoutImpossible = "checkout_impossible"
	StateNeedsConfirmation  = "needs_confirmation"
	StateException          = "exception"
)
