package bible

// ErrorCode is the machine-readable reason an action failed. Business-rule
// failures are returned as values carrying one of these, never as Go errors.
type ErrorCode string

const (
	CodeNone               ErrorCode = ""
	CodeInvalidSlot        ErrorCode = "invalid_slot"
	CodeAlreadyOwned       ErrorCode = "already_owned"
	CodeInsufficientGems   ErrorCode = "insufficient_gems"
	CodeInsufficientCoins  ErrorCode = "insufficient_coins"
	CodePrereqNotMet       ErrorCode = "prereq_not_met"
	CodeMaxSlotsReached    ErrorCode = "max_slots_reached"
	CodeInvalidPet         ErrorCode = "invalid_pet"
	CodePetUnavailable     ErrorCode = "pet_unavailable"
	CodeNotOwned           ErrorCode = "not_owned"
	CodeInvalidItem        ErrorCode = "invalid_item"
	CodeInvalidQuantity    ErrorCode = "invalid_quantity"
	CodeOutOfStock         ErrorCode = "out_of_stock"
	CodeDailyCapReached    ErrorCode = "daily_cap_reached"
	CodeInsufficientEnergy ErrorCode = "insufficient_energy"
	CodeNotWithdrawn       ErrorCode = "not_withdrawn"
	CodeNotRunaway         ErrorCode = "not_runaway"
	CodeTooEarly           ErrorCode = "too_early"
	CodeInvalidMode        ErrorCode = "invalid_mode"
	CodeNotSick            ErrorCode = "not_sick"
)

// Failure pairs a code with a human-readable reason.
type Failure struct {
	Code   ErrorCode `json:"code,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// Failed reports whether f carries an error code.
func (f Failure) Failed() bool {
	return f.Code != CodeNone
}

// Fail builds a Failure.
func Fail(code ErrorCode, reason string) Failure {
	return Failure{Code: code, Reason: reason}
}
