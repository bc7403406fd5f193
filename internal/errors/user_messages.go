package errors

// User-friendly error messages
const (
	MsgControlNotFound    = "This address field is no longer available. Please reload the form."
	MsgInvalidPlace       = "The selected place could not be read. Please pick another suggestion."
	MsgServiceUnavailable = "Address suggestions are unavailable right now. You can still type the address manually."
	MsgNotReady           = "Address suggestions are still loading. Please try again in a moment."
	MsgRateLimited        = "You're typing too quickly! Please wait a moment and try again."
	MsgInvalidParameters  = "The provided parameters are invalid. Please check your input and try again."
	MsgInternalError      = "Something went wrong on our end. Please try again later."
)
