package errcode

// Error code convention for notification payloads:
// - 0: no error
// - 4xxx: recoverable business conditions (flow can continue)
// - 5xxx: system errors (flow interrupted)
const (
	OK              = 0
	ResourceMissing = 4004
	DegradedSave    = 4005
	SystemError     = 5000
)
