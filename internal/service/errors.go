package service

import "errors"

// Kind groups service errors by how callers should react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
	KindUpstream
)

type Error struct {
	Kind    Kind
	message string
}

func (e *Error) Error() string {
	return e.message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, message: message}
}

// KindOf returns the kind of the first service error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

var (
	ErrUnauthenticated = newError(KindUnauthorized, "caller identity is missing")

	ErrJobNotFound          = newError(KindNotFound, "job not found")
	ErrApplicationNotFound  = newError(KindNotFound, "application not found")
	ErrConversationNotFound = newError(KindNotFound, "conversation not found")
	ErrContractNotFound     = newError(KindNotFound, "contract not found")

	ErrOnlyCompanyCanPostJobs     = newError(KindForbidden, "only companies can post jobs")
	ErrUserIsNotJobOwner          = newError(KindForbidden, "user doesn't own the job")
	ErrOnlyEngineerCanApply       = newError(KindForbidden, "only engineers can apply to jobs")
	ErrUserHasNoAccessToApp       = newError(KindForbidden, "user doesn't have access to the application")
	ErrUserHasNoAccessToChat      = newError(KindForbidden, "user isn't a participant of the conversation")
	ErrNotContractParty           = newError(KindForbidden, "user isn't a party of the contract")
	ErrAlreadyApproved            = newError(KindForbidden, "contract already approved by this party")
	ErrOnlyCompanyCanPay          = newError(KindForbidden, "only the company of the contract can pay")
	ErrMissingCapability          = newError(KindForbidden, "user doesn't have the required permission")
	ErrApplicationStatusForbidden = newError(KindForbidden, "user can't set this application status")

	ErrJobIsClosed                 = newError(KindValidation, "job is not open for applications")
	ErrInvalidJobStatus            = newError(KindValidation, "job status must be open or closed")
	ErrInvalidApplicationStatus    = newError(KindValidation, "application status change isn't allowed from the current status")
	ErrApplicationNotActive        = newError(KindValidation, "application is no longer active")
	ErrInvalidContractAmount       = newError(KindValidation, "contract amount must be a positive integer")
	ErrContractNotAwaitingApproval = newError(KindValidation, "contract isn't awaiting approval")
	ErrContractNotPayable          = newError(KindValidation, "contract isn't awaiting payment")
	ErrContractNotRefundable       = newError(KindValidation, "only paid contracts can be refunded")
	ErrPaymentTokenRequired        = newError(KindValidation, "payment token is required")
	ErrInvalidAttachmentKey        = newError(KindValidation, "attachment key doesn't belong to the conversation")
	ErrAttachmentsDisabled         = newError(KindValidation, "attachments are not configured")
	ErrInvalidLogType              = newError(KindValidation, "logType must be one of payment_errors, login_failures, api_errors, all")
	ErrInvalidTimeRange            = newError(KindValidation, "startTime must not be after endTime")

	ErrAlreadyApplied        = newError(KindConflict, "engineer already applied to the job")
	ErrContractAlreadyExists = newError(KindConflict, "application already has a contract")
	ErrConcurrentUpdate      = newError(KindConflict, "contract was modified concurrently, reload and retry")

	ErrPaymentFailed      = newError(KindUpstream, "payment failed")
	ErrRefundFailed       = newError(KindUpstream, "refund failed")
	ErrPaymentUnavailable = newError(KindUpstream, "card payments are not available")
	ErrUpstreamFailure    = newError(KindUpstream, "upstream service failure")
)
