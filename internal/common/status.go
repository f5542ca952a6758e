package common

// Parties of a contract and user types carried in the identity token.
const (
	Engineer = "engineer"
	Company  = "company"
)

// Job statuses.
const (
	JobOpen   = "open"
	JobClosed = "closed"
)

// Application statuses.
const (
	ApplicationPending   = "pending"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
	ApplicationWithdrawn = "withdrawn"
)

// Contract statuses. A contract only moves forward through this list;
// refunded is a terminal soft state reachable from paid.
const (
	PendingEngineer = "pending_engineer"
	PendingCompany  = "pending_company"
	PendingPayment  = "pending_payment"
	Paid            = "paid"
	Refunded        = "refunded"
)

// Payment methods recorded on a paid contract.
const (
	PaymentMethodCard = "card"
	PaymentMethodDemo = "demo"
)

// Log types accepted by the admin log viewer.
const (
	LogTypePaymentErrors = "payment_errors"
	LogTypeLoginFailures = "login_failures"
	LogTypeAPIErrors     = "api_errors"
	LogTypeAll           = "all"
)

// Capabilities granted through identity groups.
const (
	CapabilityLogsRead        = "logs:read"
	CapabilityContractsRefund = "contracts:refund"
)

func OtherParty(party string) string {
	if party == Engineer {
		return Company
	}

	return Engineer
}
