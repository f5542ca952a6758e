package entity

import "time"

// SystemLog is one log line returned by the admin log viewer. Type selects
// which detail block is set; the other two stay nil.
type SystemLog struct {
	Type      string    `json:"type"`
	EventId   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	LogGroup  string    `json:"logGroup"`
	LogStream string    `json:"logStream"`

	PaymentError *PaymentErrorDetails `json:"paymentError,omitempty"`
	LoginFailure *LoginFailureDetails `json:"loginFailure,omitempty"`
	APIError     *APIErrorDetails     `json:"apiError,omitempty"`
}

type PaymentErrorDetails struct {
	ContractId string `json:"contractId"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
}

type LoginFailureDetails struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

type APIErrorDetails struct {
	Path       string `json:"path"`
	Method     string `json:"method"`
	StatusCode int    `json:"statusCode"`
}

type SystemLogsQuery struct {
	LogType   string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
}

type SystemLogsOutputModel struct {
	LogType      string      `json:"logType"`
	StartTime    string      `json:"startTime"`
	EndTime      string      `json:"endTime"`
	Count        int         `json:"count"`
	Logs         []SystemLog `json:"logs"`
	FailedGroups []string    `json:"failedGroups"`
}
