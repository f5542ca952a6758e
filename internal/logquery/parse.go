package logquery

import (
	"bytes"
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"encoding/json"
	"strconv"
	"strings"
)

// Entry types of entity.SystemLog.
const (
	TypePaymentError = "payment_error"
	TypeLoginFailure = "login_failure"
	TypeAPIError     = "api_error"
)

// EntryType maps a log viewer logType to the tagged union type of its
// entries. The second result is false for unknown or aggregate types.
func EntryType(logType string) (string, bool) {
	switch logType {
	case common.LogTypePaymentErrors:
		return TypePaymentError, true
	case common.LogTypeLoginFailures:
		return TypeLoginFailure, true
	case common.LogTypeAPIErrors:
		return TypeAPIError, true
	}

	return "", false
}

// ToSystemLog builds the typed entry for e. The detail block matching
// entryType is always set; its fields are filled from the JSON payload of the
// message when one is present.
func ToSystemLog(entryType string, e Event) entity.SystemLog {
	log := entity.SystemLog{
		Type:      entryType,
		EventId:   e.EventId,
		Timestamp: e.Timestamp,
		Message:   strings.TrimSpace(e.Message),
		LogGroup:  e.LogGroup,
		LogStream: e.LogStream,
	}

	fields := jsonFields(e.Message)

	switch entryType {
	case TypePaymentError:
		log.PaymentError = &entity.PaymentErrorDetails{
			ContractId: stringField(fields, "contractId", "contract_id"),
			Amount:     int64Field(fields, "amount", "feeAmount"),
			Reason:     firstNonEmpty(stringField(fields, "reason", "error", "message"), log.Message),
		}
	case TypeLoginFailure:
		log.LoginFailure = &entity.LoginFailureDetails{
			Email:  stringField(fields, "email", "username"),
			Reason: firstNonEmpty(stringField(fields, "reason", "error", "message"), log.Message),
		}
	case TypeAPIError:
		log.APIError = &entity.APIErrorDetails{
			Path:       stringField(fields, "path", "route"),
			Method:     stringField(fields, "method", "httpMethod"),
			StatusCode: int(int64Field(fields, "statusCode", "status")),
		}
	}

	return log
}

// jsonFields decodes the JSON object embedded in message. Lambda lines carry
// a timestamp and request id before the payload.
func jsonFields(message string) map[string]any {
	start := strings.IndexByte(message, '{')
	if start < 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(message[start:])))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil
	}

	return fields
}

func stringField(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}

	return ""
}

func int64Field(fields map[string]any, keys ...string) int64 {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n
			}
			if f, err := v.Float64(); err == nil {
				return int64(f)
			}
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}

	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
