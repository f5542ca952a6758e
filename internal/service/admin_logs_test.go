package service

import (
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/logquery"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logBase = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func logEvent(id, group string, minute int, message string) logquery.Event {
	return logquery.Event{
		EventId:   id,
		Timestamp: logBase.Add(time.Duration(minute) * time.Minute),
		Message:   message,
		LogGroup:  group,
		LogStream: "2025/04/01/[$LATEST]abc",
	}
}

func TestAdminLogsService_PartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.querier.On("FilterEvents", mock.Anything, "/pay/a", "ERROR", mock.Anything, mock.Anything, DefaultLogLimit).
		Return([]logquery.Event{
			logEvent("e1", "/pay/a", 1, `ERROR payment failed {"contractId":"c-1","amount":50000,"reason":"card declined"}`),
			logEvent("e2", "/pay/a", 5, `ERROR payment failed {"contractId":"c-2","amount":1200,"reason":"expired card"}`),
		}, nil).Once()
	f.querier.On("FilterEvents", mock.Anything, "/pay/b", "ERROR", mock.Anything, mock.Anything, DefaultLogLimit).
		Return(nil, errors.New("ResourceNotFoundException")).Once()

	out, err := f.services.AdminLogs.GetSystemLogs(ctx, f.admin, &entity.SystemLogsQuery{LogType: common.LogTypePaymentErrors})
	require.NoError(t, err)

	assert.Equal(t, common.LogTypePaymentErrors, out.LogType)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, []string{"/pay/b"}, out.FailedGroups)
	require.Len(t, out.Logs, 2)
	assert.Equal(t, "e2", out.Logs[0].EventId)
	require.NotNil(t, out.Logs[0].PaymentError)
	assert.Equal(t, "c-2", out.Logs[0].PaymentError.ContractId)
	assert.Equal(t, int64(1200), out.Logs[0].PaymentError.Amount)
	assert.Nil(t, out.Logs[0].LoginFailure)

	failures, err := testutil.GatherAndCount(f.deps.Metrics.Registry(), "cloudport_log_group_query_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
	f.querier.AssertExpectations(t)
}

func TestAdminLogsService_AllTypesMergedAndTruncated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.querier.On("FilterEvents", mock.Anything, "/pay/a", mock.Anything, mock.Anything, mock.Anything, 3).
		Return([]logquery.Event{logEvent("p1", "/pay/a", 10, `{"contractId":"c-1","reason":"declined"}`)}, nil)
	f.querier.On("FilterEvents", mock.Anything, "/pay/b", mock.Anything, mock.Anything, mock.Anything, 3).
		Return([]logquery.Event{}, nil)
	f.querier.On("FilterEvents", mock.Anything, "/login", mock.Anything, mock.Anything, mock.Anything, 3).
		Return([]logquery.Event{
			logEvent("l1", "/login", 30, `{"email":"a@example.com","reason":"bad password"}`),
			logEvent("l2", "/login", 2, `login failed for unknown user`),
		}, nil)
	f.querier.On("FilterEvents", mock.Anything, "/api", mock.Anything, mock.Anything, mock.Anything, 3).
		Return([]logquery.Event{logEvent("a1", "/api", 20, `{"path":"/contracts","method":"POST","statusCode":500}`)}, nil)

	out, err := f.services.AdminLogs.GetSystemLogs(ctx, f.admin, &entity.SystemLogsQuery{LogType: common.LogTypeAll, Limit: 3})
	require.NoError(t, err)

	require.Len(t, out.Logs, 3)
	assert.Equal(t, "l1", out.Logs[0].EventId)
	assert.Equal(t, logquery.TypeLoginFailure, out.Logs[0].Type)
	assert.Equal(t, "a1", out.Logs[1].EventId)
	require.NotNil(t, out.Logs[1].APIError)
	assert.Equal(t, 500, out.Logs[1].APIError.StatusCode)
	assert.Equal(t, "p1", out.Logs[2].EventId)
	assert.Empty(t, out.FailedGroups)
}

func TestAdminLogsService_DefaultWindow(t *testing.T) {
	f := newFixture(t)
	wantEnd := f.clock.t.Add(time.Second)
	wantStart := wantEnd.Add(-24 * time.Hour)

	f.querier.On("FilterEvents", mock.Anything, "/api", "statusCode", wantStart, wantEnd, MaxLogLimit).
		Return([]logquery.Event{}, nil).Once()

	out, err := f.services.AdminLogs.GetSystemLogs(context.Background(), f.admin, &entity.SystemLogsQuery{
		LogType: common.LogTypeAPIErrors,
		Limit:   10000,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-31T09:00:01Z", out.StartTime)
	assert.Equal(t, "2025-04-01T09:00:01Z", out.EndTime)
	assert.NotNil(t, out.Logs)
	f.querier.AssertExpectations(t)
}

func TestAdminLogsService_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.AdminLogs.GetSystemLogs(ctx, f.company, &entity.SystemLogsQuery{})
	assert.ErrorIs(t, err, ErrMissingCapability)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = f.services.AdminLogs.GetSystemLogs(ctx, nil, &entity.SystemLogsQuery{})
	assert.Equal(t, KindUnauthorized, KindOf(err))

	_, err = f.services.AdminLogs.GetSystemLogs(ctx, f.admin, &entity.SystemLogsQuery{LogType: "debug"})
	assert.ErrorIs(t, err, ErrInvalidLogType)

	_, err = f.services.AdminLogs.GetSystemLogs(ctx, f.admin, &entity.SystemLogsQuery{
		StartTime: logBase.Add(time.Hour),
		EndTime:   logBase,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	f.querier.AssertNotCalled(t, "FilterEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
