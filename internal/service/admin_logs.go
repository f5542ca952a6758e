package service

import (
	"cloudport-api/internal/auth"
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/logquery"
	"cloudport-api/internal/metrics"
	"cloudport-api/pkg/logger"
	"context"
	"sort"
	"sync"
	"time"
)

const (
	DefaultLogWindow = 24 * time.Hour
	DefaultLogLimit  = 100
	MaxLogLimit      = 500
)

type AdminLogsService struct {
	querier logquery.Querier
	sources map[string]LogSource
	timeout time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAdminLogsService(deps *Dependencies) *AdminLogsService {
	sources := make(map[string]LogSource, len(deps.LogSources))
	for _, src := range deps.LogSources {
		sources[src.LogType] = src
	}

	return &AdminLogsService{
		querier: deps.Querier,
		sources: sources,
		timeout: deps.LogTimeout,
		metrics: deps.Metrics,
		now:     deps.Now,
	}
}

// logTypes in the order "all" expands to.
var logTypes = []string{common.LogTypePaymentErrors, common.LogTypeLoginFailures, common.LogTypeAPIErrors}

type groupResult struct {
	logs   []entity.SystemLog
	group  string
	failed bool
}

// GetSystemLogs queries every log group behind the requested type at once.
// A group that fails contributes no entries and is reported in FailedGroups;
// the call itself still succeeds.
func (s *AdminLogsService) GetSystemLogs(ctx context.Context, caller *auth.Principal, query *entity.SystemLogsQuery) (*entity.SystemLogsOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !caller.Can(common.CapabilityLogsRead) {
		return nil, ErrMissingCapability
	}

	q, err := s.normalize(query)
	if err != nil {
		return nil, err
	}

	selected := logTypes
	if q.LogType != common.LogTypeAll {
		selected = []string{q.LogType}
	}

	results := make(chan groupResult)
	var wg sync.WaitGroup
	for _, logType := range selected {
		src, ok := s.sources[logType]
		if !ok {
			continue
		}
		entryType, _ := logquery.EntryType(logType)

		for _, group := range src.Groups {
			wg.Add(1)
			go func(logType, entryType, group, pattern string) {
				defer wg.Done()
				results <- s.queryGroup(ctx, logType, entryType, group, pattern, q)
			}(logType, entryType, group, src.Pattern)
		}
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	logs := make([]entity.SystemLog, 0)
	failed := make([]string, 0)
	for r := range results {
		if r.failed {
			failed = append(failed, r.group)
			continue
		}
		logs = append(logs, r.logs...)
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	if len(logs) > q.Limit {
		logs = logs[:q.Limit]
	}
	sort.Strings(failed)

	return &entity.SystemLogsOutputModel{
		LogType:      q.LogType,
		StartTime:    formatTime(q.StartTime),
		EndTime:      formatTime(q.EndTime),
		Count:        len(logs),
		Logs:         logs,
		FailedGroups: failed,
	}, nil
}

func (s *AdminLogsService) queryGroup(ctx context.Context, logType, entryType, group, pattern string, q entity.SystemLogsQuery) groupResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	events, err := s.querier.FilterEvents(ctx, group, pattern, q.StartTime, q.EndTime, q.Limit)
	if err != nil {
		s.metrics.LogGroupFailure(logType)
		logger.Warn(ctx, "log group query failed", "log_type", logType, "log_group", group, "error", err)

		return groupResult{group: group, failed: true}
	}

	logs := make([]entity.SystemLog, 0, len(events))
	for _, e := range events {
		logs = append(logs, logquery.ToSystemLog(entryType, e))
	}

	return groupResult{group: group, logs: logs}
}

func (s *AdminLogsService) normalize(query *entity.SystemLogsQuery) (entity.SystemLogsQuery, error) {
	q := *query
	if q.LogType == "" {
		q.LogType = common.LogTypeAll
	}
	if _, ok := logquery.EntryType(q.LogType); !ok && q.LogType != common.LogTypeAll {
		return q, ErrInvalidLogType
	}

	if q.EndTime.IsZero() {
		q.EndTime = s.now()
	}
	if q.StartTime.IsZero() {
		q.StartTime = q.EndTime.Add(-DefaultLogWindow)
	}
	if q.StartTime.After(q.EndTime) {
		return q, ErrInvalidTimeRange
	}

	if q.Limit <= 0 {
		q.Limit = DefaultLogLimit
	}
	if q.Limit > MaxLogLimit {
		q.Limit = MaxLogLimit
	}

	return q, nil
}
