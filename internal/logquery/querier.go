package logquery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// Event is one raw line returned by a log group.
type Event struct {
	EventId   string
	Timestamp time.Time
	Message   string
	LogGroup  string
	LogStream string
}

type Querier interface {
	FilterEvents(ctx context.Context, group, pattern string, start, end time.Time, limit int) ([]Event, error)
}

type filterLogEventsAPI interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// CloudWatchQuerier reads events through FilterLogEvents. It pages through
// the whole window and keeps the newest limit events.
type CloudWatchQuerier struct {
	client filterLogEventsAPI
}

func NewCloudWatchQuerier(cfg aws.Config) *CloudWatchQuerier {
	return &CloudWatchQuerier{client: cloudwatchlogs.NewFromConfig(cfg)}
}

func (q *CloudWatchQuerier) FilterEvents(ctx context.Context, group, pattern string, start, end time.Time, limit int) ([]Event, error) {
	input := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(group),
		StartTime:    aws.Int64(start.UnixMilli()),
		EndTime:      aws.Int64(end.UnixMilli()),
	}
	if pattern != "" {
		input.FilterPattern = aws.String(pattern)
	}

	events := make([]Event, 0)
	paginator := cloudwatchlogs.NewFilterLogEventsPaginator(q.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("filter log events in %s: %w", group, err)
		}
		for _, e := range page.Events {
			events = append(events, Event{
				EventId:   aws.ToString(e.EventId),
				Timestamp: time.UnixMilli(aws.ToInt64(e.Timestamp)).UTC(),
				Message:   aws.ToString(e.Message),
				LogGroup:  group,
				LogStream: aws.ToString(e.LogStreamName),
			})
		}
		events = keepNewest(events, limit)
	}

	return events, nil
}

// keepNewest orders events newest first and drops everything past limit.
// Pages are only roughly ordered across streams, so the order is restored
// before trimming.
func keepNewest(events []Event, limit int) []Event {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if limit >= 0 && len(events) > limit {
		events = events[:limit]
	}

	return events
}
