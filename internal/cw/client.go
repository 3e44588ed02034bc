// Package cw wraps the CloudWatch Logs API behind the narrow contract the UI
// needs: list log groups, start an Insights query, poll it for results.
package cw

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// API is the contract for fetching log groups and query results.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	ListLogGroups(ctx context.Context) ([]string, error)
	StartQuery(ctx context.Context, group string, startMS, endMS int64, query string) (string, error)
	PollQuery(ctx context.Context, handle string) (PollResult, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// sdk is the slice of the CloudWatch Logs SDK client that Client depends on.
type sdk interface {
	DescribeLogGroups(ctx context.Context, in *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	StartQuery(ctx context.Context, in *cloudwatchlogs.StartQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error)
	GetQueryResults(ctx context.Context, in *cloudwatchlogs.GetQueryResultsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error)
}

// Client talks to CloudWatch Logs.
type Client struct {
	api sdk
}

// NewClient builds a Client from a resolved AWS config.
func NewClient(cfg aws.Config) *Client {
	return &Client{api: cloudwatchlogs.NewFromConfig(cfg)}
}

// ListLogGroups returns all log group names, following pagination tokens
// until the service reports no more pages.
func (c *Client) ListLogGroups(ctx context.Context) ([]string, error) {
	var names []string
	var token *string
	for {
		out, err := c.api.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
			NextToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("describe log groups: %w", err)
		}
		for _, group := range out.LogGroups {
			if group.LogGroupName != nil {
				names = append(names, *group.LogGroupName)
			}
		}
		if out.NextToken == nil {
			return names, nil
		}
		token = out.NextToken
	}
}

// StartQuery submits an Insights query over [startMS, endMS] and returns the
// opaque query handle. The SDK takes epoch seconds, the contract is epoch
// milliseconds: the start rounds down and the end rounds up so the window is
// never shortened by the conversion.
func (c *Client) StartQuery(ctx context.Context, group string, startMS, endMS int64, query string) (string, error) {
	out, err := c.api.StartQuery(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupName: aws.String(group),
		StartTime:    aws.Int64(startMS / 1000),
		EndTime:      aws.Int64((endMS + 999) / 1000),
		QueryString:  aws.String(query),
	})
	if err != nil {
		return "", fmt.Errorf("start query: %w", err)
	}
	if out.QueryId == nil {
		return "", fmt.Errorf("start query: service returned no query id")
	}
	return *out.QueryId, nil
}

// PollQuery fetches the current results for a query handle.
func (c *Client) PollQuery(ctx context.Context, handle string) (PollResult, error) {
	out, err := c.api.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
		QueryId: aws.String(handle),
	})
	if err != nil {
		return PollResult{}, fmt.Errorf("get query results: %w", err)
	}

	rows := make([][]Field, 0, len(out.Results))
	for _, result := range out.Results {
		row := make([]Field, 0, len(result))
		for _, field := range result {
			row = append(row, Field{
				Name:  aws.ToString(field.Field),
				Value: aws.ToString(field.Value),
			})
		}
		rows = append(rows, row)
	}

	return PollResult{Status: mapStatus(out.Status), Rows: rows}, nil
}

func mapStatus(status types.QueryStatus) QueryStatus {
	switch status {
	case types.QueryStatusComplete:
		return StatusComplete
	case types.QueryStatusFailed, types.QueryStatusCancelled:
		return StatusFailed
	case types.QueryStatusTimeout:
		return StatusTimedOut
	default:
		// Scheduled, Running, Unknown: keep polling.
		return StatusRunning
	}
}
