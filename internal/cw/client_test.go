package cw

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

type fakeSDK struct {
	describePages []*cloudwatchlogs.DescribeLogGroupsOutput
	describeCalls int
	describeErr   error

	startOut *cloudwatchlogs.StartQueryOutput
	startErr error
	startIn  *cloudwatchlogs.StartQueryInput

	resultsOut *cloudwatchlogs.GetQueryResultsOutput
	resultsErr error
	resultsIn  *cloudwatchlogs.GetQueryResultsInput
}

func (f *fakeSDK) DescribeLogGroups(_ context.Context, in *cloudwatchlogs.DescribeLogGroupsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	page := f.describePages[f.describeCalls]
	f.describeCalls++
	// Requests after the first must carry the token from the previous page.
	if f.describeCalls > 1 && in.NextToken == nil {
		return nil, errors.New("missing continuation token")
	}
	return page, nil
}

func (f *fakeSDK) StartQuery(_ context.Context, in *cloudwatchlogs.StartQueryInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error) {
	f.startIn = in
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.startOut, nil
}

func (f *fakeSDK) GetQueryResults(_ context.Context, in *cloudwatchlogs.GetQueryResultsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error) {
	f.resultsIn = in
	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return f.resultsOut, nil
}

func groupPage(token string, names ...string) *cloudwatchlogs.DescribeLogGroupsOutput {
	out := &cloudwatchlogs.DescribeLogGroupsOutput{}
	for _, name := range names {
		out.LogGroups = append(out.LogGroups, types.LogGroup{LogGroupName: aws.String(name)})
	}
	if token != "" {
		out.NextToken = aws.String(token)
	}
	return out
}

func TestListLogGroups_ConsumesAllPages(t *testing.T) {
	fake := &fakeSDK{
		describePages: []*cloudwatchlogs.DescribeLogGroupsOutput{
			groupPage("page2", "api-gateway", "auth-service"),
			groupPage("page3", "billing"),
			groupPage("", "worker"),
		},
	}
	client := &Client{api: fake}

	names, err := client.ListLogGroups(context.Background())
	if err != nil {
		t.Fatalf("ListLogGroups returned error: %v", err)
	}
	want := []string{"api-gateway", "auth-service", "billing", "worker"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	if fake.describeCalls != 3 {
		t.Fatalf("describeCalls = %d, want 3", fake.describeCalls)
	}
}

func TestListLogGroups_PropagatesError(t *testing.T) {
	client := &Client{api: &fakeSDK{describeErr: errors.New("throttled")}}
	if _, err := client.ListLogGroups(context.Background()); err == nil {
		t.Fatal("ListLogGroups succeeded, want error")
	}
}

func TestStartQuery_ConvertsMillisToSeconds(t *testing.T) {
	fake := &fakeSDK{startOut: &cloudwatchlogs.StartQueryOutput{QueryId: aws.String("q-123")}}
	client := &Client{api: fake}

	handle, err := client.StartQuery(context.Background(), "auth-service", 1_700_000_000_000, 1_700_003_600_000, "fields @timestamp, @message")
	if err != nil {
		t.Fatalf("StartQuery returned error: %v", err)
	}
	if handle != "q-123" {
		t.Fatalf("handle = %q, want q-123", handle)
	}
	if got := aws.ToInt64(fake.startIn.StartTime); got != 1_700_000_000 {
		t.Fatalf("StartTime = %d, want epoch seconds", got)
	}
	if got := aws.ToInt64(fake.startIn.EndTime); got != 1_700_003_600 {
		t.Fatalf("EndTime = %d, want epoch seconds", got)
	}
	if got := aws.ToString(fake.startIn.LogGroupName); got != "auth-service" {
		t.Fatalf("LogGroupName = %q", got)
	}
}

func TestStartQuery_NeverShortensTheWindow(t *testing.T) {
	fake := &fakeSDK{startOut: &cloudwatchlogs.StartQueryOutput{QueryId: aws.String("q-1")}}
	client := &Client{api: fake}

	// Sub-second ends must round up, sub-second starts down.
	if _, err := client.StartQuery(context.Background(), "g", 1_000_500, 2_000_500, "fields @message"); err != nil {
		t.Fatalf("StartQuery returned error: %v", err)
	}
	if got := aws.ToInt64(fake.startIn.StartTime); got != 1000 {
		t.Fatalf("StartTime = %d, want 1000 (rounded down)", got)
	}
	if got := aws.ToInt64(fake.startIn.EndTime); got != 2001 {
		t.Fatalf("EndTime = %d, want 2001 (rounded up)", got)
	}
}

func TestStartQuery_MissingHandleIsError(t *testing.T) {
	client := &Client{api: &fakeSDK{startOut: &cloudwatchlogs.StartQueryOutput{}}}
	if _, err := client.StartQuery(context.Background(), "g", 0, 1000, "fields @message"); err == nil {
		t.Fatal("StartQuery succeeded without a query id, want error")
	}
}

func TestPollQuery_MapsStatusAndRows(t *testing.T) {
	fake := &fakeSDK{resultsOut: &cloudwatchlogs.GetQueryResultsOutput{
		Status: types.QueryStatusRunning,
		Results: [][]types.ResultField{
			{
				{Field: aws.String("@timestamp"), Value: aws.String("2026-08-27 10:00:00.000")},
				{Field: aws.String("@message"), Value: aws.String("hello")},
			},
		},
	}}
	client := &Client{api: fake}

	result, err := client.PollQuery(context.Background(), "q-123")
	if err != nil {
		t.Fatalf("PollQuery returned error: %v", err)
	}
	if result.Status != StatusRunning {
		t.Fatalf("Status = %v, want Running", result.Status)
	}
	if len(result.Rows) != 1 || result.Rows[0][1].Value != "hello" {
		t.Fatalf("Rows = %#v", result.Rows)
	}
	if got := aws.ToString(fake.resultsIn.QueryId); got != "q-123" {
		t.Fatalf("QueryId = %q", got)
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   types.QueryStatus
		want QueryStatus
	}{
		{types.QueryStatusScheduled, StatusRunning},
		{types.QueryStatusRunning, StatusRunning},
		{types.QueryStatusUnknown, StatusRunning},
		{types.QueryStatusComplete, StatusComplete},
		{types.QueryStatusFailed, StatusFailed},
		{types.QueryStatusCancelled, StatusFailed},
		{types.QueryStatusTimeout, StatusTimedOut},
	}
	for _, tt := range tests {
		if got := mapStatus(tt.in); got != tt.want {
			t.Errorf("mapStatus(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
