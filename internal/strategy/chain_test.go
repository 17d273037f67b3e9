package strategy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gauravsurtani/social-media-reader/internal/post"
)

type fakeStrategy struct {
	name    string
	payload *post.Partial
	err     error
	calls   int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Attempt(ctx context.Context, target string) (*post.Partial, error) {
	f.calls++
	return f.payload, f.err
}

func TestRun_FirstSuccessShortCircuits(t *testing.T) {
	first := &fakeStrategy{name: "first", payload: &post.Partial{Title: "hit"}}
	second := &fakeStrategy{name: "second", payload: &post.Partial{Title: "unused"}}

	payload, method, attempts, failure := Run(context.Background(), "https://example.com", []Strategy{first, second})

	if failure != nil {
		t.Fatalf("unexpected failure: %v", failure)
	}
	if payload.Title != "hit" {
		t.Errorf("expected first payload, got %q", payload.Title)
	}
	if method != "first" {
		t.Errorf("expected method 'first', got %q", method)
	}
	if len(attempts) != 1 {
		t.Errorf("expected 1 attempt, got %d", len(attempts))
	}
	if second.calls != 0 {
		t.Errorf("second strategy should not run after success, ran %d times", second.calls)
	}
}

func TestRun_FailFailSucceed(t *testing.T) {
	strategies := []Strategy{
		&fakeStrategy{name: "oembed", err: ClassifyHTTPStatus("oembed", 404)},
		&fakeStrategy{name: "opengraph", err: ClassifyHTTPStatus("opengraph", 999)},
		&fakeStrategy{name: "summarize", payload: &post.Partial{Text: "content"}},
	}

	payload, method, attempts, failure := Run(context.Background(), "https://example.com", strategies)

	if failure != nil {
		t.Fatalf("unexpected failure: %v", failure)
	}
	if payload.Text != "content" {
		t.Errorf("expected third payload, got %+v", payload)
	}
	if method != "summarize" {
		t.Errorf("expected method of third strategy, got %q", method)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", len(attempts))
	}
	if attempts[0].Failure == nil || attempts[1].Failure == nil {
		t.Error("first two attempts should record failures")
	}
	if attempts[2].Payload == nil {
		t.Error("third attempt should record the payload")
	}
}

func TestRun_AllFail_RetryableWhenAnyIs(t *testing.T) {
	strategies := []Strategy{
		&fakeStrategy{name: "a", err: ClassifyHTTPStatus("a", 403)},
		&fakeStrategy{name: "b", err: context.DeadlineExceeded},
	}

	_, _, attempts, failure := Run(context.Background(), "https://example.com", strategies)

	if failure == nil {
		t.Fatal("expected aggregate failure")
	}
	if !failure.Retryable {
		t.Error("aggregate should be retryable when one attempt timed out")
	}
	if len(attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(attempts))
	}
	if !strings.Contains(failure.Message, "a:") || !strings.Contains(failure.Message, "b:") {
		t.Errorf("aggregate message should list each attempt, got %q", failure.Message)
	}
}

func TestRun_AllFail_NotRetryableWhenStructural(t *testing.T) {
	strategies := []Strategy{
		&fakeStrategy{name: "a", err: ClassifyHTTPStatus("a", 403)},
		&fakeStrategy{name: "b", err: errors.New("unexpected payload shape")},
	}

	_, _, _, failure := Run(context.Background(), "https://example.com", strategies)

	if failure == nil {
		t.Fatal("expected aggregate failure")
	}
	if failure.Retryable {
		t.Error("aggregate should not be retryable when no attempt was")
	}
}

func TestRun_NilPayloadIsFailure(t *testing.T) {
	strategies := []Strategy{&fakeStrategy{name: "empty"}}

	_, _, attempts, failure := Run(context.Background(), "https://example.com", strategies)

	if failure == nil {
		t.Fatal("nil payload with nil error should count as a failure")
	}
	if attempts[0].Failure == nil {
		t.Error("attempt should record a failure")
	}
}

func TestFromError_Classification(t *testing.T) {
	if f := FromError("s", context.DeadlineExceeded); f.Kind != KindNetwork || !f.Retryable {
		t.Errorf("deadline should classify as retryable network, got %+v", f)
	}

	orig := NewFailure("inner", KindBlocked, "login wall")
	if f := FromError("outer", orig); f != orig {
		t.Error("existing Failure should pass through unchanged")
	}

	if f := FromError("s", errors.New("weird body")); f.Kind != KindMalformed || f.Retryable {
		t.Errorf("unknown errors should classify as malformed, got %+v", f)
	}
}

func TestClassifyHTTPStatus(t *testing.T) {
	tests := []struct {
		status    int
		kind      Kind
		retryable bool
	}{
		{403, KindBlocked, false},
		{999, KindBlocked, false},
		{401, KindBlocked, false},
		{429, KindNetwork, true},
		{500, KindNetwork, true},
		{503, KindNetwork, true},
		{404, KindMalformed, false},
	}

	for _, tt := range tests {
		f := ClassifyHTTPStatus("t", tt.status)
		if f.Kind != tt.kind || f.Retryable != tt.retryable {
			t.Errorf("status %d: got kind=%v retryable=%v, want kind=%v retryable=%v",
				tt.status, f.Kind, f.Retryable, tt.kind, tt.retryable)
		}
	}
}
