package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod"
)

// scriptedPass returns the queued results one per call and counts calls.
func scriptedPass(calls *int, results ...*pageResult) passFunc {
	return func(ctx context.Context, page *rod.Page, highWater int) (*pageResult, error) {
		i := *calls
		*calls++
		if i >= len(results) {
			i = len(results) - 1
		}
		return results[i], nil
	}
}

func TestCapture_RetriesUntilElementsAppear(t *testing.T) {
	var calls int
	opts := Options{
		HighWater:  3,
		RetryDelay: time.Millisecond,
		pass: scriptedPass(&calls,
			&pageResult{HW: 3},
			&pageResult{HW: 3},
			&pageResult{HW: 5, URL: "https://x.test/", Title: "X", Elements: []Element{
				{UID: "e4", Tag: "a", Href: "https://x.test/a"},
				{UID: "e5", Tag: "input"},
			}},
		),
	}
	res, err := Capture(context.Background(), &rod.Page{}, 2, opts)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("passes: got %d, want 3", calls)
	}
	if res.Loading {
		t.Error("third pass had elements, Loading should be false")
	}
	if len(res.Elements) != 2 || res.HighWater != 5 {
		t.Errorf("got %d elements, hw=%d", len(res.Elements), res.HighWater)
	}
	if res.ID != 2 || res.URL != "https://x.test/" {
		t.Errorf("metadata: id=%d url=%q", res.ID, res.URL)
	}
	// Roles are classified during the pass.
	if res.Elements[0].Role != "link" || res.Elements[1].Role != "textbox" {
		t.Errorf("roles: %q, %q", res.Elements[0].Role, res.Elements[1].Role)
	}
}

func TestCapture_BoundedRetriesThenLoading(t *testing.T) {
	var calls int
	opts := Options{
		Retries:    2,
		RetryDelay: time.Millisecond,
		pass:       scriptedPass(&calls, &pageResult{HW: 7}),
	}
	res, err := Capture(context.Background(), &rod.Page{}, 1, opts)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("passes: got %d, want 1+Retries=3", calls)
	}
	if !res.Loading {
		t.Error("every pass empty, Loading should be true")
	}
	if len(res.Elements) != 0 {
		t.Errorf("elements: got %d, want 0", len(res.Elements))
	}
	if res.HighWater != 7 {
		t.Errorf("high water from the page must survive an empty pass, got %d", res.HighWater)
	}
}

func TestCapture_PassErrorStopsRetrying(t *testing.T) {
	boom := errors.New("tab crashed")
	var calls int
	opts := Options{
		RetryDelay: time.Millisecond,
		pass: func(ctx context.Context, page *rod.Page, highWater int) (*pageResult, error) {
			calls++
			return nil, boom
		},
	}
	_, err := Capture(context.Background(), &rod.Page{}, 1, opts)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want the pass error", err)
	}
	if calls != 1 {
		t.Errorf("a hard error must not be retried, got %d passes", calls)
	}
}

func TestCapture_ContextCancelDuringRetryDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	opts := Options{
		RetryDelay: time.Minute,
		pass: func(ctx context.Context, page *rod.Page, highWater int) (*pageResult, error) {
			calls++
			cancel()
			return &pageResult{}, nil
		},
	}
	_, err := Capture(ctx, &rod.Page{}, 1, opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("passes: got %d, want 1", calls)
	}
}
