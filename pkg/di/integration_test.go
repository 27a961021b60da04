package di

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/dataaccess"
	"github.com/goliatone/go-registry-cache/domain"
	"github.com/goliatone/go-registry-cache/internal/config"
	"github.com/goliatone/go-registry-cache/internal/throttle"
	"github.com/goliatone/go-registry-cache/pkg/testsupport"
	"github.com/rs/zerolog"
)

var registryTables = map[string][]airtable.Record{
	dataaccess.TableSchools: {
		{ID: "recS1", Fields: map[string]any{"Name": "Acorn", "School Status": "Open"}},
		{ID: "recS2", Fields: map[string]any{"Name": "Birch", "School Status": "Emerging"}},
	},
	dataaccess.TableEducatorsXSchools: {
		{ID: "recX1", Fields: map[string]any{
			"school_id":        []any{"recS1"},
			"educator_id":      []any{"recE1"},
			"Currently Active": true,
		}},
	},
}

// newIntegrationContainer wires a container against a fake upstream with spacing
// disabled and millisecond backoff.
func newIntegrationContainer(t testing.TB, maxRetries int) (*Container, *testsupport.Upstream) {
	t.Helper()

	up := testsupport.NewUpstream(t, registryTables)
	at := up.Config()

	cfg := validConfig()
	cfg.Airtable = config.AirtableConfig{BaseURL: at.BaseURL, BaseID: at.BaseID, APIKey: at.APIKey, Timeout: 5 * time.Second}
	cfg.Throttle = throttle.Config{
		RetryDelay:      time.Millisecond,
		RetryMultiplier: 2,
		MaxRetryDelay:   5 * time.Millisecond,
		MaxRetries:      maxRetries,
	}

	container, err := NewContainer(cfg, WithLogger(zerolog.Nop()), WithHTTPClient(up.Server.Client()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	return container, up
}

func TestIntegration_ReadThroughCache(t *testing.T) {
	container, up := newIntegrationContainer(t, 5)
	ctx := context.Background()

	first := container.Client().Schools().Use(ctx)
	if first.Err != nil {
		t.Fatalf("Use() error: %v", first.Err)
	}
	if first.FromCache {
		t.Error("first read should not come from cache")
	}
	if len(first.Data) != 2 || first.Data[0].Name != "Acorn" {
		t.Fatalf("unexpected schools: %+v", first.Data)
	}

	// A different hook for the same query is served from the cache.
	second := container.Client().Schools().Use(ctx)
	if !second.FromCache {
		t.Error("second read should come from cache")
	}
	if got := up.Calls(http.MethodGet, dataaccess.TableSchools); got != 1 {
		t.Errorf("Expected 1 upstream list call, got %d", got)
	}
}

func TestIntegration_ConcurrentHooksShareOneRequest(t *testing.T) {
	container, up := newIntegrationContainer(t, 5)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	results := make([]dataaccess.Result[[]domain.EducatorSchool], n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = container.Client().EducatorsForSchool("recS1").Use(ctx)
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("hook %d error: %v", i, res.Err)
		}
		if len(res.Data) != 1 || res.Data[0].EducatorID != "recE1" {
			t.Fatalf("hook %d data: %+v", i, res.Data)
		}
	}
	if got := up.Calls(http.MethodGet, dataaccess.TableEducatorsXSchools); got != 1 {
		t.Errorf("Expected 1 upstream call for %d concurrent hooks, got %d", n, got)
	}
}

func TestIntegration_MutationInvalidates(t *testing.T) {
	container, up := newIntegrationContainer(t, 5)
	ctx := context.Background()

	hook := container.Client().EducatorsForSchool("recS1")
	if res := hook.Use(ctx); res.Err != nil {
		t.Fatalf("Use() error: %v", res.Err)
	}

	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	rec, err := container.Mutator().EndEducatorSchool(ctx, "recX1", end)
	if err != nil {
		t.Fatalf("EndEducatorSchool() error: %v", err)
	}
	if rec.Fields["End Date"] != "2026-06-30" {
		t.Errorf("End Date = %v", rec.Fields["End Date"])
	}
	if got := up.Calls(http.MethodPatch, dataaccess.TableEducatorsXSchools); got != 1 {
		t.Errorf("Expected 1 PATCH, got %d", got)
	}

	res := hook.Use(ctx)
	if res.Err != nil {
		t.Fatalf("Use() after mutation error: %v", res.Err)
	}
	if res.FromCache {
		t.Error("read after invalidation should not come from cache")
	}
	if got := up.Calls(http.MethodGet, dataaccess.TableEducatorsXSchools); got != 2 {
		t.Errorf("Expected a refetch after invalidation, got %d list calls", got)
	}
}

func TestIntegration_ThrottledRequestIsRetried(t *testing.T) {
	container, up := newIntegrationContainer(t, 5)
	up.Throttle(dataaccess.TableSchools, 2)

	res := container.Client().Schools().Use(context.Background())
	if res.Err != nil {
		t.Fatalf("Use() error: %v", res.Err)
	}
	if len(res.Data) != 2 {
		t.Errorf("Expected 2 schools, got %d", len(res.Data))
	}
	if got := up.Calls(http.MethodGet, dataaccess.TableSchools); got != 3 {
		t.Errorf("Expected 2 throttled calls plus 1 success, got %d", got)
	}
}

func TestIntegration_RetriesExhausted(t *testing.T) {
	container, up := newIntegrationContainer(t, 1)
	up.Throttle(dataaccess.TableSchools, 10)

	hook := container.Client().Schools()
	res := hook.Use(context.Background())
	if res.Err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if !errors.Is(res.Err, throttle.ErrRetriesExhausted) {
		t.Errorf("expected ErrRetriesExhausted, got %v", res.Err)
	}
	var apiErr *airtable.Error
	if !errors.As(res.Err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected the last 429 in the chain, got %v", res.Err)
	}
	if hook.State() != dataaccess.Errored {
		t.Errorf("State = %s, want errored", hook.State())
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("errored result should carry empty data, got %#v", res.Data)
	}
	if got := up.Calls(http.MethodGet, dataaccess.TableSchools); got != 2 {
		t.Errorf("Expected 1 call plus 1 retry, got %d", got)
	}
}

func TestIntegration_UpstreamFailureIsNotRetried(t *testing.T) {
	container, up := newIntegrationContainer(t, 5)
	up.Fail(dataaccess.TableSchools, 1)

	res := container.Client().Schools().Use(context.Background())
	if res.Err == nil {
		t.Fatal("expected upstream error")
	}
	var apiErr *airtable.Error
	if !errors.As(res.Err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected a 500 upstream error, got %v", res.Err)
	}
	if got := up.Calls(http.MethodGet, dataaccess.TableSchools); got != 1 {
		t.Errorf("Expected no retry for a server error, got %d calls", got)
	}
}
