package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-registry-cache/airtable"
)

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadRecords loads a list of upstream records. The fixture may be either a bare
// JSON array of records or a list response ({"records": [...]}).
func LoadRecords(t *testing.T, path string) []airtable.Record {
	t.Helper()

	data := LoadFixture(t, path)

	var records []airtable.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records
	}

	var envelope struct {
		Records []airtable.Record `json:"records"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("failed to unmarshal records fixture from %s: %v", path, err)
	}
	return envelope.Records
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// Upstream is a fake upstream API serving fixed records per table.
//
// It answers list calls with the table's records (ignoring filters), echoes creates
// and updates, confirms deletes, and counts every request per method and table.
// Tables listed in Throttle answer 429 for the given number of requests first.
type Upstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	tables   map[string][]airtable.Record
	calls    map[string]int
	throttle map[string]int
	fail     map[string]int
}

// NewUpstream starts a fake upstream. It is closed when the test ends.
func NewUpstream(t testing.TB, tables map[string][]airtable.Record) *Upstream {
	t.Helper()

	u := &Upstream{
		tables:   tables,
		calls:    make(map[string]int),
		throttle: make(map[string]int),
		fail:     make(map[string]int),
	}
	if u.tables == nil {
		u.tables = make(map[string][]airtable.Record)
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Server.Close)
	return u
}

// Throttle makes the next n requests against table answer 429.
func (u *Upstream) Throttle(table string, n int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.throttle[table] = n
}

// Fail makes the next n requests against table answer 500.
func (u *Upstream) Fail(table string, n int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fail[table] = n
}

// Calls returns how many requests were made with method against table.
func (u *Upstream) Calls(method, table string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[method+" "+table]
}

// Config returns client settings pointing at the fake.
func (u *Upstream) Config() airtable.Config {
	return airtable.Config{BaseURL: u.Server.URL, BaseID: "appTEST", APIKey: "test-key"}
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	// /{baseID}/{table}[/{id}]
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 3)
	if len(parts) < 2 {
		http.NotFound(w, r)
		return
	}
	table := parts[1]
	id := ""
	if len(parts) == 3 {
		id = parts[2]
	}

	u.mu.Lock()
	u.calls[r.Method+" "+table]++
	throttled := u.throttle[table] > 0
	if throttled {
		u.throttle[table]--
	}
	failed := !throttled && u.fail[table] > 0
	if failed {
		u.fail[table]--
	}
	records := append([]airtable.Record(nil), u.tables[table]...)
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case throttled:
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"RATE_LIMIT_REACHED","message":"rate limit"}}`))
		return
	case failed:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"SERVER_ERROR","message":"boom"}}`))
		return
	}

	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"records": records})
	case http.MethodPost, http.MethodPatch:
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if id == "" {
			id = "recCREATED"
		}
		_ = json.NewEncoder(w).Encode(airtable.Record{ID: id, Fields: body.Fields})
	case http.MethodDelete:
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "deleted": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
