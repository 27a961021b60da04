package testsupport

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/rs/zerolog"
)

func TestLoadFixture(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("test fixture content")

	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := LoadFixture(t, testFile)
	if string(result) != string(testContent) {
		t.Errorf("expected %q, got %q", testContent, result)
	}
}

func TestLoadRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bare array", content: `[{"id":"rec1","fields":{"Name":"Acorn"}},{"id":"rec2","fields":{}}]`},
		{name: "list response", content: `{"records":[{"id":"rec1","fields":{"Name":"Acorn"}},{"id":"rec2","fields":{}}],"offset":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "records.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to create fixture: %v", err)
			}

			records := LoadRecords(t, path)
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}
			if records[0].ID != "rec1" || records[0].Fields["Name"] != "Acorn" {
				t.Errorf("unexpected first record %+v", records[0])
			}
		})
	}
}

func TestFixturePath(t *testing.T) {
	if got := FixturePath("schools.json"); got != filepath.Join("testdata", "schools.json") {
		t.Errorf("unexpected path %q", got)
	}
}

func TestUpstream(t *testing.T) {
	up := NewUpstream(t, map[string][]airtable.Record{
		"Schools": {{ID: "rec1", Fields: map[string]any{"Name": "Acorn"}}},
	})
	client := airtable.NewClient(up.Config(), zerolog.Nop(), nil)
	ctx := context.Background()

	records, err := client.FetchRecords(ctx, "Schools", airtable.Query{})
	if err != nil || len(records) != 1 {
		t.Fatalf("FetchRecords() = %v, %v", records, err)
	}

	up.Throttle("Schools", 1)
	_, err = client.FetchRecords(ctx, "Schools", airtable.Query{})
	var apiErr *airtable.Error
	if !errors.As(err, &apiErr) || !apiErr.Throttled() {
		t.Fatalf("expected throttled error, got %v", err)
	}

	up.Fail("Schools", 1)
	if _, err := client.FetchRecords(ctx, "Schools", airtable.Query{}); err == nil {
		t.Fatal("expected server error")
	}

	if _, err := client.UpdateRecord(ctx, "Schools", "rec1", map[string]any{"Name": "Oak"}); err != nil {
		t.Fatalf("UpdateRecord() error: %v", err)
	}

	if got := up.Calls(http.MethodGet, "Schools"); got != 3 {
		t.Errorf("expected 3 GET calls, got %d", got)
	}
	if got := up.Calls(http.MethodPatch, "Schools"); got != 1 {
		t.Errorf("expected 1 PATCH call, got %d", got)
	}
}
