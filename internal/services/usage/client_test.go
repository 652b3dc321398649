package usage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const successBody = `{
	"model_remains": [
		{
			"start_time": 1770000000000,
			"end_time": 1770018000000,
			"remains_time": 9000000,
			"current_interval_total_count": 100,
			"current_interval_usage_count": 20,
			"model_name": "MiniMax-M2"
		}
	],
	"base_resp": {"status_code": 0, "status_msg": "success"}
}`

func TestFetchUsageSuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(successBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	records, err := client.FetchUsage(context.Background(), "sk-test")
	if err != nil {
		t.Fatalf("FetchUsage() failed: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.ModelName != "MiniMax-M2" {
		t.Errorf("ModelName = %q", r.ModelName)
	}
	if r.TotalCount != 100 || r.RemainingCount != 20 {
		t.Errorf("counts = %d/%d, want 100/20", r.TotalCount, r.RemainingCount)
	}
	if r.UsedCount() != 80 {
		t.Errorf("UsedCount() = %d, want 80", r.UsedCount())
	}
	if r.UsagePercentage() != 80 {
		t.Errorf("UsagePercentage() = %v, want 80", r.UsagePercentage())
	}
	if want := time.UnixMilli(1770000000000); !r.WindowStart.Equal(want) {
		t.Errorf("WindowStart = %v, want %v", r.WindowStart, want)
	}
	if want := 9000000 * time.Millisecond; r.RemainingTime != want {
		t.Errorf("RemainingTime = %v, want %v", r.RemainingTime, want)
	}
}

func TestFetchUsageNoKey(t *testing.T) {
	client := NewClient("http://localhost:1")
	_, err := client.FetchUsage(context.Background(), "")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestFetchUsageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FetchUsage(context.Background(), "sk-bad"); err == nil {
		t.Error("expected error for 401 response")
	}
}

func TestFetchUsageAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"model_remains": [], "base_resp": {"status_code": 1004, "status_msg": "invalid api key"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchUsage(context.Background(), "sk-test")
	if err == nil {
		t.Fatal("expected error for non-zero status_code")
	}
	if got := err.Error(); got != "api error (status 1004): invalid api key" {
		t.Errorf("error = %q", got)
	}
}

func TestFetchUsageMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FetchUsage(context.Background(), "sk-test"); err == nil {
		t.Error("expected error for malformed body")
	}
}
