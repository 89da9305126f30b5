package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"qber/internal/logging"
	"qber/internal/taxonomy"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		Endpoint:   srv.URL,
		Token:      "test-token",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}, logging.Discard())
	return client, srv
}

func TestLeafGroups(t *testing.T) {
	var gotAuth, gotRequestID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.OperationName != "LeafGroups" {
			t.Errorf("operationName = %q, want LeafGroups", req.OperationName)
		}
		if req.Variables["projectId"] != "p1" {
			t.Errorf("projectId = %v, want p1", req.Variables["projectId"])
		}

		_, _ = w.Write([]byte(`{"data":{"questionnaire":{"leafGroups":[
			{"id":"g1","type":"MATRIX_1D","order":1,"category1":"health","category1Display":"Health"},
			{"id":"g2","type":"MATRIX_2D","order":2,"isHidden":true,"category1":"health","category1Display":"Health","category2":"wash","category2Display":"WASH"}
		]}}}`))
	})

	records, err := client.LeafGroups(context.Background(), "p1", "q1")
	if err != nil {
		t.Fatalf("LeafGroups() error: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected an X-Request-Id header")
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "g1" || records[0].Type != taxonomy.Matrix1D {
		t.Errorf("record 0 = %+v", records[0])
	}
	if !records[1].IsHidden || records[1].Category2 != "wash" {
		t.Errorf("record 1 = %+v", records[1])
	}
}

func TestGraphQLErrorsFailTheOperation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"questionnaire not found"}]}`))
	})

	_, err := client.LeafGroups(context.Background(), "p1", "missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var gqlErr *GraphQLError
	if !errors.As(err, &gqlErr) {
		t.Fatalf("expected *GraphQLError, got %T: %v", err, err)
	}
	if len(gqlErr.Errors) != 1 || gqlErr.Errors[0].Message != "questionnaire not found" {
		t.Errorf("unexpected errors: %+v", gqlErr.Errors)
	}
}

func TestRetriesOnServerError(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"questionnaire":{"leafGroups":[]}}}`))
	})

	_, err := client.LeafGroups(context.Background(), "p1", "q1")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad token"))
	})

	_, err := client.LeafGroups(context.Background(), "p1", "q1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("expected unauthorized, got status %d", apiErr.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", got)
	}
}

func TestBulkReorder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		data, ok := req.Variables["data"].([]interface{})
		if !ok || len(data) != 2 {
			t.Errorf("expected 2 order entries, got %v", req.Variables["data"])
		}

		_, _ = w.Write([]byte(`{"data":{"bulkReorderLeafGroups":{"ok":true,"leafGroups":[
			{"id":"b","order":1,"category1":"x","category1Display":"X"},
			{"id":"a","order":2,"category1":"y","category1Display":"Y"}
		]}}}`))
	})

	records, err := client.BulkReorder(context.Background(), "p1", "q1", []taxonomy.OrderAssignment{
		{ID: "b", Order: 1},
		{ID: "a", Order: 2},
	})
	if err != nil {
		t.Fatalf("BulkReorder() error: %v", err)
	}
	if len(records) != 2 || records[0].ID != "b" || records[0].Order != 1 {
		t.Errorf("unexpected authoritative records: %+v", records)
	}
}

func TestBulkVisibility(t *testing.T) {
	var gotVisibility string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotVisibility, _ = req.Variables["visibility"].(string)
		_, _ = w.Write([]byte(`{"data":{"bulkUpdateLeafGroupsVisibility":{"ok":true,"ids":["a","b"]}}}`))
	})

	err := client.BulkVisibility(context.Background(), "p1", "q1", []string{"a", "b"}, Hide)
	if err != nil {
		t.Fatalf("BulkVisibility() error: %v", err)
	}
	if gotVisibility != "HIDE" {
		t.Errorf("visibility = %q, want HIDE", gotVisibility)
	}
}

func TestContextCancellationStopsRetries(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.LeafGroups(ctx, "p1", "q1")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
