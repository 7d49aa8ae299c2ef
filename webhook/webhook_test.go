package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDeliver_Signed(t *testing.T) {
	var gotSig, gotUA string
	var got Event
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotSig = r.Header.Get(SignatureHeader)
		gotUA = r.Header.Get("User-Agent")
		if Sign("s3cret", body) != gotSig {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.Unmarshal(body, &got)
	}))
	defer ts.Close()

	ev := &Event{Type: EventBatchCompleted, JobID: "job-1", Timestamp: 1, Data: map[string]int{"completed": 2}}
	if err := NewNotifier().Deliver(context.Background(), ts.URL, "s3cret", ev); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if gotUA != "MenuMaker-Webhook/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if got.JobID != "job-1" || got.Type != EventBatchCompleted {
		t.Errorf("event = %+v", got)
	}
}

func TestDeliver_Unsigned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(SignatureHeader) != "" {
			t.Error("signature sent without secret")
		}
	}))
	defer ts.Close()

	if err := NewNotifier().Deliver(context.Background(), ts.URL, "", &Event{Type: EventBatchFailed}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
}

func TestDeliverWithRetry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer ts.Close()

	n := NewNotifier()
	n.delays = []time.Duration{0, time.Millisecond, time.Millisecond}
	if !n.deliverWithRetry(ts.URL, "", &Event{Type: EventBatchCompleted}) {
		t.Fatal("delivery should succeed on the third attempt")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}

	calls.Store(-10)
	if n.deliverWithRetry(ts.URL, "", &Event{Type: EventBatchCompleted}) {
		t.Error("delivery should give up after the last retry")
	}
}
