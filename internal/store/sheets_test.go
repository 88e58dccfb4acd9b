package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeSheets implements just enough of the values API: PUT updates are
// recorded per range, GET returns whatever rows were written.
type fakeSheets struct {
	mu     sync.Mutex
	ranges map[string][][]string // range ref -> values
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{ranges: map[string][][]string{}}
}

func (f *fakeSheets) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header = %q", got)
		}
		parts := strings.Split(r.URL.Path, "/values/")
		if len(parts) != 2 {
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}
		ref := parts[1]

		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			var body struct {
				Values [][]string `json:"values"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			f.ranges[ref] = body.Values
			json.NewEncoder(w).Encode(map[string]any{"updatedRange": ref})
		case http.MethodGet:
			var values [][]string
			if header, ok := f.ranges["latest!A1:D1"]; ok {
				values = append(values, header[0])
			}
			if row, ok := f.ranges["latest!A2:D2"]; ok {
				values = append(values, row[0])
			}
			resp := map[string]any{"range": ref}
			if values != nil {
				resp["values"] = values
			}
			json.NewEncoder(w).Encode(resp)
		default:
			http.Error(w, "method", http.StatusMethodNotAllowed)
		}
	}
}

func newTestSheetsStore(t *testing.T, fake *fakeSheets) *SheetsStore {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	s := NewSheetsStore("sheet-id", "latest", "test-token", "")
	s.BaseURL = srv.URL
	return s
}

func TestSheetsStore_WriteEnsuresHeaderAndRow(t *testing.T) {
	fake := newFakeSheets()
	s := newTestSheetsStore(t, fake)

	if err := s.Write(context.Background(), sampleSnapshot()); err != nil {
		t.Fatalf("write: %v", err)
	}

	header, ok := fake.ranges["latest!A1:D1"]
	if !ok {
		t.Fatal("header range was not written")
	}
	for i, want := range Header {
		if header[0][i] != want {
			t.Errorf("header cell %d = %q, want %q", i, header[0][i], want)
		}
	}
	row, ok := fake.ranges["latest!A2:D2"]
	if !ok {
		t.Fatal("data range was not written")
	}
	if len(row[0]) != 4 {
		t.Errorf("data row has %d cells, want 4", len(row[0]))
	}
}

func TestSheetsStore_ReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSheets()
	s := newTestSheetsStore(t, fake)

	want := sampleSnapshot()
	if err := s.Write(ctx, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := s.ReadLatest(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatal("expected a snapshot")
	}
	if !got.Timestamp.Equal(want.Timestamp) ||
		!got.CurrentAssets.Equal(want.CurrentAssets) ||
		!got.CurrentLiabilities.Equal(want.CurrentLiabilities) ||
		!got.Inventory.Equal(want.Inventory) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestSheetsStore_HeaderOnlyReadsAbsent(t *testing.T) {
	fake := newFakeSheets()
	fake.ranges["latest!A1:D1"] = [][]string{Header}
	s := newTestSheetsStore(t, fake)

	got, err := s.ReadLatest(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Errorf("expected absent for a header-only sheet, got %+v", got)
	}
}

func TestSheetsStore_ServiceErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	s := NewSheetsStore("sheet-id", "latest", "test-token", "")
	s.BaseURL = srv.URL

	if err := s.Write(context.Background(), sampleSnapshot()); err == nil {
		t.Error("expected write to fail loudly on a service error")
	}
	if _, err := s.ReadLatest(context.Background()); err == nil {
		t.Error("expected read to fail loudly on a service error")
	}
}
