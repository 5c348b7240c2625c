package repository

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"testgen/internal/firestore"
	"testgen/internal/platform/logger"
)

const fakeRoot = "/v1/projects/demo/databases/(default)/documents/"

// fakeFirestore is an in-memory document store speaking the REST wire format
type fakeFirestore struct {
	mu       sync.Mutex
	docs     map[string]firestore.Fields
	calls    []string
	failWith map[string]int // method -> status to answer with
	nextID   int
}

func newFakeFirestore(t *testing.T) (*fakeFirestore, *firestore.Client) {
	t.Helper()
	f := &fakeFirestore{docs: map[string]firestore.Fields{}, failWith: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	client := firestore.NewClient(firestore.Config{ProjectID: "demo", BaseURL: srv.URL, Timeout: 2 * time.Second}, logger.Nop())
	return f, client
}

func (f *fakeFirestore) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, fakeRoot)
	f.calls = append(f.calls, r.Method+" "+path)
	if status, ok := f.failWith[r.Method]; ok {
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"error":{"code":%d}}`, status)
		return
	}

	switch r.Method {
	case http.MethodGet:
		fields, ok := f.docs[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.write(w, path, fields)
	case http.MethodPatch:
		var doc firestore.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.docs[path] = doc.Fields
		f.write(w, path, doc.Fields)
	case http.MethodPost:
		var doc firestore.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.nextID++
		docPath := fmt.Sprintf("%s/gen%d", path, f.nextID)
		f.docs[docPath] = doc.Fields
		f.write(w, docPath, doc.Fields)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeFirestore) write(w http.ResponseWriter, path string, fields firestore.Fields) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(firestore.Document{
		Name:   "projects/demo/databases/(default)/documents/" + path,
		Fields: fields,
	})
}

func (f *fakeFirestore) fail(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith[method] = status
}

func (f *fakeFirestore) clearFailure(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failWith, method)
}

func (f *fakeFirestore) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFirestore) put(path string, fields firestore.Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[path] = fields
}
