package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// A collection that already exists must not fail startup: some Qdrant
// versions answer the create PUT with 409 instead of acknowledging it.
func TestEnsureCollection_ExistingCollectionIsNotAnError(t *testing.T) {
	var collectionPuts, indexPuts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/documents":
			collectionPuts++
			w.WriteHeader(http.StatusConflict)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/documents/index":
			indexPuts++
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL, Collection: "documents"})
	if err := s.EnsureCollection(context.Background(), 4); err != nil {
		t.Fatalf("existing collection should not fail setup: %v", err)
	}
	if collectionPuts != 1 || indexPuts != 1 {
		t.Fatalf("expected one collection PUT and one index PUT, got %d and %d", collectionPuts, indexPuts)
	}
}

func TestEnsureCollection_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	if err := s.EnsureCollection(context.Background(), 4); err == nil {
		t.Fatal("expected error when collection create returns 500")
	}
}

func TestCreateCollection_SendsRequestedDistance(t *testing.T) {
	var body struct {
		Vectors struct {
			Size     int    `json:"size"`
			Distance string `json:"distance"`
		} `json:"vectors"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/collections/temp_eval_abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	if err := s.CreateCollection(context.Background(), "temp_eval_abc", 8, "Dot"); err != nil {
		t.Fatalf("create collection: %v", err)
	}
	if body.Vectors.Size != 8 || body.Vectors.Distance != "Dot" {
		t.Fatalf("got size=%d distance=%q", body.Vectors.Size, body.Vectors.Distance)
	}
}

func TestDeleteCollection(t *testing.T) {
	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		deleted = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore(Config{BaseURL: srv.URL})
	if err := s.DeleteCollection(context.Background(), "temp_eval_abc"); err != nil {
		t.Fatalf("delete collection: %v", err)
	}
	if deleted != "/collections/temp_eval_abc" {
		t.Fatalf("deleted wrong path %q", deleted)
	}
}
