package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"media-catalog/internal/data/entity"

	"go.uber.org/zap"
)

// fakeCollection mimics a json-server style document collection over
// /reviews and /reviews/{id}.
type fakeCollection struct {
	docs map[string]entity.Review
}

func (c *fakeCollection) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/reviews")
	id = strings.TrimPrefix(id, "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		out := make([]entity.Review, 0, len(c.docs))
		for _, d := range c.docs {
			out = append(out, d)
		}
		json.NewEncoder(w).Encode(out)

	case r.Method == http.MethodPost && id == "":
		var doc entity.Review
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		c.docs[doc.ID] = doc
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(doc)

	case r.Method == http.MethodPatch:
		doc, ok := c.docs[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var patch map[string]json.RawMessage
		json.NewDecoder(r.Body).Decode(&patch)
		if raw, ok := patch["rating"]; ok {
			json.Unmarshal(raw, &doc.Rating)
		}
		if raw, ok := patch["body"]; ok {
			json.Unmarshal(raw, &doc.Body)
		}
		if raw, ok := patch["adminReply"]; ok {
			var reply string
			json.Unmarshal(raw, &reply)
			doc.AdminReply = &reply
		}
		c.docs[id] = doc
		json.NewEncoder(w).Encode(doc)

	case r.Method == http.MethodDelete:
		if _, ok := c.docs[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(c.docs, id)
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newStoreUnderTest(t *testing.T) (ReviewStore, *fakeCollection, *httptest.Server) {
	t.Helper()
	coll := &fakeCollection{docs: make(map[string]entity.Review)}
	srv := httptest.NewServer(coll)
	t.Cleanup(srv.Close)
	return NewHTTPReviewStore(srv.URL, 2*time.Second, zap.NewNop()), coll, srv
}

func TestHTTPReviewStoreCreateAndFetch(t *testing.T) {
	store, _, _ := newStoreUnderTest(t)
	ctx := context.Background()

	review := &entity.Review{
		ID:         "r1",
		ItemID:     "m1",
		AuthorID:   "u1",
		AuthorName: "alice",
		Rating:     4,
		Body:       "Great",
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Create(ctx, review); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 review, got %d", len(got))
	}
	if got[0].ID != "r1" || got[0].Rating != 4 || got[0].AuthorName != "alice" {
		t.Fatalf("round-tripped review wrong: %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(review.CreatedAt) {
		t.Fatalf("createdAt mangled: %v", got[0].CreatedAt)
	}
}

func TestHTTPReviewStorePatch(t *testing.T) {
	store, coll, _ := newStoreUnderTest(t)
	ctx := context.Background()

	coll.docs["r1"] = entity.Review{ID: "r1", ItemID: "m1", AuthorID: "u1", Rating: 4, Body: "Great"}

	rating := 2
	body := "Worse on rewatch"
	updated, err := store.Patch(ctx, "r1", ReviewPatch{Rating: &rating, Body: &body})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if updated.Rating != 2 || updated.Body != "Worse on rewatch" {
		t.Fatalf("patch not reflected in response: %+v", updated)
	}
	if updated.AdminReply != nil {
		t.Fatal("adminReply must be untouched by a rating/body patch")
	}

	reply := "Thanks"
	updated, err = store.Patch(ctx, "r1", ReviewPatch{AdminReply: &reply})
	if err != nil {
		t.Fatalf("reply Patch failed: %v", err)
	}
	if updated.AdminReply == nil || *updated.AdminReply != "Thanks" {
		t.Fatalf("reply patch not reflected: %+v", updated)
	}
	if updated.Rating != 2 {
		t.Fatal("rating must be untouched by a reply patch")
	}
}

func TestHTTPReviewStorePatchMissing(t *testing.T) {
	store, _, _ := newStoreUnderTest(t)

	rating := 3
	_, err := store.Patch(context.Background(), "nope", ReviewPatch{Rating: &rating})
	if !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestHTTPReviewStoreDelete(t *testing.T) {
	store, coll, _ := newStoreUnderTest(t)
	ctx := context.Background()

	coll.docs["r1"] = entity.Review{ID: "r1", ItemID: "m1", AuthorID: "u1"}

	if err := store.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "r1"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound on second delete, got %v", err)
	}
}

func TestHTTPReviewStoreServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	store := NewHTTPReviewStore(srv.URL, 2*time.Second, zap.NewNop())
	ctx := context.Background()

	if _, err := store.FetchAll(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on 500 fetch, got %v", err)
	}
	if err := store.Create(ctx, &entity.Review{ID: "r1"}); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on 500 create, got %v", err)
	}
	rating := 3
	if _, err := store.Patch(ctx, "r1", ReviewPatch{Rating: &rating}); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on 500 patch, got %v", err)
	}
	if err := store.Delete(ctx, "r1"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on 500 delete, got %v", err)
	}
}

func TestHTTPReviewStoreDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	store := NewHTTPReviewStore(srv.URL, time.Second, zap.NewNop())

	if _, err := store.FetchAll(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable when store is down, got %v", err)
	}
}
