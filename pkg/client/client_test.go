package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"localhost:3000", "ftp://example.com", "://"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q): expected error", raw)
		}
	}
}

func TestQuery_EncodesParameters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{
			"name": "naruto", "tag": "Popular,New release", "genre": "Action",
			"year": "2002", "minRating": "7.5", "sort": "rating", "order": "desc",
			"page": "2", "pageSize": "5",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("param %s: got %q, want %q", k, got, v)
			}
		}
		if q.Has("maxRating") || q.Has("description") {
			t.Errorf("unset params must be omitted: %v", q)
		}
		writeJSON(w, http.StatusOK, Page{
			Items:      []Record{{ID: 1, Name: "Naruto"}},
			Pagination: Pagination{Total: 6, Page: 2, TotalPages: 2, PageSize: 5},
		})
	})

	year, minRating := 2002, 7.5
	page, err := c.Query(context.Background(), Query{
		Name: "naruto", Tags: []string{"Popular", "New release"}, Genres: []string{"Action"},
		Year: &year, MinRating: &minRating, Sort: "rating", Order: "desc", Page: 2, PageSize: 5,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page.Items) != 1 || page.Pagination.TotalPages != 2 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestRecordsCRUD(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/records":
			var in RecordInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Fatalf("decode create body: %v", err)
			}
			writeJSON(w, http.StatusCreated, Record{ID: 7, Name: in.Name, Year: in.Year})
		case r.Method == http.MethodGet && r.URL.Path == "/records/7":
			writeJSON(w, http.StatusOK, Record{ID: 7, Name: "Monster"})
		case r.Method == http.MethodPatch && r.URL.Path == "/records/7":
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"rating":9}` {
				t.Errorf("patch body: got %s", body)
			}
			writeJSON(w, http.StatusOK, Record{ID: 7, Name: "Monster", Rating: 9})
		case r.Method == http.MethodDelete && r.URL.Path == "/records/7":
			writeJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"code": "not_found", "message": "not found"})
		}
	})
	ctx := context.Background()

	rec, err := c.Create(ctx, RecordInput{Name: "Monster", Year: 2004})
	if err != nil || rec.ID != 7 || rec.Year != 2004 {
		t.Fatalf("create: %+v, %v", rec, err)
	}
	if rec, err = c.Get(ctx, 7); err != nil || rec.Name != "Monster" {
		t.Fatalf("get: %+v, %v", rec, err)
	}
	rating := 9.0
	if rec, err = c.Update(ctx, 7, RecordPatch{Rating: &rating}); err != nil || rec.Rating != 9 {
		t.Fatalf("update: %+v, %v", rec, err)
	}
	if err := c.Delete(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = c.Get(ctx, 8)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "not_found" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAPIError_ValidationField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code": "validation_failed", "message": "invalid record: name is required", "field": "name",
		})
	})

	_, err := c.Create(context.Background(), RecordInput{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Field != "name" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if !strings.Contains(apiErr.Error(), "field name") {
		t.Errorf("error string: %q", apiErr.Error())
	}
}

func TestAPIError_NonJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Home(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "http_error" || apiErr.Message != "bad gateway" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHome(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"Popular":{"total":1,"items":[{"id":1,"name":"A","img":"a.png"}]},"New release":{"total":0,"items":[]}}`)
	})

	home, err := c.Home(context.Background())
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if home["Popular"].Total != 1 || home["Popular"].Items[0].Img != "a.png" {
		t.Errorf("Popular: %+v", home["Popular"])
	}
	if _, ok := home["New release"]; !ok {
		t.Error("missing New release section")
	}
}

func TestUpload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "cover.png" || string(data) != "PNGDATA" {
			t.Errorf("unexpected upload %q: %q", header.Filename, data)
		}
		writeJSON(w, http.StatusOK, UploadResult{Message: "File uploaded successfully", URL: "http://x/uploads/1.png"})
	})

	u, err := c.Upload(context.Background(), "cover.png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if u != "http://x/uploads/1.png" {
		t.Errorf("url: got %q", u)
	}
}

func TestUpload_ServerRejects(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{
			"code": "unsupported_media_type", "message": "unsupported media type: text/plain",
		})
	})

	_, err := c.Upload(context.Background(), "notes.txt", strings.NewReader("hello"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnsupportedMediaType {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Health{Status: "ok", Checks: map[string]string{"storage": "ok"}})
	})

	h, err := c.Health(context.Background())
	if err != nil || h.Status != "ok" || h.Checks["storage"] != "ok" {
		t.Fatalf("health: %+v, %v", h, err)
	}
}

func TestContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Page{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Query(ctx, Query{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
