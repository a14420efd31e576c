package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientListVersions(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[1, 2, 3]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	versions, err := c.ListVersions(context.Background(), "User")
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if want := "/subjects/User-value/versions"; gotPath != want {
		t.Errorf("path: got %s, want %s", gotPath, want)
	}
	if len(versions) != 3 || versions[2] != 3 {
		t.Errorf("got %v", versions)
	}
}

func TestClientGetSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subjects/User-value/versions/2" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"version":2,"schema":"\"string\"","schemaType":"AVRO","references":[{"name":"Address","subject":"Address-value","version":1}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	subj, err := c.GetSubject(context.Background(), "User", 2)
	if err != nil {
		t.Fatalf("GetSubject: %v", err)
	}
	if subj.SchemaText != `"string"` {
		t.Errorf("got schema text %q", subj.SchemaText)
	}
	if len(subj.References) != 1 || subj.References[0].Subject != "Address-value" {
		t.Errorf("got references %+v", subj.References)
	}
}

func TestClientNon200MapsToClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.GetSubject(context.Background(), "Missing", 1)
	if _, ok := err.(*ClientError); !ok {
		t.Fatalf("expected ClientError, got %T (%v)", err, err)
	}
}

func TestStripValueSuffix(t *testing.T) {
	cases := map[string]string{
		"Address-value": "Address",
		"Address":       "Address",
	}
	for in, want := range cases {
		if got := stripValueSuffix(in); got != want {
			t.Errorf("stripValueSuffix(%q) = %q, want %q", in, got, want)
		}
	}
}
