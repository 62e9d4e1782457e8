package recognizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Recognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/recognize", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("image")
		require.NoError(t, err)

		doc := FromLines("Tarte aux pommes", "4p")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	doc, err := c.Recognize(context.Background(), []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tarte aux pommes", "4p"}, doc.Lines())
}

func TestClient_Recognize_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unreadable input", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := c.Recognize(context.Background(), []byte("not an image"))
	require.Error(t, err)

	var recErr *RecognitionError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, http.StatusUnprocessableEntity, recErr.Status)
}

func TestClient_Recognize_Unreachable(t *testing.T) {
	c := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Recognize(context.Background(), []byte{1})
	var recErr *RecognitionError
	require.ErrorAs(t, err, &recErr)
	assert.Zero(t, recErr.Status)
}
