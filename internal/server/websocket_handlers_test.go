package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoC-dev/recipelens/internal/extract"
)

func dialTestWebSocket(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.extractWebSocketHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readWSResponse(t *testing.T, conn *websocket.Conn) WebSocketExtractResponse {
	t.Helper()
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var resp WebSocketExtractResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestWebSocketExtract(t *testing.T) {
	persons := 4
	stub := &stubExtractor{patch: extract.Patch{Persons: &persons}}
	conn := dialTestWebSocket(t, newTestServer(stub))

	req := WebSocketExtractRequest{
		Field:     "persons",
		Image:     []byte("fake-image"),
		Lang:      "en",
		RequestID: "req-1",
	}
	require.NoError(t, conn.WriteJSON(req))

	processing := readWSResponse(t, conn)
	assert.Equal(t, "processing", processing.Status)
	assert.Equal(t, "req-1", processing.RequestID)

	completed := readWSResponse(t, conn)
	assert.Equal(t, "completed", completed.Status)
	assert.Equal(t, "req-1", completed.RequestID)
	require.NotNil(t, completed.Patch)
	require.NotNil(t, completed.Patch.Persons)
	assert.Equal(t, 4, *completed.Patch.Persons)

	assert.Equal(t, extract.FieldPersons, stub.gotField)
	assert.Equal(t, []byte("fake-image"), stub.gotImage)
}

func TestWebSocketExtractAllFields(t *testing.T) {
	stub := &stubExtractor{}
	conn := dialTestWebSocket(t, newTestServer(stub))

	require.NoError(t, conn.WriteJSON(WebSocketExtractRequest{
		Field:     AllFieldsRequest,
		Image:     []byte("img"),
		RequestID: "req-2",
	}))

	var completedFields []string
	for _, want := range extract.AllFields() {
		processing := readWSResponse(t, conn)
		assert.Equal(t, "processing", processing.Status)
		assert.Equal(t, string(want), processing.Field)

		completed := readWSResponse(t, conn)
		assert.Equal(t, "completed", completed.Status)
		completedFields = append(completedFields, completed.Field)
	}

	done := readWSResponse(t, conn)
	assert.Equal(t, "done", done.Status)
	assert.Equal(t, "req-2", done.RequestID)

	fields := make([]string, 0, len(extract.AllFields()))
	for _, f := range extract.AllFields() {
		fields = append(fields, string(f))
	}
	assert.Equal(t, fields, completedFields)
}

func TestWebSocketExtractUnknownField(t *testing.T) {
	conn := dialTestWebSocket(t, newTestServer(&stubExtractor{}))

	require.NoError(t, conn.WriteJSON(WebSocketExtractRequest{
		Field: "bogus",
		Image: []byte("img"),
	}))

	resp := readWSResponse(t, conn)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "unknown field")
}

func TestWebSocketExtractMissingImage(t *testing.T) {
	conn := dialTestWebSocket(t, newTestServer(&stubExtractor{}))

	require.NoError(t, conn.WriteJSON(WebSocketExtractRequest{Field: "title"}))

	resp := readWSResponse(t, conn)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "no image data")
}

func TestWebSocketExtractInvalidJSON(t *testing.T) {
	conn := dialTestWebSocket(t, newTestServer(&stubExtractor{}))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	resp := readWSResponse(t, conn)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "invalid request")
}
