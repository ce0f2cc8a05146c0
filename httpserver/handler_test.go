package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/tabstream/logging"
)

const handlerTestCSV = "cat,value\nx,10\ny,20\nx,30\n"

func createTestHandler() *streamHandler {
	return &streamHandler{
		conf: &Config{},
		log:  logging.CreateLogger(logging.ErrorLevel, os.Stderr),
	}
}

func writeTestFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func get(handler http.Handler, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/stream/rows?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func ndjsonLines(t *testing.T, rec *httptest.ResponseRecorder) []string {
	require.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))
	body := strings.TrimRight(rec.Body.String(), "\n")
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

func TestStreamRowsPassthrough(t *testing.T) {
	path := writeTestFile(t, "rows.csv", handlerTestCSV)
	rec := get(createTestHandler(), url.Values{"path": {path}, "chunksize": {"2"}})
	require.Equal(t, http.StatusOK, rec.Code)
	lines := ndjsonLines(t, rec)
	require.Equal(t, 3, len(lines))
	require.Equal(t, `{"cat":"x","value":10}`, lines[0])
	require.Equal(t, `{"cat":"y","value":20}`, lines[1])
	require.Equal(t, `{"cat":"x","value":30}`, lines[2])
}

func TestStreamRowsScale(t *testing.T) {
	path := writeTestFile(t, "rows.csv", handlerTestCSV)
	rec := get(createTestHandler(), url.Values{
		"path":         {path},
		"chunksize":    {"2"},
		"transform":    {"scale"},
		"scale_src":    {"value"},
		"scale_factor": {"2"},
		"scale_out":    {"value_scaled"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	lines := ndjsonLines(t, rec)
	require.Equal(t, 3, len(lines))
	require.Equal(t, `{"cat":"x","value":10,"value_scaled":20}`, lines[0])
	require.Equal(t, `{"cat":"y","value":20,"value_scaled":40}`, lines[1])
	require.Equal(t, `{"cat":"x","value":30,"value_scaled":60}`, lines[2])
}

func TestStreamRowsGroup(t *testing.T) {
	path := writeTestFile(t, "rows.csv", handlerTestCSV)
	rec := get(createTestHandler(), url.Values{
		"path":        {path},
		"groupby_key": {"cat"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	lines := ndjsonLines(t, rec)
	require.Equal(t, 2, len(lines))
	require.Equal(t, `{"cat":"x","value_count":2,"value_sum":40,"value_mean":20}`, lines[0])
	require.Equal(t, `{"cat":"y","value_count":1,"value_sum":20,"value_mean":20}`, lines[1])
}

func TestStreamRowsJSONLByExtension(t *testing.T) {
	path := writeTestFile(t, "rows.jsonl", "{\"cat\":\"x\",\"value\":10}\n{\"cat\":\"y\",\"value\":20}\n")
	rec := get(createTestHandler(), url.Values{"path": {path}})
	require.Equal(t, http.StatusOK, rec.Code)
	lines := ndjsonLines(t, rec)
	require.Equal(t, 2, len(lines))
	require.Equal(t, `{"cat":"x","value":10}`, lines[0])
}

func TestStreamRowsColsProjection(t *testing.T) {
	path := writeTestFile(t, "rows.csv", handlerTestCSV)
	rec := get(createTestHandler(), url.Values{"path": {path}, "cols": {"value"}})
	require.Equal(t, http.StatusOK, rec.Code)
	lines := ndjsonLines(t, rec)
	require.Equal(t, 3, len(lines))
	require.Equal(t, `{"value":10}`, lines[0])
}

func TestStreamRowsNotFound(t *testing.T) {
	rec := get(createTestHandler(), url.Values{"path": {"/no/such/file.csv"}})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

func TestStreamRowsMissingColumnIsBadRequest(t *testing.T) {
	path := writeTestFile(t, "rows.csv", handlerTestCSV)
	rec := get(createTestHandler(), url.Values{
		"path":         {path},
		"transform":    {"scale"},
		"scale_src":    {"nope"},
		"scale_factor": {"2"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamRowsParamValidation(t *testing.T) {
	handler := createTestHandler()
	require.Equal(t, http.StatusBadRequest, get(handler, url.Values{}).Code)
	require.Equal(t, http.StatusBadRequest,
		get(handler, url.Values{"path": {"x.csv"}, "chunksize": {"0"}}).Code)
	require.Equal(t, http.StatusBadRequest,
		get(handler, url.Values{"path": {"x.csv"}, "chunksize": {"lots"}}).Code)
	require.Equal(t, http.StatusBadRequest,
		get(handler, url.Values{"path": {"x.csv"}, "transform": {"bogus"}}).Code)
	require.Equal(t, http.StatusBadRequest,
		get(handler, url.Values{"path": {"x.csv"}, "transform": {"scale"}}).Code)
}

func TestStreamRowsExplicitPassthroughIgnoresScaleParams(t *testing.T) {
	// a named transform is never overridden by stray shorthand params
	path := writeTestFile(t, "rows.csv", handlerTestCSV)
	rec := get(createTestHandler(), url.Values{
		"path":         {path},
		"transform":    {"passthrough"},
		"scale_src":    {"value"},
		"scale_factor": {"2"},
		"scale_out":    {"value_scaled"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	lines := ndjsonLines(t, rec)
	require.Equal(t, 3, len(lines))
	require.Equal(t, `{"cat":"x","value":10}`, lines[0])
}

func TestStreamRowsConflictingShorthandsAreBadRequest(t *testing.T) {
	path := writeTestFile(t, "rows.csv", handlerTestCSV)
	rec := get(createTestHandler(), url.Values{
		"path":         {path},
		"scale_src":    {"value"},
		"scale_factor": {"2"},
		"groupby_key":  {"cat"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamRowsDataDirJail(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "rows.csv"), []byte(handlerTestCSV), 0644))
	handler := &streamHandler{
		conf: &Config{DataDir: dir},
		log:  logging.CreateLogger(logging.ErrorLevel, os.Stderr),
	}
	rec := get(handler, url.Values{"path": {"rows.csv"}})
	require.Equal(t, http.StatusOK, rec.Code)
	// traversal cannot escape the data directory
	rec = get(handler, url.Values{"path": {"../../etc/passwd"}})
	require.NotEqual(t, http.StatusOK, rec.Code)
}

func TestStreamRowsCancelledContextEmitsNothing(t *testing.T) {
	path := writeTestFile(t, "rows.csv", handlerTestCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/stream/rows?path="+url.QueryEscape(path), nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	createTestHandler().ServeHTTP(rec, req)
	// the status line was already sent; the body is just truncated
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, len(ndjsonLines(t, rec)))
}

func TestUsageEndpoint(t *testing.T) {
	server := CreateServer(&Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.http.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/stream/rows")
}

func TestStreamRowsMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/stream/rows", nil)
	rec := httptest.NewRecorder()
	createTestHandler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
