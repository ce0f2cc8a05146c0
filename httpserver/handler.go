package httpserver

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sif/tabstream"
	"github.com/go-sif/tabstream/datasource/file"
	"github.com/go-sif/tabstream/datasource/parser/dsv"
	"github.com/go-sif/tabstream/datasource/parser/jsonl"
	errors "github.com/go-sif/tabstream/errors"
	"github.com/go-sif/tabstream/logging"
	"github.com/go-sif/tabstream/pipeline"
)

const defaultChunkSize = 50

// streamHandler starts one pipeline run per request and emits its records as
// NDJSON, flushing each record to the client as it is produced
type streamHandler struct {
	conf *Config
	log  *logging.Logger
}

// streamParams is the invocation contract of the streaming endpoint
type streamParams struct {
	path      string
	chunkSize int
	conf      *tabstream.PipelineConfig
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// parseParams extracts and validates the query parameters of one stream request
func parseParams(r *http.Request) (*streamParams, string) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		return nil, "path is required"
	}
	chunkSize := defaultChunkSize
	if cs := q.Get("chunksize"); cs != "" {
		parsed, err := strconv.Atoi(cs)
		if err != nil || parsed <= 0 {
			return nil, "chunksize must be a positive integer"
		}
		chunkSize = parsed
	}
	conf := &tabstream.PipelineConfig{
		Variant:    tabstream.Passthrough,
		ScaleSrc:   q.Get("scale_src"),
		ScaleOut:   q.Get("scale_out"),
		GroupByKey: q.Get("groupby_key"),
	}
	if cols := q.Get("cols"); cols != "" {
		conf.Columns = strings.Split(cols, ",")
	}
	switch variant := q.Get("transform"); variant {
	case "":
		// transform-specific params imply the variant when it is not named,
		// but an explicit transform is never overridden
		if conf.ScaleSrc != "" && conf.GroupByKey != "" {
			return nil, "scale_src and groupby_key are both present: name the transform explicitly"
		}
		if conf.ScaleSrc != "" {
			conf.Variant = tabstream.ColumnScale
		} else if conf.GroupByKey != "" {
			conf.Variant = tabstream.GroupAggregate
		}
	case "passthrough":
	case "scale":
		conf.Variant = tabstream.ColumnScale
	case "group":
		conf.Variant = tabstream.GroupAggregate
	default:
		return nil, "transform must be one of passthrough, scale, group"
	}
	if conf.Variant == tabstream.ColumnScale {
		factor := q.Get("scale_factor")
		if factor == "" {
			return nil, "scale_factor is required for the scale transform"
		}
		parsed, err := strconv.ParseFloat(factor, 64)
		if err != nil {
			return nil, "scale_factor must be a number"
		}
		conf.ScaleFactor = parsed
		if conf.ScaleOut == "" {
			conf.ScaleOut = conf.ScaleSrc
		}
	}
	return &streamParams{path: path, chunkSize: chunkSize, conf: conf}, ""
}

// resolvePath applies the optional DataDir jail to a requested source path
func (h *streamHandler) resolvePath(path string) (string, bool) {
	if h.conf.DataDir == "" {
		return path, true
	}
	resolved := filepath.Join(h.conf.DataDir, filepath.Clean("/"+path))
	rel, err := filepath.Rel(h.conf.DataDir, resolved)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return resolved, true
}

// parserFor picks a DataSourceParser by file extension
func parserFor(path string, chunkSize int) tabstream.DataSourceParser {
	trimmed := strings.TrimSuffix(path, ".lz4")
	switch filepath.Ext(trimmed) {
	case ".jsonl", ".ndjson":
		return jsonl.CreateParser(&jsonl.ParserConf{ChunkSize: chunkSize})
	default:
		return dsv.CreateParser(&dsv.ParserConf{ChunkSize: chunkSize})
	}
}

func (h *streamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	params, problem := parseParams(r)
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}
	path, ok := h.resolvePath(params.path)
	if !ok {
		writeError(w, http.StatusNotFound, "path is outside the data directory")
		return
	}
	source := file.CreateDataSource(path)
	parser := parserFor(path, params.chunkSize)
	runner := pipeline.CreateRunner(source, parser, params.conf, h.log)

	records, err := runner.Run(r.Context())
	if err != nil {
		switch {
		case errors.IsNotFound(err):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.IsConfigError(err), errors.IsFormatError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	defer records.Close()

	// from here on the status line is sent: mid-stream failures can only
	// truncate the body, never retract what was already emitted
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	for {
		record, err := records.NextRecord()
		if err != nil {
			if !errors.IsNoMoreRecords(err) {
				h.log.Warnf("run %s: stream truncated: %v", runner.ID(), err)
			}
			break
		}
		if err = enc.Encode(record); err != nil {
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	h.log.Debugf("run %s: finished in state %s", runner.ID(), runner.State())
}
