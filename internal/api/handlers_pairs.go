package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/tokmesh/internal/cache"
	"github.com/dgallion1/tokmesh/internal/emit"
	"github.com/dgallion1/tokmesh/internal/pipeline"
	"github.com/dgallion1/tokmesh/internal/record"
)

const pairsContentType = "text/tab-separated-values; charset=utf-8"

// errTooLarge marks an upload over MaxUploadBytes.
var errTooLarge = errors.New("upload too large")

// handlePairs transforms a single record sent either as the raw body or as
// the multipart field "file".
func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for multipart overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	name, data, err := s.readUpload(r)
	if err != nil {
		s.writeUploadError(w, err)
		return
	}

	key := cache.Key(name, data)
	if entry, ok := s.cache.Get(key); ok {
		writePairs(w, entry.Output, entry.Counts.Pairs, "hit")
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	pw := emit.NewWriter(&buf)
	counts, err := pipeline.Transform(name, data, pw)
	if err == nil {
		err = pw.Flush()
	}
	if err != nil {
		s.stats.RecordFailure(time.Since(start))
		s.log.Warn("transform failed", "name", name, "error", err)
		writeTransformError(w, err, nil)
		return
	}
	s.stats.Record(time.Since(start), counts.Pairs)

	s.cache.Set(key, cache.Entry{Output: buf.Bytes(), Counts: counts})
	writePairs(w, buf.Bytes(), counts.Pairs, "miss")
}

// handleBatchPairs transforms the multipart "files" in upload order. The
// first failing file ends the request; later files are not processed.
func (s *Server) handleBatchPairs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, batchBodyLimit(s.cfg.MaxUploadBytes, s.cfg.MaxBatchFiles))

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		s.writeUploadError(w, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.MaxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files (%d > %d)", len(files), s.cfg.MaxBatchFiles), http.StatusBadRequest)
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	pw := emit.NewWriter(&buf)
	total := 0

	for i, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		detail := map[string]any{"filename": filename, "index": i}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open file "+filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read file "+filename, http.StatusBadRequest)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		counts, err := pipeline.Transform(filename, data, pw)
		if err != nil {
			s.stats.RecordFailure(time.Since(start))
			s.log.Warn("batch transform failed", "filename", filename, "index", i, "error", err)
			writeTransformError(w, err, detail)
			return
		}
		total += counts.Pairs
	}

	if err := pw.Flush(); err != nil {
		jsonError(w, "failed to render pairs", http.StatusInternalServerError)
		return
	}
	s.stats.Record(time.Since(start), total)

	w.Header().Set("X-File-Count", strconv.Itoa(len(files)))
	writePairs(w, buf.Bytes(), total, "")
}

// batchBodyLimit sizes a batch request body: every file at the upload limit
// plus 10MB of multipart overhead, saturating at math.MaxInt64.
func batchBodyLimit(maxUpload int64, maxFiles int) int64 {
	const overhead = 10 * 1024 * 1024
	if maxUpload <= 0 || maxFiles <= 0 {
		return overhead
	}
	files := int64(maxFiles)
	if maxUpload > (math.MaxInt64-overhead)/files {
		return math.MaxInt64
	}
	return maxUpload*files + overhead
}

// readUpload returns the record name and bytes from a raw or multipart body.
func (s *Server) readUpload(r *http.Request) (string, []byte, error) {
	var (
		name string
		src  io.Reader
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return "", nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()
		name = r.FormValue("name")
		if name == "" {
			name = header.Filename
		}
		src = file
	} else {
		name = r.URL.Query().Get("name")
		src = r.Body
	}

	data, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", nil, err
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return "", nil, errTooLarge
	}
	if name != "" {
		name = sanitizeFilename(name)
	}
	return name, data, nil
}

func (s *Server) writeUploadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.Is(err, errTooLarge) || errors.As(err, &maxErr) {
		jsonError(w, fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

func writePairs(w http.ResponseWriter, body []byte, pairs int, cacheStatus string) {
	w.Header().Set("Content-Type", pairsContentType)
	w.Header().Set("X-Pair-Count", strconv.Itoa(pairs))
	if cacheStatus != "" {
		w.Header().Set("X-Cache", cacheStatus)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// writeTransformError maps format errors to 422 and decode errors to 400.
func writeTransformError(w http.ResponseWriter, err error, detail map[string]any) {
	body := map[string]any{"error": err.Error()}
	for k, v := range detail {
		body[k] = v
	}

	code := http.StatusBadRequest
	var fe *record.FormatError
	if errors.As(err, &fe) {
		code = http.StatusUnprocessableEntity
		body["reason"] = fe.Reason.String()
		if fe.Item != "" {
			body["item"] = fe.Item
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
