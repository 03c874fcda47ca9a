package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/readinglist/internal/emit"
	"github.com/dgallion1/readinglist/internal/parser"
	"github.com/dgallion1/readinglist/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleParse converts an uploaded document. Multipart requests carry the
// document in the "file" field; any other body is read as plain text.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	var (
		body     io.Reader
		filename = "upload.txt"
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		body = file
		filename = sanitizeFilename(header.Filename)
	} else {
		body = r.Body
	}

	data, err := io.ReadAll(io.LimitReader(body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	format := formatParam(r)
	if !validFormat(format) {
		jsonError(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}

	res, err := s.converter.Convert(r.Context(), bytes.NewReader(data), filename)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupported) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Warn("conversion failed", "filename", filename, "error", err)
		jsonError(w, "failed to parse document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		res.Title = title
	}
	if s.results != nil {
		s.results.Put(res)
	}

	s.writeResult(w, r, res, format)
}

// handleGetResult re-renders a stored conversion, typically in another
// format than the one first requested.
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	format := formatParam(r)
	if !validFormat(format) {
		jsonError(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}

	var res *pipeline.Result
	if s.results != nil {
		res = s.results.Get(docID)
	}
	if res == nil {
		jsonError(w, "result not found", http.StatusNotFound)
		return
	}
	s.writeResult(w, r, res, format)
}

// writeResult sends the JSON envelope for "json" and the emitted file for
// every other format.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res *pipeline.Result, format string) {
	w.Header().Set("X-Doc-ID", res.DocID)
	w.Header().Set("X-Reading-Count", strconv.Itoa(len(res.Bibliography.Readings)))

	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
		return
	}

	wr, err := emit.ForFormat(format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := wr.Write(r.Context(), &buf, res.Bibliography); err != nil {
		s.log.Error("emit failed", "doc_id", res.DocID, "format", format, "error", err)
		jsonError(w, "failed to render output", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", wr.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "readings-"+res.DocID+outputExt(format)))
	w.Write(buf.Bytes())
}

func formatParam(r *http.Request) string {
	if f := strings.ToLower(strings.TrimSpace(r.FormValue("format"))); f != "" {
		return f
	}
	return "json"
}

func validFormat(format string) bool {
	if format == "json" {
		return true
	}
	_, err := emit.ForFormat(format)
	return err == nil
}

func outputExt(format string) string {
	switch format {
	case "ts", "typescript":
		return ".ts"
	case "sqlite", "sqlite3", "db":
		return ".db"
	}
	return "." + format
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
