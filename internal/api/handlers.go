package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/user/hotscan/internal/dataset"
	"github.com/user/hotscan/internal/domain"
	"github.com/user/hotscan/internal/export"
)

// maxSnapshotSize bounds posted snapshot bodies. Saved search pages run a
// few megabytes; anything past this is not a page snapshot.
const maxSnapshotSize = 32 << 20

type extractResponse struct {
	Count   int             `json:"count"`
	Records []domain.Record `json:"records"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	table, ok := s.assembleSnapshot(w, r)
	if !ok {
		return
	}

	s.metrics.IncExport("json")
	s.respondWithJSON(w, http.StatusOK, extractResponse{Count: table.Len(), Records: table.Records})
}

func (s *Server) handleExtractCSV(w http.ResponseWriter, r *http.Request) {
	table, ok := s.assembleSnapshot(w, r)
	if !ok {
		return
	}

	name := export.FileBase(time.Now()) + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := export.WriteCSVTo(w, table); err != nil {
		s.logger.Error("csv export failed", zap.Error(err))
		return
	}
	s.metrics.IncExport("csv")
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// assembleSnapshot reads the posted markup, scans it and assembles the
// table. It writes the error response itself when any step fails.
func (s *Server) assembleSnapshot(w http.ResponseWriter, r *http.Request) (*dataset.Table, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotSize))
	if err != nil {
		s.respondWithError(w, http.StatusRequestEntityTooLarge, "Snapshot body too large")
		return nil, false
	}
	if len(body) == 0 {
		s.respondWithError(w, http.StatusBadRequest, "Snapshot body cannot be empty")
		return nil, false
	}

	records, err := s.scanner.Scan(r.Context(), string(body))
	if err != nil {
		s.logger.Error("snapshot scan failed", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not scan snapshot")
		return nil, false
	}

	table, err := dataset.Assemble(records, dataset.Options{Dedup: s.dedupOption(r)})
	if err != nil {
		s.respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}
	return table, true
}

// dedupOption resolves the dedup query parameter, falling back to the
// configured default.
func (s *Server) dedupOption(r *http.Request) bool {
	if param := r.URL.Query().Get("dedup"); param != "" {
		if v, err := strconv.ParseBool(param); err == nil {
			return v
		}
	}
	return s.config.Dedup
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
