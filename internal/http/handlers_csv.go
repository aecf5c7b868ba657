package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

const maxImportSize = 10 << 20 // 10 MiB upload ceiling

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "file must be a CSV")
		return
	}

	result, err := s.csv.Import(r.Context(), file)
	if err != nil {
		var missing *services.MissingColumnError
		if errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "CSV import failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "CSV import completed",
		"filename", header.Filename,
		"imported", result.Imported,
		"errors", result.Errors)

	writeJSON(w, http.StatusOK, struct {
		Imported int `json:"imported"`
		Errors   int `json:"errors"`
	}{Imported: result.Imported, Errors: result.Errors})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateParam(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateParam(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.csv.Export(r.Context(), start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
