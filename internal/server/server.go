package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/milkminder/internal/iofc"
	"github.com/iwvelando/milkminder/internal/sheet"
	"github.com/iwvelando/milkminder/pkg/constants"
	"github.com/iwvelando/milkminder/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed templates/*
var templateFiles embed.FS

// uploadFields are the multipart field names accepted for the workbook, in
// order of preference. "excel" is the field used by the upload form.
var uploadFields = []string{"file", "excel"}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	sheetName     string
	page          *template.Template
	metrics       *serverMetrics
	limiter       *rate.Limiter
}

// HandlerOption customizes the handler built by NewHandler.
type HandlerOption func(*handler)

// WithRateLimit caps workbook uploads at rps per second with the given
// burst. A non-positive rps leaves uploads unlimited.
func WithRateLimit(rps float64, burst int) HandlerOption {
	return func(h *handler) {
		if rps <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewHandler constructs the HTTP handler that serves the upload page, the
// report API and metrics. sheetName selects the worksheet to read; empty
// means the active sheet.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version, sheetName string, opts ...HandlerOption) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	page, err := template.ParseFS(templateFiles, "templates/index.html.tmpl")
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded templates: %v", err))
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		sheetName:     strings.TrimSpace(sheetName),
		page:          page,
		metrics:       newServerMetrics(),
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()

	// Upload form and rendered results
	mux.HandleFunc("/", h.handleIndex)

	// Report API endpoint (file upload)
	mux.HandleFunc("/api/report", h.handleReport)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Prometheus metrics
	mux.Handle("/metrics", h.metrics.handler())

	// Static assets (stylesheet)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	return mux
}

type reportResponse struct {
	RequestID string      `json:"requestId"`
	FileName  string      `json:"fileName"`
	Sheet     string      `json:"sheet"`
	Report    iofc.Report `json:"report"`
	Duration  string      `json:"duration"`
}

// uploadError carries the HTTP status and metrics outcome for a failed
// upload.
type uploadError struct {
	status  int
	outcome string
	msg     string
	cell    string
}

func (e *uploadError) Error() string {
	return e.msg
}

type computed struct {
	fileName string
	sheet    string
	report   iofc.Report
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	requestID := h.requestID(w)
	op := "server.handleReport"

	result, err := h.processUpload(w, r)
	if err != nil {
		h.respondError(w, err, requestID, op)
		return
	}

	elapsed := time.Since(start)
	h.logComputed(op, requestID, result, elapsed)

	h.writeJSON(w, http.StatusOK, reportResponse{
		RequestID: requestID,
		FileName:  result.fileName,
		Sheet:     result.sheet,
		Report:    result.report,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{Version: h.version}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.renderPage(w, http.StatusOK, data)
	case http.MethodPost:
		start := time.Now()
		requestID := h.requestID(w)
		op := "server.handleIndex"

		result, err := h.processUpload(w, r)
		if err != nil {
			ue := h.classify(err)
			h.logFailure(op, requestID, ue)
			data.Error = ue.msg
			h.renderPage(w, ue.status, data)
			return
		}

		h.logComputed(op, requestID, result, time.Since(start))
		data.FileName = result.fileName
		data.Results = newResultsView(result.report)
		h.renderPage(w, http.StatusOK, data)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// processUpload reads the uploaded workbook and computes its report.
func (h *handler) processUpload(w http.ResponseWriter, r *http.Request) (computed, error) {
	start := time.Now()

	if h.limiter != nil && !h.limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		return computed{}, &uploadError{
			status:  http.StatusTooManyRequests,
			outcome: outcomeRateLimited,
			msg:     "too many uploads, retry shortly",
		}
	}

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return computed{}, &uploadError{
				status:  http.StatusRequestEntityTooLarge,
				outcome: outcomeInvalidUpload,
				msg:     fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize),
			}
		}
		return computed{}, &uploadError{
			status:  http.StatusBadRequest,
			outcome: outcomeInvalidUpload,
			msg:     fmt.Sprintf("failed to parse upload: %v", err),
		}
	}

	name, data, err := h.readUploadedFile(r)
	if err != nil {
		return computed{}, err
	}

	if err := validation.ValidateWorkbookName(name); err != nil {
		return computed{}, &uploadError{status: http.StatusBadRequest, outcome: outcomeInvalidUpload, msg: err.Error()}
	}

	wb, err := sheet.Open(bytes.NewReader(data), name, h.sheetName)
	if err != nil {
		return computed{}, &uploadError{
			status:  http.StatusBadRequest,
			outcome: outcomeInvalidUpload,
			msg:     fmt.Sprintf("failed to read workbook: %v", err),
		}
	}
	defer func() {
		if closeErr := wb.Close(); closeErr != nil {
			h.logger.Warn("failed to close workbook",
				zap.String("op", "server.processUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	report, err := iofc.ComputeWithLogger(h.logger, wb)
	if err != nil {
		return computed{}, err
	}

	h.metrics.reports.WithLabelValues(outcomeOK).Inc()
	h.metrics.feedRows.Observe(float64(len(report.Feed)))
	h.metrics.duration.Observe(time.Since(start).Seconds())

	return computed{fileName: name, sheet: wb.SheetName(), report: report}, nil
}

func (h *handler) readUploadedFile(r *http.Request) (string, []byte, error) {
	for _, field := range uploadFields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return "", nil, &uploadError{
				status:  http.StatusBadRequest,
				outcome: outcomeInvalidUpload,
				msg:     fmt.Sprintf("failed to read upload field %q: %v", field, err),
			}
		}

		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, file)
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.readUploadedFile"),
				zap.Error(closeErr),
			)
		}
		if copyErr != nil {
			return "", nil, fmt.Errorf("failed to read workbook: %w", copyErr)
		}
		return header.Filename, buf.Bytes(), nil
	}

	return "", nil, &uploadError{
		status:  http.StatusBadRequest,
		outcome: outcomeInvalidUpload,
		msg:     "missing workbook file",
	}
}

// classify maps processing errors onto response statuses and counts them.
func (h *handler) classify(err error) *uploadError {
	var ue *uploadError
	var inputErr *iofc.InputError

	switch {
	case errors.As(err, &ue):
	case errors.As(err, &inputErr):
		ue = &uploadError{
			status:  http.StatusBadRequest,
			outcome: outcomeInputError,
			msg:     inputErr.Error(),
			cell:    inputErr.Cell,
		}
	default:
		ue = &uploadError{
			status:  http.StatusInternalServerError,
			outcome: outcomeInvalidUpload,
			msg:     err.Error(),
		}
	}

	h.metrics.reports.WithLabelValues(ue.outcome).Inc()
	return ue
}

func (h *handler) requestID(w http.ResponseWriter) string {
	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)
	return id
}

func (h *handler) logComputed(op, requestID string, result computed, elapsed time.Duration) {
	h.logger.Info("report computed",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.String("file", result.fileName),
		zap.String("sheet", result.sheet),
		zap.Int("feedRows", len(result.report.Feed)),
		zap.Float64("iofcMonth", result.report.IOFCMonth),
		zap.Int("warnings", len(result.report.Warnings)),
		zap.Duration("duration", elapsed),
	)
}

func (h *handler) logFailure(op, requestID string, ue *uploadError) {
	h.logger.Error("report request failed",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.Int("status", ue.status),
		zap.String("error", ue.msg),
	)
}

func (h *handler) respondError(w http.ResponseWriter, err error, requestID, op string) {
	ue := h.classify(err)
	h.logFailure(op, requestID, ue)

	payload := map[string]string{
		"error":     ue.msg,
		"requestId": requestID,
	}
	if ue.cell != "" {
		payload["cell"] = ue.cell
	}
	h.writeJSON(w, ue.status, payload)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.logger.Error("failed to render page",
			zap.String("op", "server.renderPage"),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write page", zap.Error(err))
	}
}
