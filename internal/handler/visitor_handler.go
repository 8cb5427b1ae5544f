package handler

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"sort"

	"visit-tracker/internal/domain"
	"visit-tracker/internal/service"
	"visit-tracker/pkg/logger"

	"github.com/go-chi/chi/v5"
)

var logsTemplate = template.Must(template.New("logs").Parse(`<h2>访问记录</h2>
{{- if not .}}
<p>没有记录</p>
{{- else}}
<table border='1' cellpadding='5'><tr><th>日期</th><th>IP</th><th>User-Agent</th></tr>
{{- range .}}
<tr><td>{{.Timestamp}}</td><td>{{.IPAddress}}</td><td>{{.UserAgent}}</td></tr>
{{- end}}
</table>
{{- end}}
`))

var headersTemplate = template.Must(template.New("headers").Parse(`<h2>请求头信息</h2>
<table border='1' cellpadding='5'><tr><th>Header</th><th>Value</th></tr>
{{- range .Headers}}
<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>
{{- end}}
<tr><td>remote_addr</td><td>{{.RemoteAddr}}</td></tr>
<tr><td>real_ip (calculated)</td><td>{{.RealIP}}</td></tr>
</table>
`))

// VisitorHandler handles visitor tracking HTTP requests
type VisitorHandler struct {
	visitorService service.VisitorService
	assets         fs.FS
	logger         *logger.Logger
}

// NewVisitorHandler creates a new visitor handler. assets must contain index.html.
func NewVisitorHandler(visitorService service.VisitorService, assets fs.FS, logger *logger.Logger) *VisitorHandler {
	return &VisitorHandler{
		visitorService: visitorService,
		assets:         assets,
		logger:         logger,
	}
}

// StatsResponse represents the response for visitor statistics
type StatsResponse struct {
	Success bool               `json:"success"`
	Data    *domain.VisitStats `json:"data"`
}

// Index handles GET /: records the visit, then serves the page
func (h *VisitorHandler) Index(w http.ResponseWriter, r *http.Request) {
	ipAddress := getRealIPAddress(r)
	userAgent := r.UserAgent()

	if err := h.visitorService.RecordVisit(r.Context(), ipAddress, userAgent); err != nil {
		// The page is still served; recording is best effort for the visitor
		h.logger.WithError(err).WithField("ip", ipAddress).Error("Failed to record visit")
	}

	page, err := fs.ReadFile(h.assets, "index.html")
	if err != nil {
		h.logger.WithError(err).Error("Failed to read index page")
		writeText(w, http.StatusInternalServerError, "index page unavailable")
		return
	}

	writeHTML(w, http.StatusOK, page)
}

// VisitCount handles GET /visit-count
func (h *VisitorHandler) VisitCount(w http.ResponseWriter, r *http.Request) {
	writeCount(w, h.visitorService.GetStats(r.Context()).Total)
}

// VisitCountToday handles GET /visit-count-today
func (h *VisitorHandler) VisitCountToday(w http.ResponseWriter, r *http.Request) {
	writeCount(w, h.visitorService.GetStats(r.Context()).Today)
}

// VisitCountYesterday handles GET /visit-count-yesterday
func (h *VisitorHandler) VisitCountYesterday(w http.ResponseWriter, r *http.Request) {
	writeCount(w, h.visitorService.GetStats(r.Context()).Yesterday)
}

// GetStats handles GET /api/visitor/stats
func (h *VisitorHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.visitorService.GetStats(r.Context())

	writeJSON(w, h.logger, http.StatusOK, StatsResponse{
		Success: true,
		Data:    &stats,
	})

	h.logger.WithFields(map[string]interface{}{
		"total":        stats.Total,
		"today":        stats.Today,
		"yesterday":    stats.Yesterday,
		"current_date": stats.CurrentDate,
	}).Debug("Visitor stats served")
}

// Logs handles GET /logs with an HTML table of the local visit log
func (h *VisitorHandler) Logs(w http.ResponseWriter, r *http.Request) {
	records, err := h.visitorService.ListLocalVisits(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read local visit log")
		records = nil
	}

	var buf bytes.Buffer
	if err := logsTemplate.Execute(&buf, records); err != nil {
		h.logger.WithError(err).Error("Failed to render visit log")
		writeText(w, http.StatusInternalServerError, "failed to render visit log")
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

type headerRow struct {
	Name  string
	Value string
}

// DebugHeaders handles GET /debug-headers, showing how the client IP is derived
func (h *VisitorHandler) DebugHeaders(w http.ResponseWriter, r *http.Request) {
	rows := make([]headerRow, 0, len(r.Header))
	for name, values := range r.Header {
		for _, value := range values {
			rows = append(rows, headerRow{Name: name, Value: value})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	var buf bytes.Buffer
	err := headersTemplate.Execute(&buf, map[string]interface{}{
		"Headers":    rows,
		"RemoteAddr": r.RemoteAddr,
		"RealIP":     getRealIPAddress(r),
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to render headers")
		writeText(w, http.StatusInternalServerError, "failed to render headers")
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// RegisterRoutes registers visitor handler routes with the router
func (h *VisitorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/visit-count", h.VisitCount)
	r.Get("/visit-count-today", h.VisitCountToday)
	r.Get("/visit-count-yesterday", h.VisitCountYesterday)
	r.Get("/logs", h.Logs)
	r.Get("/debug-headers", h.DebugHeaders)

	r.Route("/api/visitor", func(r chi.Router) {
		r.Get("/stats", h.GetStats)
	})
}
