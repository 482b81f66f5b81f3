package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/advisor-assistant/internal/domain/chat"
	"github.com/yanqian/advisor-assistant/internal/domain/faq"
	"github.com/yanqian/advisor-assistant/internal/domain/plan"
	"github.com/yanqian/advisor-assistant/internal/infra/config"
)

const defaultUploadLimit = 4 << 20

// Handler wires the HTTP transport to domain services.
type Handler struct {
	faqSvc        faq.Service
	chatSvc       chat.Service
	planSvc       plan.Service
	importLimit   int64
	planUploadMax int64
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, faqSvc faq.Service, chatSvc chat.Service, planSvc plan.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc:        faqSvc,
		chatSvc:       chatSvc,
		planSvc:       planSvc,
		importLimit:   uploadLimit(cfg.FAQ.MaxImportBytes),
		planUploadMax: uploadLimit(cfg.Plan.MaxUploadBytes),
		logger:        logger.With("component", "http.handler"),
	}
}

// AskFAQ answers a question and records it in the caller's chat session.
func (h *Handler) AskFAQ(c *gin.Context) {
	var req chat.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	exchange, err := h.chatSvc.Ask(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, "faq_failed"))
		return
	}

	c.JSON(http.StatusOK, exchange)
}

// ChatHistory returns the recent turns of a session.
func (h *Handler) ChatHistory(c *gin.Context) {
	sessionID := c.Param("sessionId")
	turns, err := h.chatSvc.History(c.Request.Context(), sessionID)
	if err != nil {
		abortWithError(c, fromAppError(err, "chat_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "history": turns})
}

// TrendingFAQ returns the most common questions.
func (h *Handler) TrendingFAQ(c *gin.Context) {
	items, err := h.faqSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, fromAppError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"trending": items})
}

// ListEntries returns the live corpus and where it was loaded from.
func (h *Handler) ListEntries(c *gin.Context) {
	entries := h.faqSvc.Entries(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
		"corpus":  h.faqSvc.CorpusInfo(c.Request.Context()),
	})
}

// ReloadCorpus re-reads the configured corpus source.
func (h *Handler) ReloadCorpus(c *gin.Context) {
	result := h.faqSvc.Reload(c.Request.Context())
	h.logger.Info("faq corpus reloaded", "source", result.Source, "entries", result.Entries, "fallback", result.Fallback)
	c.JSON(http.StatusOK, result)
}

// ImportCorpus replaces the live corpus with an uploaded CSV or XLSX file.
func (h *Handler) ImportCorpus(c *gin.Context) {
	filename, content, httpErr := readUpload(c, "file", h.importLimit)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	result, err := h.faqSvc.Import(c.Request.Context(), filename, content)
	if err != nil {
		abortWithError(c, fromAppError(err, "faq_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// ValidatePlan checks an uploaded course plan. The format query selects a
// JSON report (default), the advisor note, or the issues as CSV.
func (h *Handler) ValidatePlan(c *gin.Context) {
	filename, content, httpErr := readUpload(c, "file", h.planUploadMax)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}

	report, err := h.planSvc.Validate(c.Request.Context(), plan.Request{
		Program:     c.PostForm("program"),
		CatalogYear: c.PostForm("catalogYear"),
		Filename:    filename,
		Content:     content,
	})
	if err != nil {
		abortWithError(c, fromAppError(err, "plan_failed"))
		return
	}

	switch format := c.Query("format"); format {
	case "", "json":
		c.JSON(http.StatusOK, report)
	case "note":
		c.Header("Content-Disposition", `attachment; filename="advisor_note.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report.Note))
	case "csv":
		body, err := plan.IssuesCSV(report.Issues)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "plan_failed", "issues could not be exported", err))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="validation_issues.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
	default:
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", fmt.Sprintf("unknown format %q", format), nil))
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readUpload(c *gin.Context, field string, limit int64) (string, []byte, *HTTPError) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, NewHTTPError(http.StatusBadRequest, "invalid_request", fmt.Sprintf("multipart field %q is required", field), err)
	}
	if header.Size > limit {
		return "", nil, NewHTTPError(http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Sprintf("file exceeds %d bytes", limit), nil)
	}
	f, err := header.Open()
	if err != nil {
		return "", nil, NewHTTPError(http.StatusBadRequest, "invalid_request", "uploaded file could not be opened", err)
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", nil, NewHTTPError(http.StatusBadRequest, "invalid_request", "uploaded file could not be read", err)
	}
	if int64(len(content)) > limit {
		return "", nil, NewHTTPError(http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Sprintf("file exceeds %d bytes", limit), nil)
	}
	return header.Filename, content, nil
}

func uploadLimit(configured int64) int64 {
	if configured > 0 {
		return configured
	}
	return defaultUploadLimit
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
