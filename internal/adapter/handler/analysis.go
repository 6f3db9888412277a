package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lecture-insight-team/lecture-insight/errors"
	dto "github.com/lecture-insight-team/lecture-insight/internal/adapter/dto/analysis"
	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
	analysisuse "github.com/lecture-insight-team/lecture-insight/internal/usecase/analysis"
)

// Report download content types
const (
	reportContentTypeMarkdown = "text/markdown; charset=utf-8"
	reportContentTypeDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Analysis handles synchronous analysis requests and run status lookups
type Analysis struct {
	svc    analysisuse.Service
	logger *zap.Logger
}

// NewAnalysisHandler creates a new handler
func NewAnalysisHandler(svc analysisuse.Service, logger *zap.Logger) *Analysis {
	return &Analysis{svc: svc, logger: logger}
}

// AnalyzeInline scores an inline transcript synchronously and responds
// with the rendered JSON report.
func (h *Analysis) AnalyzeInline(c echo.Context) error {
	var req dto.InlineAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	transcript := entities.NewTranscript(dto.ToSegments(req.Segments))
	artifacts, err := h.svc.AnalyzeTranscript(c.Request().Context(), transcript, req.Metadata())
	if err != nil {
		return HandleError(h.logger, c, mapPipelineError(err))
	}

	return c.JSONBlob(http.StatusOK, artifacts.JSON)
}

// GetRunStatus returns the current state of an analysis run
func (h *Analysis) GetRunStatus(c echo.Context) error {
	id := c.Param("id")

	run, err := h.svc.GetRun(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrRunNotFound) {
			return HandleError(h.logger, c, errors.ErrRunNotFound(id))
		}
		return HandleError(h.logger, c, errors.ErrCacheFailed("find run", err))
	}

	return HandleSuccess(h.logger, c, dto.NewRunStatusResponse(run))
}

// GetRunReport re-renders a completed run's report and streams the requested
// artifact. Defaults to markdown; ?format=json and ?format=docx select the
// other formats.
func (h *Analysis) GetRunReport(c echo.Context) error {
	id := c.Param("id")

	format := c.QueryParam("format")
	if format == "" {
		format = "md"
	}
	switch format {
	case "md", "json", "docx":
	default:
		return HandleError(h.logger, c, errors.ErrInvalidArgument("format must be one of: md, json, docx"))
	}

	artifacts, err := h.svc.GetRunReport(c.Request().Context(), id)
	if err != nil {
		switch {
		case stdErrors.Is(err, entities.ErrRunNotFound):
			return HandleError(h.logger, c, errors.ErrRunNotFound(id))
		case stdErrors.Is(err, entities.ErrRunNotReady):
			return HandleError(h.logger, c, errors.ErrRunNotReady(id))
		default:
			return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
		}
	}

	switch format {
	case "json":
		return c.JSONBlob(http.StatusOK, artifacts.JSON)
	case "docx":
		if len(artifacts.Document) == 0 {
			return HandleError(h.logger, c, errors.ErrReportExportFailed("docx", stdErrors.New("document artifact unavailable")))
		}
		return c.Blob(http.StatusOK, reportContentTypeDocx, artifacts.Document)
	default:
		return c.Blob(http.StatusOK, reportContentTypeMarkdown, []byte(artifacts.Markdown))
	}
}

// mapPipelineError translates pipeline failures into API error codes
func mapPipelineError(err error) error {
	var validationErr *entities.ScoringValidationError
	var serviceErr *entities.ScoringServiceError

	switch {
	case stdErrors.Is(err, entities.ErrEmptyTranscript):
		return errors.ErrEmptyTranscript()
	case stdErrors.Is(err, entities.ErrNoBlocksAnalyzed):
		return errors.ErrNoBlocksAnalyzed(err)
	case stdErrors.As(err, &validationErr):
		return errors.ErrScoringValidation(validationErr.Criterion, err)
	case stdErrors.As(err, &serviceErr):
		return errors.ErrScoringFailed(err)
	default:
		return errors.ErrProcessingFailed(err)
	}
}
