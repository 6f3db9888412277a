package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lecture-insight-team/lecture-insight/errors"
	dto "github.com/lecture-insight-team/lecture-insight/internal/adapter/dto/analysis"
	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
	analysisuse "github.com/lecture-insight-team/lecture-insight/internal/usecase/analysis"
	"github.com/lecture-insight-team/lecture-insight/pkg/webhookauth"
)

// RecordingWebhookHandler handles recording-ready webhooks from the
// meeting platform
type RecordingWebhookHandler struct {
	svc    analysisuse.Service
	secret string
	logger *zap.Logger
}

// NewRecordingWebhookHandler creates a new handler
func NewRecordingWebhookHandler(svc analysisuse.Service, secret string, logger *zap.Logger) *RecordingWebhookHandler {
	return &RecordingWebhookHandler{svc: svc, secret: secret, logger: logger}
}

// HandleRecordingReady receives a recording-ready webhook, verifies its
// signature against the raw body and queues an analysis run. The body is
// read before binding because the HMAC covers the exact bytes on the wire.
func (h *RecordingWebhookHandler) HandleRecordingReady(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	signature := c.Request().Header.Get(webhookauth.SignatureHeader)
	if !webhookauth.Verify(h.secret, body, signature) {
		if h.logger != nil {
			h.logger.Warn("🚫 Webhook signature rejected",
				zap.String("request_id", getRequestID(c)),
				zap.Int("body_bytes", len(body)),
			)
		}
		return HandleError(h.logger, c, errors.ErrInvalidSignature())
	}

	var req dto.RecordingWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	run, err := h.queueRun(c, &req)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("recording webhook handler error", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}

	return c.JSON(http.StatusAccepted, dto.RunQueuedResponse{
		Success:   true,
		RunID:     run.ID,
		Status:    run.Status,
		StatusURL: fmt.Sprintf("/v1/runs/%s", run.ID),
	})
}

// queueRun picks the pipeline entry point: payloads carrying transcript
// segments skip transcription entirely.
func (h *RecordingWebhookHandler) queueRun(c echo.Context, req *dto.RecordingWebhookRequest) (*entities.AnalysisRun, error) {
	ctx := c.Request().Context()
	if len(req.Segments) > 0 {
		transcript := entities.NewTranscript(dto.ToSegments(req.Segments))
		return h.svc.StartTranscriptRun(ctx, transcript, req.Metadata())
	}
	return h.svc.StartRun(ctx, req.VideoURL, req.Metadata())
}
