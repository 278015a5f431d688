package handler

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stmtview/internal/domain"
	"stmtview/internal/export"
	"stmtview/internal/middleware"
	"stmtview/internal/service"
)

// UploadHandler exposes the upload workflow controller to the browser.
type UploadHandler struct {
	controller     service.UploadController
	fileField      string
	maxUploadBytes int64
	now            func() time.Time
}

// NewUploadHandler creates a new UploadHandler. maxUploadMB <= 0 disables the size guard.
func NewUploadHandler(controller service.UploadController, fileField string, maxUploadMB int64) *UploadHandler {
	if fileField == "" {
		fileField = "file"
	}
	return &UploadHandler{
		controller:     controller,
		fileField:      fileField,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
		now:            time.Now,
	}
}

// State handles GET /api/v1/upload
// @Summary Current upload state
// @Tags upload
// @Produce json
// @Success 200 {object} APIResponse{data=domain.UploadView}
// @Router /upload [get]
func (h *UploadHandler) State(c *gin.Context) {
	RespondOK(c, h.controller.Snapshot())
}

// SelectFile handles POST /api/v1/upload/file
// @Summary Select a statement file
// @Description Records the file for the next submission. No type validation is done here.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Statement PDF"
// @Success 200 {object} APIResponse{data=domain.UploadView}
// @Failure 400 {object} APIResponse "Missing file"
// @Failure 413 {object} APIResponse "File too large"
// @Router /upload/file [post]
func (h *UploadHandler) SelectFile(c *gin.Context) {
	file, header, err := c.Request.FormFile(h.fileField)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", h.fileField+" field is required")
		return
	}
	defer func() { _ = file.Close() }()

	selected, err := service.ReadSelectedFile(header.Filename, file, h.maxUploadBytes)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.controller.SelectFile(selected)
	RespondOK(c, h.controller.Snapshot())
}

// Submit handles POST /api/v1/upload/submit
// @Summary Submit the selected file to the parse service
// @Description Returns 202 immediately unless wait=true, in which case it responds after settlement.
// @Tags upload
// @Produce json
// @Param wait query bool false "Block until the request settles"
// @Success 200 {object} APIResponse{data=domain.UploadView} "Settled (wait=true)"
// @Success 202 {object} APIResponse{data=domain.UploadView} "Submitting"
// @Failure 400 {object} APIResponse "No file selected"
// @Failure 409 {object} APIResponse "Submission already in progress"
// @Router /upload/submit [post]
func (h *UploadHandler) Submit(c *gin.Context) {
	wait, _ := strconv.ParseBool(c.DefaultQuery("wait", "false"))

	// The submission outlives this request; closing the browser tab must not cancel it.
	ctx := context.WithoutCancel(c.Request.Context())
	done, err := h.controller.SubmitAsync(ctx)
	if err != nil {
		HandleError(c, err)
		return
	}

	if !wait {
		RespondAccepted(c, h.controller.Snapshot())
		return
	}

	select {
	case <-done:
		view := h.controller.Snapshot()
		if !view.State.IsTerminal() {
			requestID, _ := c.Get(middleware.ContextKeyRequestID)
			log.Printf("[%s] uploadHandler.Submit: submission superseded, state is %s", requestID, view.State)
		}
		RespondOK(c, view)
	case <-c.Request.Context().Done():
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] uploadHandler.Submit: client went away before settlement", requestID)
	}
}

// Clear handles POST /api/v1/upload/clear
// @Summary Reset the upload workflow
// @Tags upload
// @Produce json
// @Success 200 {object} APIResponse{data=domain.UploadView}
// @Router /upload/clear [post]
func (h *UploadHandler) Clear(c *gin.Context) {
	h.controller.Clear()
	RespondOK(c, h.controller.Snapshot())
}

// Export handles GET /api/v1/upload/export
// @Summary Download the parsed statement
// @Tags upload
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} APIResponse "Unsupported format"
// @Failure 409 {object} APIResponse "No parsed statement"
// @Router /upload/export [get]
func (h *UploadHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	view := h.controller.Snapshot()
	if view.State != domain.UploadStateSucceeded || view.Statement == nil {
		HandleError(c, domain.ErrNoStatement)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, view.Statement); err != nil {
		HandleError(c, fmt.Errorf("exporting statement: %w", err))
		return
	}

	filename := export.BuildFilename(view.Statement.Bank, format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, domain.ExportContentTypes[format], buf.Bytes())
}
