package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stmtview/internal/domain"
	"stmtview/internal/handler"
	"stmtview/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) (handler.APIResponse, domain.UploadView) {
	t.Helper()
	var envelope struct {
		handler.APIResponse
		Data domain.UploadView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.APIResponse, envelope.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *handler.APIError {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func succeededView() domain.UploadView {
	return domain.UploadView{
		State:    domain.UploadStateSucceeded,
		FileName: "statement.pdf",
		Statement: &domain.NormalizedStatement{
			Bank:         "HDFC",
			Last4:        "1234",
			Transactions: []domain.Transaction{{Date: "2024-01-01", Description: "Coffee", Amount: "150"}},
		},
	}
}

func TestUploadHandler_State(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)
	mockCtrl.On("Snapshot").Return(domain.UploadView{State: domain.UploadStateIdle})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/upload", http.NoBody)

	h.State(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp, view := decodeView(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, domain.UploadStateIdle, view.State)
	assert.Nil(t, view.Statement)
}

func TestUploadHandler_SelectFile_Success(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)

	mockCtrl.On("SelectFile", mock.MatchedBy(func(f domain.SelectedFile) bool {
		return f.Name == "jan.pdf" && f.ContentType == "application/pdf" && f.Size == 21
	})).Return()
	mockCtrl.On("Snapshot").Return(domain.UploadView{State: domain.UploadStateReady, FileName: "jan.pdf"})

	body, contentType := multipartBody(t, "file", "jan.pdf", []byte("%PDF-1.4 test content"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/file", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.SelectFile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, view := decodeView(t, w)
	assert.Equal(t, domain.UploadStateReady, view.State)
	assert.Equal(t, "jan.pdf", view.FileName)
	mockCtrl.AssertExpectations(t)
}

func TestUploadHandler_SelectFile_NoFile(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/file", http.NoBody)

	h.SelectFile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decodeError(t, w).Code)
	mockCtrl.AssertNotCalled(t, "SelectFile", mock.Anything)
}

func TestUploadHandler_SelectFile_TooLarge(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 1)

	body, contentType := multipartBody(t, "file", "big.pdf", bytes.Repeat([]byte("x"), 1024*1024+1))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/file", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.SelectFile(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decodeError(t, w).Code)
	mockCtrl.AssertNotCalled(t, "SelectFile", mock.Anything)
}

func TestUploadHandler_Submit_Accepted(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)

	done := make(chan struct{})
	mockCtrl.On("SubmitAsync", mock.Anything).Return((<-chan struct{})(done), nil)
	mockCtrl.On("Snapshot").Return(domain.UploadView{State: domain.UploadStateSubmitting, FileName: "jan.pdf"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/submit", http.NoBody)

	h.Submit(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	_, view := decodeView(t, w)
	assert.Equal(t, domain.UploadStateSubmitting, view.State)
}

func TestUploadHandler_Submit_Wait(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)

	done := make(chan struct{})
	close(done)
	mockCtrl.On("SubmitAsync", mock.Anything).Return((<-chan struct{})(done), nil)
	mockCtrl.On("Snapshot").Return(domain.UploadView{State: domain.UploadStateFailed, Error: "corrupt PDF"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/submit?wait=true", http.NoBody)

	h.Submit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp, view := decodeView(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, domain.UploadStateFailed, view.State)
	assert.Equal(t, "corrupt PDF", view.Error)
}

func TestUploadHandler_Submit_WaitSuperseded(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)

	done := make(chan struct{})
	close(done)
	mockCtrl.On("SubmitAsync", mock.Anything).Return((<-chan struct{})(done), nil)
	mockCtrl.On("Snapshot").Return(domain.UploadView{State: domain.UploadStateIdle})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/submit?wait=true", http.NoBody)

	h.Submit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp, view := decodeView(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, domain.UploadStateIdle, view.State)
	assert.Nil(t, view.Statement)
	mockCtrl.AssertExpectations(t)
}

func TestUploadHandler_Submit_NoFileSelected(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)
	mockCtrl.On("SubmitAsync", mock.Anything).Return(nil, &domain.ValidationError{Err: domain.ErrNoFileSelected})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/submit", http.NoBody)

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "NO_FILE_SELECTED", apiErr.Code)
	assert.Equal(t, domain.MsgSelectFileFirst, apiErr.Message)
}

func TestUploadHandler_Submit_InProgress(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)
	mockCtrl.On("SubmitAsync", mock.Anything).Return(nil, domain.ErrSubmitInProgress)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/submit", http.NoBody)

	h.Submit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SUBMIT_IN_PROGRESS", decodeError(t, w).Code)
}

func TestUploadHandler_Clear(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)
	mockCtrl.On("Clear").Return()
	mockCtrl.On("Snapshot").Return(domain.UploadView{State: domain.UploadStateIdle})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/upload/clear", http.NoBody)

	h.Clear(c)

	assert.Equal(t, http.StatusOK, w.Code)
	_, view := decodeView(t, w)
	assert.Equal(t, domain.UploadStateIdle, view.State)
	mockCtrl.AssertCalled(t, "Clear")
}

func TestUploadHandler_Export_CSV(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)
	mockCtrl.On("Snapshot").Return(succeededView())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/upload/export?format=csv", http.NoBody)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="hdfc_statement_\d{4}-\d{2}-\d{2}\.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Last 4 Digits,1234")
	assert.Contains(t, w.Body.String(), "2024-01-01,Coffee,150")
}

func TestUploadHandler_Export_XLSX(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)
	mockCtrl.On("Snapshot").Return(succeededView())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/upload/export?format=xlsx", http.NoBody)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ExportContentTypes[domain.ExportFormatXLSX], w.Header().Get("Content-Type"))
	// xlsx is a zip container
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestUploadHandler_Export_NoStatement(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)
	mockCtrl.On("Snapshot").Return(domain.UploadView{State: domain.UploadStateFailed, Error: "corrupt PDF"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/upload/export", http.NoBody)

	h.Export(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NO_STATEMENT", decodeError(t, w).Code)
}

func TestUploadHandler_Export_BadFormat(t *testing.T) {
	mockCtrl := new(mocks.MockUploadController)
	h := handler.NewUploadHandler(mockCtrl, "file", 25)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/upload/export?format=pdf", http.NoBody)

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_EXPORT_FORMAT", decodeError(t, w).Code)
	mockCtrl.AssertNotCalled(t, "Snapshot")
}

func TestHealthHandler(t *testing.T) {
	h := handler.NewHealthHandler("http://127.0.0.1:8000/parse")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "127.0.0.1:8000/parse")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	handler.NewHealthHandler("").Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMapDomainError_Unknown(t *testing.T) {
	status, code, _ := handler.MapDomainError(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
}
