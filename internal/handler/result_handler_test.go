package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumetrics-ng/results-api/internal/middleware"
	"github.com/edumetrics-ng/results-api/internal/models"
	"github.com/edumetrics-ng/results-api/internal/service"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

type fakeResultSrv struct {
	batchOutcome  *service.BatchOutcome
	batchErr      error
	lastBatch     service.BatchRequest
	lastTenant    models.TenantContext
	submitOutcome *service.SubmitOutcome
	submitErr     error
	lastSubmitter string
	listResults   []models.Result
	lastFilter    models.ResultFilter
}

func (f *fakeResultSrv) ProcessBatch(_ context.Context, tenant models.TenantContext, req service.BatchRequest) (*service.BatchOutcome, error) {
	f.lastTenant = tenant
	f.lastBatch = req
	return f.batchOutcome, f.batchErr
}

func (f *fakeResultSrv) Submit(_ context.Context, tenant models.TenantContext, req service.SubmitRequest, submittedBy string) (*service.SubmitOutcome, error) {
	f.lastTenant = tenant
	f.lastSubmitter = submittedBy
	return f.submitOutcome, f.submitErr
}

func (f *fakeResultSrv) List(_ context.Context, tenant models.TenantContext, filter models.ResultFilter) ([]models.Result, error) {
	f.lastTenant = tenant
	f.lastFilter = filter
	return f.listResults, nil
}

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, rec
}

func withClaims(c *gin.Context) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:   "teacher-1",
		SchoolID: "school-1",
		Role:     models.RoleTeacher,
	})
}

func TestResultHandlerBatchSuccess(t *testing.T) {
	srv := &fakeResultSrv{batchOutcome: &service.BatchOutcome{SuccessCount: 2, Rejections: []service.BatchRejection{}}}
	handler := NewResultHandler(srv)

	payload := `{"class_id":"class-1","subject_id":"subject-1","term_id":"term-1","entries":[{"student_id":"stu-1","ca1_score":8,"ca2_score":9,"exam_score":60},{"student_id":"stu-2","ca1_score":7,"ca2_score":8,"exam_score":55}]}`
	c, rec := testContext(t, http.MethodPost, "/results/batch", payload)
	withClaims(c)

	handler.Batch(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "school-1", srv.lastTenant.SchoolID)
	assert.Equal(t, "class-1", srv.lastBatch.ClassID)
	assert.Len(t, srv.lastBatch.Entries, 2)

	var envelope struct {
		Data service.BatchOutcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.SuccessCount)
}

func TestResultHandlerBatchUnauthenticated(t *testing.T) {
	handler := NewResultHandler(&fakeResultSrv{})
	c, rec := testContext(t, http.MethodPost, "/results/batch", `{}`)

	handler.Batch(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResultHandlerBatchInvalidPayload(t *testing.T) {
	handler := NewResultHandler(&fakeResultSrv{})
	c, rec := testContext(t, http.MethodPost, "/results/batch", `{not-json`)
	withClaims(c)

	handler.Batch(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultHandlerBatchTermLocked(t *testing.T) {
	srv := &fakeResultSrv{batchErr: appErrors.ErrTermLocked}
	handler := NewResultHandler(srv)

	payload := `{"class_id":"class-1","subject_id":"subject-1","term_id":"term-1","entries":[{"student_id":"stu-1"}]}`
	c, rec := testContext(t, http.MethodPost, "/results/batch", payload)
	withClaims(c)

	handler.Batch(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestResultHandlerSubmitPassesSubmitter(t *testing.T) {
	srv := &fakeResultSrv{submitOutcome: &service.SubmitOutcome{SubmittedCount: 3, ClassAverage: 73.33}}
	handler := NewResultHandler(srv)

	payload := `{"class_id":"class-1","subject_id":"subject-1","term_id":"term-1"}`
	c, rec := testContext(t, http.MethodPost, "/results/submit", payload)
	withClaims(c)

	handler.Submit(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher-1", srv.lastSubmitter)
}

func TestResultHandlerListParsesFilter(t *testing.T) {
	srv := &fakeResultSrv{listResults: []models.Result{{ID: "res-1"}}}
	handler := NewResultHandler(srv)

	c, rec := testContext(t, http.MethodGet, "/results?studentId=stu-1&termId=term-1&submittedOnly=true", "")
	withClaims(c)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", srv.lastFilter.StudentID)
	assert.Equal(t, "term-1", srv.lastFilter.TermID)
	assert.True(t, srv.lastFilter.SubmittedOnly)
}
