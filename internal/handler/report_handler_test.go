package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/internal/service"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
)

type fakeReportSrv struct {
	created     *dto.ReportRequest
	createErr   error
	status      *dto.ReportStatusResponse
	download    *service.ReportDownload
	downloadErr error
	token       string
}

func (f *fakeReportSrv) CreateJob(_ context.Context, req dto.ReportRequest, _ *models.JWTClaims) (*dto.ReportJobResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	return &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued}, nil
}

func (f *fakeReportSrv) GetStatus(_ context.Context, id string, _ *models.JWTClaims) (*dto.ReportStatusResponse, error) {
	if f.status == nil {
		return nil, appErrors.ErrNotFound
	}
	return f.status, nil
}

func (f *fakeReportSrv) ResolveDownload(_ context.Context, token string) (*service.ReportDownload, error) {
	f.token = token
	return f.download, f.downloadErr
}

func TestReportHandlerGenerateReport(t *testing.T) {
	srv := &fakeReportSrv{}
	handler := NewReportHandler(srv, nil)

	c, w := newGinContext(http.MethodPost, "/reports/generate", []byte(`{"patientId":"patient-1","format":"pdf"}`))
	asPatient(c, "patient-1")
	handler.GenerateReport(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, srv.created)
	assert.Equal(t, "patient-1", srv.created.PatientID)
	assert.Equal(t, models.ReportFormatPDF, srv.created.Format)

	var job dto.ReportJobResponse
	decodeData(t, w, &job)
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, models.ReportStatusQueued, job.Status)
}

func TestReportHandlerGenerateReportForbidden(t *testing.T) {
	handler := NewReportHandler(&fakeReportSrv{createErr: appErrors.ErrForbidden}, nil)

	c, w := newGinContext(http.MethodPost, "/reports/generate", []byte(`{"patientId":"patient-2","format":"csv"}`))
	asPatient(c, "patient-1")
	handler.GenerateReport(c)

	assertErrorCode(t, w, http.StatusForbidden, appErrors.ErrForbidden.Code)
}

func TestReportHandlerReportStatus(t *testing.T) {
	url := "/api/v1/export/abc"
	srv := &fakeReportSrv{status: &dto.ReportStatusResponse{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100, ResultURL: &url}}
	handler := NewReportHandler(srv, nil)

	c, w := newGinContext(http.MethodGet, "/reports/job-1", nil)
	c.Params = append(c.Params, ginParam("id", "job-1"))
	asProvider(c)
	handler.ReportStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.ReportStatusResponse
	decodeData(t, w, &got)
	require.NotNil(t, got.ResultURL)
	assert.Equal(t, url, *got.ResultURL)

	srv.status = nil
	c, w = newGinContext(http.MethodGet, "/reports/missing", nil)
	asProvider(c)
	handler.ReportStatus(c)
	assertErrorCode(t, w, http.StatusNotFound, appErrors.ErrNotFound.Code)
}

func TestReportHandlerDownloadReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,ODI %\n2026-05-01,42.0\n"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	srv := &fakeReportSrv{download: &service.ReportDownload{
		File:      file,
		Filename:  "job-1.csv",
		Format:    models.ReportFormatCSV,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	handler := NewReportHandler(srv, nil)

	c, w := newGinContext(http.MethodGet, "/export/signed-token", nil)
	c.Params = append(c.Params, ginParam("token", "signed-token"))
	handler.DownloadReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed-token", srv.token)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "job-1.csv")
	assert.Contains(t, w.Body.String(), "2026-05-01,42.0")
}

func TestReportHandlerDownloadRejectsBadToken(t *testing.T) {
	handler := NewReportHandler(&fakeReportSrv{downloadErr: appErrors.ErrForbidden}, nil)

	c, w := newGinContext(http.MethodGet, "/export/tampered", nil)
	c.Params = append(c.Params, ginParam("token", "tampered"))
	handler.DownloadReport(c)

	assertErrorCode(t, w, http.StatusForbidden, appErrors.ErrForbidden.Code)
}
