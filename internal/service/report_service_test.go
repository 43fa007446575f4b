package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/recovery-api/internal/dto"
	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/internal/repository"
	appErrors "github.com/noah-isme/recovery-api/pkg/errors"
	"github.com/noah-isme/recovery-api/pkg/jobs"
)

type reportRepoStub struct {
	jobs     map[string]*models.ReportJob
	finished []models.ReportJob
}

func newReportRepoStub() *reportRepoStub {
	return &reportRepoStub{jobs: map[string]*models.ReportJob{}}
}

func (r *reportRepoStub) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *reportRepoStub) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (r *reportRepoStub) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := r.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (r *reportRepoStub) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var queued []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (r *reportRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return r.finished, nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func patientClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RolePatient}
}

func providerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "provider-1", Role: models.RoleProvider}
}

func newReportServiceForTest(t *testing.T) (*ReportService, *reportRepoStub, *queueStub, *ExportService) {
	t.Helper()
	repo := newReportRepoStub()
	queue := &queueStub{}
	src, _ := progressSources()
	exportSvc, _ := newExportServiceForTest(t, src, nil)
	svc := NewReportService(repo, queue, exportSvc, nil, NewMetricsService(), zap.NewNop(), ReportServiceConfig{
		ResultTTL:       time.Hour,
		CleanupInterval: time.Hour,
	})
	return svc, repo, queue, exportSvc
}

func TestReportServiceCreateJob(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		PatientID: "patient-1",
		Format:    models.ReportFormatCSV,
	}, providerClaims())
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, reportJobKind, queue.jobs[0].Kind)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)

	stored := repo.jobs[resp.ID]
	require.NotNil(t, stored)
	assert.Equal(t, models.ReportTypeProgress, stored.Type)
	assert.Equal(t, "patient-1", stored.Params.PatientID)
	assert.Equal(t, "provider-1", stored.CreatedBy)
}

func TestReportServiceCreateJobPatientScope(t *testing.T) {
	svc, _, queue, _ := newReportServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{PatientID: "patient-2", Format: models.ReportFormatPDF}, patientClaims("patient-1"))
	require.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Empty(t, queue.jobs)

	_, err = svc.CreateJob(context.Background(), dto.ReportRequest{PatientID: "patient-1", Format: models.ReportFormatPDF}, patientClaims("patient-1"))
	require.NoError(t, err)
}

func TestReportServiceCreateJobValidation(t *testing.T) {
	svc, _, _, _ := newReportServiceForTest(t)
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	cases := map[string]dto.ReportRequest{
		"missing patient": {Format: models.ReportFormatCSV},
		"bad format":      {PatientID: "patient-1", Format: "xlsx"},
		"inverted range":  {PatientID: "patient-1", Format: models.ReportFormatCSV, From: &from, To: &to},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateJob(context.Background(), req, providerClaims())
			require.ErrorIs(t, err, appErrors.ErrValidation)
		})
	}
}

func TestReportServiceCreateJobEnqueueFailure(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	queue.err = jobs.ErrStopped

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{PatientID: "patient-1", Format: models.ReportFormatCSV}, providerClaims())
	require.ErrorIs(t, err, appErrors.ErrInternal)
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ReportStatusFailed, job.Status)
		assert.NotNil(t, job.FinishedAt)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.reportJobs.WithLabelValues(string(models.ReportStatusFailed))))
}

func TestReportServiceGetStatus(t *testing.T) {
	svc, repo, _, _ := newReportServiceForTest(t)
	msg := ""
	repo.jobs["job-1"] = &models.ReportJob{
		ID:           "job-1",
		Type:         models.ReportTypeProgress,
		Params:       models.ReportJobParams{PatientID: "patient-1", Format: models.ReportFormatCSV},
		Status:       models.ReportStatusFinished,
		Progress:     100,
		CreatedBy:    "patient-1",
		ErrorMessage: &msg,
	}

	resp, err := svc.GetStatus(context.Background(), "job-1", patientClaims("patient-1"))
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, resp.Status)
	assert.Nil(t, resp.Error)

	_, err = svc.GetStatus(context.Background(), "job-1", patientClaims("patient-2"))
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.GetStatus(context.Background(), "job-1", providerClaims())
	require.NoError(t, err)

	_, err = svc.GetStatus(context.Background(), "missing", providerClaims())
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestReportServiceResolveDownload(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	job := progressJob("job-download", models.ReportFormatCSV)
	repo.jobs[job.ID] = job
	result, err := exportSvc.Generate(context.Background(), job)
	require.NoError(t, err)

	_, err = svc.ResolveDownload(context.Background(), result.Token)
	require.ErrorIs(t, err, appErrors.ErrForbidden, "link not yet attached to the job")

	job.ResultURL = &result.URL
	job.Status = models.ReportStatusFinished
	download, err := svc.ResolveDownload(context.Background(), result.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, filepath.Base(result.RelativePath), download.Filename)
	assert.Equal(t, models.ReportFormatCSV, download.Format)
}

func TestReportServiceResolveDownloadRejectsBadToken(t *testing.T) {
	svc, _, _, _ := newReportServiceForTest(t)

	_, err := svc.ResolveDownload(context.Background(), "job.1.abc.def")
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestReportServiceRecoverPendingJobs(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	repo.jobs["queued"] = &models.ReportJob{ID: "queued", Status: models.ReportStatusQueued}
	repo.jobs["done"] = &models.ReportJob{ID: "done", Status: models.ReportStatusFinished}

	assert.Equal(t, 1, svc.RecoverPendingJobs(context.Background()))
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "queued", queue.jobs[0].ID)
}

func TestReportServiceCleanupExpiredDeletesFiles(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	job := progressJob("job-old", models.ReportFormatCSV)
	result, err := exportSvc.Generate(context.Background(), job)
	require.NoError(t, err)
	job.ResultURL = &result.URL
	job.Status = models.ReportStatusFinished
	repo.finished = []models.ReportJob{*job}

	svc.cleanupExpired(context.Background())

	_, err = exportSvc.Open(result.RelativePath)
	require.Error(t, err)
}

type exportStub struct {
	result *ExportResult
	err    error
}

func (e exportStub) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func queuedJobRepo() *reportRepoStub {
	return &reportRepoStub{
		jobs: map[string]*models.ReportJob{
			"job-1": {
				ID:        "job-1",
				Type:      models.ReportTypeProgress,
				Params:    models.ReportJobParams{PatientID: "patient-1", Format: models.ReportFormatCSV},
				Status:    models.ReportStatusQueued,
				CreatedBy: "provider-1",
			},
		},
	}
}

func TestReportWorkerHandleSuccess(t *testing.T) {
	repo := queuedJobRepo()
	metrics := NewMetricsService()
	worker := NewReportWorker(repo, exportStub{result: &ExportResult{URL: "/api/v1/export/token"}}, 3, metrics, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Kind: reportJobKind})
	require.NoError(t, err)
	job := repo.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Equal(t, "/api/v1/export/token", *job.ResultURL)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.reportJobs.WithLabelValues(string(models.ReportStatusFinished))))
}

func TestReportWorkerHandleFailureRequeues(t *testing.T) {
	repo := queuedJobRepo()
	worker := NewReportWorker(repo, exportStub{err: errors.New("boom")}, 2, nil, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 1})
	require.Error(t, err)
	job := repo.jobs["job-1"]
	assert.Equal(t, models.ReportStatusQueued, job.Status)
	assert.Equal(t, 0, job.Progress)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, "boom", *job.ErrorMessage)
}

func TestReportWorkerHandleFailureExhaustsRetries(t *testing.T) {
	repo := queuedJobRepo()
	worker := NewReportWorker(repo, exportStub{err: errors.New("boom")}, 2, nil, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 2})
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusFailed, repo.jobs["job-1"].Status)
	assert.NotNil(t, repo.jobs["job-1"].FinishedAt)
}
