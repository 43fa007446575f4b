package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/recovery-api/internal/models"
	"github.com/noah-isme/recovery-api/pkg/export"
	"github.com/noah-isme/recovery-api/pkg/storage"
)

const reportDateLayout = "2006-01-02"

type assessmentHistory interface {
	ListByPatient(ctx context.Context, patientID string) ([]models.Assessment, error)
}

type checkInHistory interface {
	List(ctx context.Context, patientID string, filter models.CheckInFilter) ([]models.CheckIn, error)
}

type snapshotComputer interface {
	Compute(ctx context.Context, patientID string) (*models.AnalyticsSnapshot, error)
}

type fileStorage interface {
	Save(relPath string, data []byte) (string, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(report export.Report) ([]byte, error)
}

type pdfRenderer interface {
	Render(report export.Report) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportSources groups the readers a progress report is assembled from.
type ExportSources struct {
	Assessments assessmentHistory
	CheckIns    checkInHistory
	Profiles    profileReader
	Outcomes    snapshotComputer
}

// ExportService renders progress reports and stores them behind signed links.
type ExportService struct {
	src     ExportSources
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	now     func() time.Time
	cfg     ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(src ExportSources, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		src:     src,
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		cfg:     cfg,
	}
}

// Generate builds the job's report, stores the rendered file and signs a download link.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, errors.New("generate export: nil job")
	}
	if job.Type != models.ReportTypeProgress {
		return nil, fmt.Errorf("unsupported report type %s", job.Type)
	}
	report, err := s.buildProgressReport(ctx, job.Params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(report)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(report)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("progress report generated",
		zap.String("job_id", job.ID),
		zap.String("format", string(job.Params.Format)),
		zap.Int("bytes", len(payload)))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          prefix + "/export/" + token,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates a download token.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.DownloadClaims, error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, or the configured ResultTTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	return fmt.Sprintf("%s/%s_%s.%s", job.Type, job.ID, s.now().Format("20060102_150405"), job.Params.Format)
}

type progressRow struct {
	date     time.Time
	odi      *float64
	baseline bool
	pain     *int
	mood     *int
}

func (s *ExportService) buildProgressReport(ctx context.Context, params models.ReportJobParams) (export.Report, error) {
	if params.PatientID == "" {
		return export.Report{}, errors.New("progress report: patient id required")
	}
	assessments, err := s.src.Assessments.ListByPatient(ctx, params.PatientID)
	if err != nil {
		return export.Report{}, err
	}
	checkIns, err := s.src.CheckIns.List(ctx, params.PatientID, models.CheckInFilter{From: params.From, To: params.To})
	if err != nil {
		return export.Report{}, err
	}
	snapshot, err := s.src.Outcomes.Compute(ctx, params.PatientID)
	if err != nil {
		return export.Report{}, err
	}
	var profile *models.PatientProfile
	if s.src.Profiles != nil {
		if profile, err = s.src.Profiles.FindProfile(ctx, params.PatientID); err != nil {
			return export.Report{}, err
		}
	}

	rows := map[string]*progressRow{}
	rowFor := func(t time.Time) *progressRow {
		key := t.UTC().Format(reportDateLayout)
		if r, ok := rows[key]; ok {
			return r
		}
		r := &progressRow{date: t}
		rows[key] = r
		return r
	}
	for _, a := range assessments {
		if !withinRange(a.AssessmentDate, params.From, params.To) {
			continue
		}
		score := a.PercentageScore
		r := rowFor(a.AssessmentDate)
		r.odi, r.baseline = &score, a.IsBaseline
	}
	for _, c := range checkIns {
		pain := c.PainScore
		r := rowFor(c.RecordedDate)
		r.pain, r.mood = &pain, c.Mood
	}

	ordered := make([]*progressRow, 0, len(rows))
	for _, r := range rows {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].date.Before(ordered[j].date) })

	table := make([][]string, 0, len(ordered))
	for _, r := range ordered {
		baseline := ""
		if r.baseline {
			baseline = "yes"
		}
		table = append(table, []string{
			r.date.UTC().Format(reportDateLayout),
			formatFloat(r.odi, 1),
			baseline,
			formatInt(r.pain),
			formatInt(r.mood),
		})
	}

	return export.Report{
		Title:   "Recovery progress report",
		Summary: progressSummary(params.PatientID, profile, snapshot, len(assessments), s.now()),
		Headers: []string{"Date", "ODI %", "Baseline", "Pain (0-10)", "Mood (1-5)"},
		Rows:    table,
	}, nil
}

func progressSummary(patientID string, profile *models.PatientProfile, snapshot *models.AnalyticsSnapshot, assessments int, now time.Time) []export.Field {
	fields := []export.Field{
		{Label: "Patient", Value: patientID},
		{Label: "Generated", Value: now.Format(time.RFC3339)},
	}
	if profile != nil {
		fields = append(fields,
			export.Field{Label: "Treatment", Value: string(profile.TreatmentType)},
			export.Field{Label: "Treatment date", Value: profile.TreatmentDate.Format(reportDateLayout)},
		)
	}
	mcid := "not yet reached"
	if snapshot.TimeToMCIDDays != nil {
		mcid = strconv.Itoa(*snapshot.TimeToMCIDDays) + " days"
	}
	plateau := "no"
	if snapshot.PlateauDetected {
		plateau = "yes"
	}
	return append(fields,
		export.Field{Label: "Assessments", Value: strconv.Itoa(assessments)},
		export.Field{Label: "Weeks since baseline", Value: strconv.Itoa(snapshot.WeeksSinceBaseline)},
		export.Field{Label: "Time to MCID", Value: mcid},
		export.Field{Label: "Trajectory (points/week)", Value: formatFloat(snapshot.TrajectorySlopePerWeek, 2)},
		export.Field{Label: "Pain-function correlation", Value: formatFloat(snapshot.PainFunctionCorrelation, 2)},
		export.Field{Label: "Plateau", Value: plateau},
	)
}

func withinRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func formatFloat(v *float64, precision int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
