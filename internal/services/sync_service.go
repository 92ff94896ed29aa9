package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"route-backend/internal/config"
	"route-backend/internal/excel"
	"route-backend/internal/models"
	"route-backend/internal/msgraph"
	"route-backend/internal/repositories"
)

// ErrInvalidFileType rejects uploads that are not Excel workbooks.
var ErrInvalidFileType = errors.New("invalid file format, expected an Excel file (.xlsx or .xls)")

// SyncService moves the route plan between OneDrive, uploaded files and the
// relational store, and produces the tracking backup workbook.
type SyncService struct {
	CustomerRepo *repositories.CustomerRepository
	VisitRepo    *repositories.VisitRepository
	Auth         *AuthService
	Graph        *msgraph.Client

	routePlanPath string
}

func NewSyncService(customerRepo *repositories.CustomerRepository, visitRepo *repositories.VisitRepository, authService *AuthService, graph *msgraph.Client, cfg *config.Config) *SyncService {
	return &SyncService{
		CustomerRepo:  customerRepo,
		VisitRepo:     visitRepo,
		Auth:          authService,
		Graph:         graph,
		routePlanPath: cfg.OneDrive.FilePath,
	}
}

// ImportRoutePlan parses workbook bytes and replaces the whole customer
// table with the result. Existing visits are cleared with their customers.
func (s *SyncService) ImportRoutePlan(ctx context.Context, content []byte) (int, error) {
	customers, err := excel.ParseRoutePlan(bytes.NewReader(content))
	if err != nil {
		return 0, err
	}
	return s.CustomerRepo.ReplaceAll(ctx, customers)
}

// ImportUpload validates the uploaded filename extension before importing.
func (s *SyncService) ImportUpload(ctx context.Context, filename string, content []byte) (int, error) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
		return 0, ErrInvalidFileType
	}
	return s.ImportRoutePlan(ctx, content)
}

// ImportFromDrive resolves the caller's session to a Microsoft token,
// downloads the configured route plan workbook and imports it.
func (s *SyncService) ImportFromDrive(ctx context.Context, internalToken string) (int, error) {
	msToken, err := s.Auth.ResolveExternalToken(ctx, internalToken)
	if err != nil {
		return 0, err
	}

	content, err := s.Graph.DownloadByName(ctx, msToken, s.routePlanPath)
	if err != nil {
		return 0, err
	}
	return s.ImportRoutePlan(ctx, content)
}

// ExportToDrive renders the tracking workbook and uploads it next to the
// route plan, with a "_Tracking" suffix on the name.
func (s *SyncService) ExportToDrive(ctx context.Context, internalToken string) (int, error) {
	msToken, err := s.Auth.ResolveExternalToken(ctx, internalToken)
	if err != nil {
		return 0, err
	}

	rows, err := s.trackingRows(ctx)
	if err != nil {
		return 0, err
	}

	buf, err := excel.WriteTracking(rows)
	if err != nil {
		return 0, fmt.Errorf("render tracking workbook: %w", err)
	}

	exportPath := strings.Replace(s.routePlanPath, ".xlsx", "_Tracking.xlsx", 1)
	if dir := path.Dir(exportPath); dir != "" && dir != "/" && dir != "." {
		if err := s.Graph.CreateFolder(ctx, msToken, dir); err != nil {
			return 0, err
		}
	}
	if err := s.Graph.Upload(ctx, msToken, exportPath, buf.Bytes()); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// BuildBackup renders the tracking workbook for direct download, named
// with today's date.
func (s *SyncService) BuildBackup(ctx context.Context) (string, *bytes.Buffer, error) {
	rows, err := s.trackingRows(ctx)
	if err != nil {
		return "", nil, err
	}

	buf, err := excel.WriteTracking(rows)
	if err != nil {
		return "", nil, fmt.Errorf("render tracking workbook: %w", err)
	}

	return backupFilename(time.Now()), buf, nil
}

// backupFilename names a backup workbook after the day it was taken.
func backupFilename(t time.Time) string {
	return fmt.Sprintf("Route_Tracking_Backup_%s.xlsx", t.Format("2006-01-02"))
}

func (s *SyncService) Status(ctx context.Context) (*models.SyncStatus, error) {
	totalCustomers, err := s.CustomerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalVisits, err := s.VisitRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.SyncStatus{
		TotalCustomers: totalCustomers,
		TotalVisits:    totalVisits,
		HasData:        totalCustomers > 0,
	}, nil
}

// trackingRows pairs every customer with its latest visit in route order.
func (s *SyncService) trackingRows(ctx context.Context) ([]excel.TrackingRow, error) {
	customers, err := s.CustomerRepo.List(ctx, 0, "", "")
	if err != nil {
		return nil, err
	}

	rows := make([]excel.TrackingRow, 0, len(customers))
	for _, c := range customers {
		latest, err := s.VisitRepo.Latest(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, excel.TrackingRow{Customer: *c, Visit: latest})
	}
	return rows, nil
}
