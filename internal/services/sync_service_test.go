package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImportUploadRejectsNonExcelFiles(t *testing.T) {
	svc := &SyncService{}
	ctx := context.Background()

	for _, filename := range []string{"plan.csv", "plan.pdf", "plan", "plan.xlsx.txt"} {
		_, err := svc.ImportUpload(ctx, filename, []byte("irrelevant"))
		assert.ErrorIs(t, err, ErrInvalidFileType, "filename %q", filename)
	}
}

func TestImportUploadAcceptsExcelExtensionsCaseInsensitively(t *testing.T) {
	svc := &SyncService{}
	ctx := context.Background()

	// The extension check passes; the content is not a workbook, so the
	// parser rejects it instead.
	for _, filename := range []string{"plan.xlsx", "plan.XLSX", "plan.xls"} {
		_, err := svc.ImportUpload(ctx, filename, []byte("not a zip archive"))
		assert.Error(t, err, "filename %q", filename)
		assert.NotErrorIs(t, err, ErrInvalidFileType, "filename %q", filename)
	}
}

func TestBackupFilenameCarriesDate(t *testing.T) {
	taken := time.Date(2026, 1, 19, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "Route_Tracking_Backup_2026-01-19.xlsx", backupFilename(taken))
}
