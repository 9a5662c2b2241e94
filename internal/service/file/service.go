package file

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type FileService interface {
	// UploadPayslip stores a rendered payslip PDF and returns its storage key.
	UploadPayslip(ctx context.Context, companyID string, year, month int, pdf []byte) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// PayslipKey builds payslips/<company>/<yyyy-mm>/<uuid>.pdf.
func PayslipKey(companyID string, year, month int, id string) string {
	return path.Join("payslips", companyID, fmt.Sprintf("%04d-%02d", year, month), id+".pdf")
}

func (s *fileServiceImpl) UploadPayslip(ctx context.Context, companyID string, year, month int, pdf []byte) (string, error) {
	if len(pdf) == 0 {
		return "", fmt.Errorf("payslip pdf is empty")
	}

	key := PayslipKey(companyID, year, month, uuid.New().String())
	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(pdf), key, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("failed to upload payslip: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, key, expiry)
}
