package file

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayslipKey(t *testing.T) {
	assert.Equal(t, "payslips/c-1/2024-03/abc.pdf", PayslipKey("c-1", 2024, 3, "abc"))
}

func TestUploadPayslip(t *testing.T) {
	ctx := context.Background()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	svc := NewFileService(local)

	key, err := svc.UploadPayslip(ctx, "company-1", 2024, 2, []byte("%PDF-1.7 test"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "payslips/company-1/2024-02/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	rc, err := local.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 test", string(body))

	url, err := svc.GetFileURL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/uploads/"+key, url)

	require.NoError(t, svc.DeleteFile(ctx, key))
}

func TestUploadPayslip_Empty(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	_, err = NewFileService(local).UploadPayslip(context.Background(), "c", 2024, 1, nil)
	assert.Error(t, err)
}
