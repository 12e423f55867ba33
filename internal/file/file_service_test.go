package file_test

import (
	"context"
	"sync"
	"testing"

	"go-saas/internal/file"
	fileerrors "go-saas/internal/file/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeFileRepo struct {
	mu    sync.Mutex
	files map[string]*file.File
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*file.File)}
}

func (f *fakeFileRepo) Create(ctx context.Context, schema string, rec *file.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[rec.ID.String()] = rec
	return nil
}

func (f *fakeFileRepo) FindByID(ctx context.Context, schema, companyID, id string) (*file.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.files[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeFileRepo) FindAllByCompany(ctx context.Context, schema, companyID string) ([]file.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []file.File
	for _, rec := range f.files {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeFileRepo) Update(ctx context.Context, schema string, rec *file.File) error {
	return nil
}

func (f *fakeFileRepo) Delete(ctx context.Context, schema, companyID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.files, id)
	return nil
}

type fakeScheduler struct {
	reasons []string
}

func (f *fakeScheduler) Schedule(ctx context.Context, companyID, reason string) {
	f.reasons = append(f.reasons, reason)
}

func TestFileService_UploadLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFileRepo()
	usage := &fakeScheduler{}
	svc := file.NewService(repo, usage)

	companyID := uuid.New().String()
	userID := uuid.New().String()

	res, err := svc.RegisterUpload(ctx, "ca_acme", companyID, userID, file.RegisterUploadRequest{
		Name:      "report.pdf",
		SizeBytes: 2048,
	})
	assert.NoError(t, err)
	assert.Equal(t, file.StatusPending, res.Status)
	assert.Empty(t, usage.reasons, "pending rows do not count toward usage")

	confirmed, err := svc.ConfirmUpload(ctx, "ca_acme", companyID, res.ID)
	assert.NoError(t, err)
	assert.Equal(t, file.StatusUploaded, confirmed.Status)
	assert.Equal(t, []string{"file_uploaded"}, usage.reasons)

	// A second confirm is a state error, not a silent no-op.
	_, err = svc.ConfirmUpload(ctx, "ca_acme", companyID, res.ID)
	assert.ErrorIs(t, err, fileerrors.ErrFileNotPending)
}

func TestFileService_RegisterUpload_RejectsZeroSize(t *testing.T) {
	svc := file.NewService(newFakeFileRepo(), &fakeScheduler{})

	_, err := svc.RegisterUpload(context.Background(), "ca_acme", uuid.New().String(), uuid.New().String(), file.RegisterUploadRequest{
		Name:      "empty.bin",
		SizeBytes: 0,
	})
	assert.ErrorIs(t, err, fileerrors.ErrInvalidFileSize)
}

func TestFileService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFileRepo()
	usage := &fakeScheduler{}
	svc := file.NewService(repo, usage)

	companyID := uuid.New().String()
	res, err := svc.RegisterUpload(ctx, "ca_acme", companyID, uuid.New().String(), file.RegisterUploadRequest{
		Name:      "old.csv",
		SizeBytes: 512,
	})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, "ca_acme", companyID, res.ID))
	assert.Equal(t, []string{"file_deleted"}, usage.reasons)

	err = svc.Delete(ctx, "ca_acme", companyID, res.ID)
	assert.ErrorIs(t, err, fileerrors.ErrFileNotFound)
}
