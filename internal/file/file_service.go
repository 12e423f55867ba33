package file

import (
	"context"
	"errors"

	"go-saas/internal/aggregator"
	fileerrors "go-saas/internal/file/errors"
	"go-saas/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=file_service.go -destination=mock/file_service_mock.go -package=mock
type Service interface {
	RegisterUpload(ctx context.Context, schema, companyID, userID string, req RegisterUploadRequest) (FileResponse, error)
	ConfirmUpload(ctx context.Context, schema, companyID, id string) (FileResponse, error)
	GetAll(ctx context.Context, schema, companyID string) ([]FileResponse, error)
	Delete(ctx context.Context, schema, companyID, id string) error
}

type service struct {
	repo   Repository
	usage  aggregator.Scheduler
	logger *zap.Logger
}

func NewService(repo Repository, usage aggregator.Scheduler, logger ...*zap.Logger) Service {
	l := zap.L().Named("file.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("file.service")
	}
	return &service{repo: repo, usage: usage, logger: l}
}

func (s *service) RegisterUpload(ctx context.Context, schema, companyID, userID string, req RegisterUploadRequest) (FileResponse, error) {
	if req.SizeBytes <= 0 {
		return FileResponse{}, fileerrors.ErrInvalidFileSize
	}

	cid, err := uuid.Parse(companyID)
	if err != nil {
		return FileResponse{}, fileerrors.ErrFileNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return FileResponse{}, fileerrors.ErrFileNotFound
	}

	f := &File{
		ID:         uuid.New(),
		CompanyID:  cid,
		UploadedBy: uid,
		Name:       req.Name,
		SizeBytes:  req.SizeBytes,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, schema, f); err != nil {
		return FileResponse{}, err
	}

	// Pending rows do not count toward usage, so no refresh yet.
	return toResponse(f), nil
}

func (s *service) ConfirmUpload(ctx context.Context, schema, companyID, id string) (FileResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	f, err := s.repo.FindByID(ctx, schema, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FileResponse{}, fileerrors.ErrFileNotFound
		}
		return FileResponse{}, err
	}

	if f.Status != StatusPending {
		return FileResponse{}, fileerrors.ErrFileNotPending
	}

	f.Status = StatusUploaded
	if err := s.repo.Update(ctx, schema, f); err != nil {
		return FileResponse{}, err
	}

	s.usage.Schedule(ctx, companyID, "file_uploaded")

	l.Info("file upload confirmed",
		zap.String("schema", schema),
		zap.String("file_id", f.ID.String()),
		zap.Int64("size_bytes", f.SizeBytes),
	)
	return toResponse(f), nil
}

func (s *service) GetAll(ctx context.Context, schema, companyID string) ([]FileResponse, error) {
	files, err := s.repo.FindAllByCompany(ctx, schema, companyID)
	if err != nil {
		return nil, err
	}

	out := make([]FileResponse, 0, len(files))
	for i := range files {
		out = append(out, toResponse(&files[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, schema, companyID, id string) error {
	if err := s.repo.Delete(ctx, schema, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fileerrors.ErrFileNotFound
		}
		return err
	}

	// The next rebuild recomputes totals from live rows, so a delete
	// shrinks the aggregate without bookkeeping here.
	s.usage.Schedule(ctx, companyID, "file_deleted")
	return nil
}
