package file

import "time"

type RegisterUploadRequest struct {
	Name      string `json:"name" binding:"required"`
	SizeBytes int64  `json:"size_bytes" binding:"required"`
}

type FileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(f *File) FileResponse {
	return FileResponse{
		ID:        f.ID.String(),
		Name:      f.Name,
		SizeBytes: f.SizeBytes,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
	}
}
