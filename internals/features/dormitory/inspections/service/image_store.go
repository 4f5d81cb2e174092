package service

import (
	"context"

	"asramaku_backend/internals/helpers/oss"
)

// OSSImageStore: foto bukti disimpan sebagai WebP publik di Alibaba OSS.
// Byte asli (dengan EXIF) tetap dipakai untuk forensik & scoring, yang
// tersimpan hanya hasil konversi.
type OSSImageStore struct {
	Svc       *oss.OSSService
	KeyPrefix string
}

func NewOSSImageStore(svc *oss.OSSService) *OSSImageStore {
	return &OSSImageStore{Svc: svc, KeyPrefix: "room-inspections"}
}

func (s *OSSImageStore) Store(ctx context.Context, imageBytes []byte, filename string) (string, error) {
	return s.Svc.UploadBytesAsWebP(ctx, imageBytes, filename, s.KeyPrefix)
}

func (s *OSSImageStore) Delete(ctx context.Context, url string) error {
	return s.Svc.DeleteByPublicURL(ctx, url)
}
