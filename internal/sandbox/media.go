package sandbox

import (
	"context"
	"net/url"
	"strings"

	"github.com/angelmondragon/storefront/internal/videos"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/google/uuid"
)

// Upload describes a received video file. The sandbox keeps metadata only.
type Upload struct {
	Name     string
	MimeType string
	Size     int64
}

func (s *Store) Videos(_ context.Context, userID string) []videos.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]videos.Video{}, s.videos[userID]...)
}

func (s *Store) UploadVideo(_ context.Context, userID string, meta videos.Metadata, upload Upload) (videos.Video, error) {
	if err := checkUpload(upload); err != nil {
		return videos.Video{}, err
	}
	id := uuid.NewString()
	v := videos.Video{
		VideoID:     id,
		Title:       strings.TrimSpace(meta.Title),
		Description: strings.TrimSpace(meta.Description),
		VideoURL:    s.videoURL(id, upload.Name),
		CreatedAt:   s.timestamp(),
		IsActive:    true,
	}
	s.mu.Lock()
	s.videos[userID] = append(s.videos[userID], v)
	s.mu.Unlock()
	return v, nil
}

// UpdateVideo edits the text fields and, when upload is set, replaces the clip.
func (s *Store) UpdateVideo(_ context.Context, userID, videoID string, meta videos.Metadata, upload *Upload) (videos.Video, error) {
	if upload != nil {
		if err := checkUpload(*upload); err != nil {
			return videos.Video{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.videos[userID]
	for i := range list {
		if list[i].VideoID != videoID {
			continue
		}
		list[i].Title = strings.TrimSpace(meta.Title)
		list[i].Description = strings.TrimSpace(meta.Description)
		if upload != nil {
			list[i].VideoURL = s.videoURL(videoID, upload.Name)
		}
		return list[i], nil
	}
	return videos.Video{}, pkgerrors.New(pkgerrors.CodeNotFound, "Video not found")
}

func (s *Store) DeleteVideo(_ context.Context, userID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.videos[userID]
	for i := range list {
		if list[i].VideoID == videoID {
			s.videos[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "Video not found")
}

func (s *Store) videoURL(id, name string) string {
	return s.publicURL + "/media/videos/" + id + "/" + url.PathEscape(name)
}

func checkUpload(u Upload) error {
	if u.Size <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Video file is empty").
			WithDetails(map[string]string{"file": "is empty"})
	}
	if u.MimeType != "" && !strings.HasPrefix(u.MimeType, "video/") {
		return pkgerrors.New(pkgerrors.CodeValidation, "File must be a video").
			WithDetails(map[string]string{"file": "must be a video"})
	}
	return nil
}
