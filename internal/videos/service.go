// Package videos manages the KOL (key opinion leader) video feed of the signed-in creator.
package videos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/storefront/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/validation"
)

const (
	defaultFileName = "video.mp4"
	defaultMimeType = "video/mp4"
)

// Video is one entry of the creator's feed.
type Video struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl,omitempty"`
	CreatedAt   string `json:"createdAt"`
	IsActive    bool   `json:"isActive"`
}

// File is the clip sent with an upload or a replacing update.
type File struct {
	Name     string
	MimeType string
	Content  io.Reader
}

// Metadata holds the text fields of the upload and edit forms.
type Metadata struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

type Service interface {
	Mine(ctx context.Context) ([]Video, error)
	Upload(ctx context.Context, meta Metadata, file File) (*Video, error)
	Update(ctx context.Context, videoID string, meta Metadata, file *File) (*Video, error)
	Delete(ctx context.Context, videoID string) error
}

type requester interface {
	Do(ctx context.Context, req apiclient.Request, out any) (*apiclient.Response, error)
}

type service struct {
	api requester
}

func NewService(api requester) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api client is required")
	}
	return &service{api: api}, nil
}

func (s *service) Mine(ctx context.Context) ([]Video, error) {
	videos := []Video{}
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "videos.mine",
		Method: http.MethodGet,
		Path:   "/KOLVideo/my-videos",
		Auth:   true,
	}, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (s *service) Upload(ctx context.Context, meta Metadata, file File) (*Video, error) {
	meta = meta.trimmed()
	if err := validation.Struct(meta); err != nil {
		return nil, err
	}
	if file.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video file is required").
			WithDetails(map[string]string{"file": "is required"})
	}
	var created Video
	if _, err := s.api.Do(ctx, apiclient.Request{
		Name:   "videos.upload",
		Method: http.MethodPost,
		Path:   "/KOLVideo/upload",
		Form:   meta.form(),
		Files:  []apiclient.File{file.part()},
		Auth:   true,
	}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update sends JSON when only the text changes and multipart when the clip is replaced.
func (s *service) Update(ctx context.Context, videoID string, meta Metadata, file *File) (*Video, error) {
	id := strings.TrimSpace(videoID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "videoId is required").
			WithDetails(map[string]string{"videoId": "is required"})
	}
	meta = meta.trimmed()
	if err := validation.Struct(meta); err != nil {
		return nil, err
	}

	req := apiclient.Request{
		Name:   "videos.update",
		Method: http.MethodPut,
		Path:   "/KOLVideo/update/" + url.PathEscape(id),
		Auth:   true,
	}
	if file != nil && file.Content != nil {
		req.Form = meta.form()
		req.Files = []apiclient.File{file.part()}
	} else {
		req.Body = meta
	}

	var updated Video
	if _, err := s.api.Do(ctx, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, videoID string) error {
	id := strings.TrimSpace(videoID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "videoId is required").
			WithDetails(map[string]string{"videoId": "is required"})
	}
	_, err := s.api.Do(ctx, apiclient.Request{
		Name:   "videos.delete",
		Method: http.MethodDelete,
		Path:   "/KOLVideo/delete/" + url.PathEscape(id),
		Auth:   true,
	}, nil)
	return err
}

func (m Metadata) trimmed() Metadata {
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)
	return m
}

func (m Metadata) form() map[string]string {
	return map[string]string{"title": m.Title, "description": m.Description}
}

func (f File) part() apiclient.File {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = defaultFileName
	}
	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return apiclient.File{Field: "file", Name: name, Content: f.Content, MimeType: mimeType}
}
