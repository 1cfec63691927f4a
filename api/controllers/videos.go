package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/sandbox"
	"github.com/angelmondragon/storefront/internal/videos"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/validation"
)

const videoFileField = "file"

type VideoStore interface {
	Videos(ctx context.Context, userID string) []videos.Video
	UploadVideo(ctx context.Context, userID string, meta videos.Metadata, upload sandbox.Upload) (videos.Video, error)
	UpdateVideo(ctx context.Context, userID, videoID string, meta videos.Metadata, upload *sandbox.Upload) (videos.Video, error)
	DeleteVideo(ctx context.Context, userID, videoID string) error
}

func MyVideos(store VideoStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, "Videos retrieved", store.Videos(r.Context(), userID))
	}
}

func UploadVideo(store VideoStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		if !validators.IsMultipart(r) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "multipart body required"))
			return
		}
		values, file, err := validators.ParseMultipart(w, r, videoFileField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if file == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Video file is required").
				WithDetails(map[string]string{videoFileField: "is required"}))
			return
		}
		meta := videos.Metadata{Title: values["title"], Description: values["description"]}
		if err := validation.Struct(meta); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := store.UploadVideo(r.Context(), userID, meta, toUpload(file))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "Video uploaded", created)
	}
}

// UpdateVideo accepts JSON for text edits and multipart when the clip is replaced.
func UpdateVideo(store VideoStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}

		var (
			meta   videos.Metadata
			upload *sandbox.Upload
		)
		if validators.IsMultipart(r) {
			values, file, err := validators.ParseMultipart(w, r, videoFileField)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			meta = videos.Metadata{Title: values["title"], Description: values["description"]}
			if file != nil {
				u := toUpload(file)
				upload = &u
			}
			if err := validation.Struct(meta); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else if err := validators.DecodeJSONBody(r, &meta); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := store.UpdateVideo(r.Context(), userID, id, meta, upload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Video updated", updated)
	}
}

func DeleteVideo(store VideoStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r, logg)
		if !ok {
			return
		}
		id, ok := pathID(w, r, logg, "id")
		if !ok {
			return
		}
		if err := store.DeleteVideo(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Video deleted", nil)
	}
}

func toUpload(f *validators.FilePart) sandbox.Upload {
	return sandbox.Upload{Name: f.Name, MimeType: f.MimeType, Size: f.Size}
}
