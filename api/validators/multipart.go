package validators

import (
	"errors"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// MaxUploadBytes bounds a single multipart request.
const MaxUploadBytes = 64 << 20

// FilePart is a received file. Only metadata is kept; the content is drained.
type FilePart struct {
	Name     string
	MimeType string
	Size     int64
}

// IsMultipart reports whether the request carries a multipart body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// ParseMultipart reads the form values and the named file. file is nil when
// the request has no such part.
func ParseMultipart(w http.ResponseWriter, r *http.Request, fileField string) (map[string]string, *FilePart, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	defer r.MultipartForm.RemoveAll()

	values := map[string]string{}
	for key, vals := range r.MultipartForm.Value {
		if len(vals) > 0 {
			values[key] = vals[0]
		}
	}

	f, header, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return values, nil, nil
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file part")
	}
	defer f.Close()

	size, err := io.Copy(io.Discard, f)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read file part")
	}
	return values, &FilePart{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     size,
	}, nil
}
