package request

import (
	"io"
	"mime/multipart"
)

// ImageFile is an uploaded file that has not been read yet.
type ImageFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func FromFileHeaders(headers []*multipart.FileHeader) []ImageFile {
	files := make([]ImageFile, 0, len(headers))
	for _, h := range headers {
		files = append(files, FromFileHeader(h))
	}
	return files
}

func FromFileHeader(h *multipart.FileHeader) ImageFile {
	return ImageFile{
		Filename:    h.Filename,
		ContentType: h.Header.Get("Content-Type"),
		Size:        h.Size,
		Open: func() (io.ReadCloser, error) {
			return h.Open()
		},
	}
}
