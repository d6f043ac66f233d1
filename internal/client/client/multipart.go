package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"sort"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

type multipartFile struct {
	field  string
	upload *models.Upload
}

type multipartForm struct {
	fields map[string]string
	files  []multipartFile
}

func newMultipartForm(fields map[string]string) *multipartForm {
	if fields == nil {
		fields = map[string]string{}
	}
	return &multipartForm{fields: fields}
}

func (f *multipartForm) attach(field string, uploads ...*models.Upload) *multipartForm {
	for _, u := range uploads {
		if u != nil {
			f.files = append(f.files, multipartFile{field: field, upload: u})
		}
	}
	return f
}

func (f *multipartForm) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	keys := make([]string, 0, len(f.fields))
	for k := range f.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, f.fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.upload.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.upload.Reader); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", file.upload.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
