package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Form is a multipart body. Fields keep their order; a name may repeat.
type Form struct {
	Fields []FormField
	File   *FilePart
}

type FormField struct {
	Name  string
	Value string
}

type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

func (f *Form) Add(name, value string) {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
}

// Upload posts a multipart form. Credentials and error mapping match Send.
func (c *Client) Upload(ctx context.Context, path string, form Form) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range form.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", f.Name, err)
		}
	}
	if form.File != nil && form.File.Content != nil {
		part, err := w.CreateFormFile(form.File.Field, form.File.Filename)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, form.File.Content); err != nil {
			return nil, fmt.Errorf("copy form file: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}
