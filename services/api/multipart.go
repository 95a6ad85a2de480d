package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	"hoofix/models"
)

type formFile struct {
	field string
	file  models.FileUpload
}

// postMultipart uploads form fields and files in one request.
func (c *Client) postMultipart(ctx context.Context, op, path string, fields map[string]string, files []formFile, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return &Error{Kind: InvalidInput, Op: op, Message: "could not encode form", Err: err}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.file.Name)
		if err != nil {
			return &Error{Kind: InvalidInput, Op: op, Message: "could not encode file", Err: err}
		}
		if _, err := part.Write(f.file.Data); err != nil {
			return &Error{Kind: InvalidInput, Op: op, Message: "could not encode file", Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return &Error{Kind: InvalidInput, Op: op, Message: "could not encode form", Err: err}
	}

	return c.do(ctx, call{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, out)
}
