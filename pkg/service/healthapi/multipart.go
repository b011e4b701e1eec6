package healthapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/safe"
)

// formFile is one file part of a multipart body
type formFile struct {
	field       string
	filename    string
	contentType string
	open        func() (io.ReadCloser, error)
}

type form struct {
	files  []formFile
	fields [][2]string
}

func (f *form) addFile(field, filename, contentType string, open func() (io.ReadCloser, error)) {
	f.files = append(f.files, formFile{field: field, filename: filename, contentType: contentType, open: open})
}

func (f *form) addField(name, value string) {
	f.fields = append(f.fields, [2]string{name, value})
}

// encode renders the form into memory. Uploads are bounded by what the backend accepts,
// and a buffered body keeps Content-Length set for the server.
func (f *form) encode(ctx context.Context, generic string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fail := func(err error, msg string) (io.Reader, string, error) {
		return nil, "", goerr.Wrap(model.NewTransportFailure(0, generic), msg, goerr.V("cause", err.Error()))
	}

	for _, file := range f.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", multipart.FileContentDisposition(file.field, file.filename))
		contentType := file.contentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			return fail(err, "failed to create multipart part")
		}

		src, err := file.open()
		if err != nil {
			return fail(err, "failed to open file for upload")
		}
		_, err = io.Copy(part, src)
		safe.Close(ctx, src)
		if err != nil {
			return fail(err, "failed to copy file into request")
		}
	}

	for _, kv := range f.fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return fail(err, "failed to write multipart field")
		}
	}

	if err := mw.Close(); err != nil {
		return fail(err, "failed to finalize multipart body")
	}
	return &buf, mw.FormDataContentType(), nil
}

func bytesOpener(data []byte) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}
