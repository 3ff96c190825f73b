package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// MultipartBody is a multipart/form-data request body. Sending one requires
// the forms capability (see middleware.Forms).
type MultipartBody struct {
	// Fields are simple key-value form fields, written in sorted key order.
	Fields map[string]string
	// Files are file upload fields, written in slice order.
	Files []FileField
}

// FileField is a file part of a multipart body.
type FileField struct {
	// FieldName is the form field name (e.g. "file").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader streams the content instead of Data.
	Reader io.Reader
}

// Field adds a form field and returns the body for chaining.
func (m *MultipartBody) Field(name, value string) *MultipartBody {
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	m.Fields[name] = value
	return m
}

// File adds a file part from memory and returns the body for chaining.
func (m *MultipartBody) File(field, filename, contentType string, data []byte) *MultipartBody {
	m.Files = append(m.Files, FileField{FieldName: field, FileName: filename, ContentType: contentType, Data: data})
	return m
}

func (m *MultipartBody) empty() bool {
	return m == nil || (len(m.Fields) == 0 && len(m.Files) == 0)
}

// encode renders the body and returns it with its content-type.
func (m *MultipartBody) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
		header.Set("Content-Type", ct)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}

		switch {
		case f.Reader != nil:
			if _, err := io.Copy(part, f.Reader); err != nil {
				return nil, "", err
			}
		default:
			if _, err := part.Write(f.Data); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
