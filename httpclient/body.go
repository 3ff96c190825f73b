package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/noel-archive/orchid/errors"
)

// BodyKind tags the representation of a request body.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyRaw
	BodyText
	BodyJSON
	BodyMultipart
)

func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyRaw:
		return "raw"
	case BodyText:
		return "text"
	case BodyJSON:
		return "json"
	case BodyMultipart:
		return "multipart"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// body is an encoded request payload. Readers are drained on first use so
// the same bytes can be replayed on 307/308 redirects.
type body struct {
	kind        BodyKind
	contentType string
	data        []byte
	reader      io.Reader
}

// encodeBody tags data and renders it.
//
//	[]byte, io.Reader   raw, no content-type
//	string              text/plain
//	url.Values          application/x-www-form-urlencoded
//	*MultipartBody      multipart/form-data
//	anything else       application/json
func encodeBody(data any) (body, error) {
	switch v := data.(type) {
	case nil:
		return body{}, nil
	case []byte:
		if len(v) == 0 {
			return body{}, nil
		}
		return body{kind: BodyRaw, data: v}, nil
	case io.Reader:
		return body{kind: BodyRaw, reader: v}, nil
	case string:
		if v == "" {
			return body{}, nil
		}
		return body{kind: BodyText, contentType: contentTypeText, data: []byte(v)}, nil
	case url.Values:
		if len(v) == 0 {
			return body{}, nil
		}
		return body{kind: BodyText, contentType: contentTypeForm, data: []byte(v.Encode())}, nil
	case MultipartBody:
		return encodeBody(&v)
	case *MultipartBody:
		if v.empty() {
			return body{}, nil
		}
		buf, ct, err := v.encode()
		if err != nil {
			return body{}, errors.NewInvalidBody("", "cannot encode multipart body: "+err.Error())
		}
		return body{kind: BodyMultipart, contentType: ct, data: buf}, nil
	default:
		buf, err := json.Marshal(v)
		if err != nil {
			return body{}, errors.NewInvalidBody("", "cannot encode json body: "+err.Error())
		}
		return body{kind: BodyJSON, contentType: contentTypeJSON, data: buf}, nil
	}
}

func (b *body) empty() bool {
	return b.kind == BodyNone
}

// bytes drains a reader body once and returns the payload.
func (b *body) bytes() ([]byte, error) {
	if b.reader != nil {
		buf, err := io.ReadAll(b.reader)
		if err != nil {
			return nil, err
		}
		b.data, b.reader = buf, nil
	}
	return b.data, nil
}

func (b *body) open() (io.Reader, int64, error) {
	data, err := b.bytes()
	if err != nil {
		return nil, 0, err
	}
	if data == nil {
		return nil, 0, nil
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
