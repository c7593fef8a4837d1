// Package upload implements the streaming image upload pipeline: pull parts
// off a multipart reader, buffer and validate the single honored file field,
// and forward it to the blob store.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnlatif16/Story-stories/internal/blob"
)

// FileField is the only multipart field the pipeline honors as a file.
const FileField = "image"

const (
	maxFilenameLength = 64
	maxTextFieldBytes = 1 << 20
)

var (
	// ErrMalformedUpload is returned on broken multipart framing. Nothing is
	// written to the blob store when it fires.
	ErrMalformedUpload = errors.New("malformed multipart upload")
	// ErrUnsupportedMediaType is returned for content types outside the
	// image allow-list, before any bytes are stored.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrEmptyUpload is returned when no file bytes were received.
	ErrEmptyUpload = errors.New("empty upload")
	// ErrTooLarge is returned when the file exceeds the configured cap.
	ErrTooLarge = errors.New("upload exceeds size limit")
)

// allowedTypes is the exact accepted MIME allow-list.
var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// Form is the outcome of consuming a multipart request: its text fields and
// the public URL of the stored image, when one was uploaded.
type Form struct {
	Fields   map[string]string
	ImageURL string
}

// Field returns a text field value, or "" when absent.
func (f *Form) Field(name string) string { return f.Fields[name] }

// Pipeline buffers one uploaded image per request and forwards it to the
// blob store. The whole file is held in memory, which is acceptable only
// because of the hard size cap.
type Pipeline struct {
	store    blob.Store
	maxBytes int64
	now      func() time.Time
}

// NewPipeline constructs a pipeline over the given store with a byte cap.
func NewPipeline(store blob.Store, maxBytes int64) *Pipeline {
	return &Pipeline{store: store, maxBytes: maxBytes, now: time.Now}
}

// WithClock overrides the time source used for object keys. Used by tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Process consumes the multipart stream, validates the "image" file part,
// stores it, and returns the asset's public URL. A request without file
// bytes fails with ErrEmptyUpload. The URL is opaque to the pipeline.
// Cancelling ctx aborts both accumulation and forwarding.
func (p *Pipeline) Process(ctx context.Context, mr *multipart.Reader) (string, error) {
	_, file, err := p.consume(ctx, mr)
	if err != nil {
		return "", err
	}

	if file == nil || file.data.Len() == 0 {
		return "", ErrEmptyUpload
	}
	return p.forward(ctx, file)
}

// Collect consumes a multipart story submission: every text field is
// gathered, and an optional "image" file is validated and stored the same
// way Process stores it. A missing or zero-byte file is not an error here.
func (p *Pipeline) Collect(ctx context.Context, mr *multipart.Reader) (*Form, error) {
	form, file, err := p.consume(ctx, mr)
	if err != nil {
		return nil, err
	}

	if file != nil && file.data.Len() > 0 {
		url, err := p.forward(ctx, file)
		if err != nil {
			return nil, err
		}
		form.ImageURL = url
	}
	return form, nil
}

// bufferedFile is one accumulated upload awaiting forwarding. It exists only
// for the duration of the request.
type bufferedFile struct {
	data        bytes.Buffer
	filename    string
	contentType string
}

// consume walks the multipart stream once: text fields are collected, the
// first "image" file part is buffered and validated, later file parts are
// discarded.
func (p *Pipeline) consume(ctx context.Context, mr *multipart.Reader) (*Form, *bufferedFile, error) {
	form := &Form{Fields: make(map[string]string)}
	var file *bufferedFile

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
		}

		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxTextFieldBytes))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
			}
			form.Fields[part.FormName()] = string(value)
			continue
		}

		// Only the first file part of the honored field counts; anything
		// else is discarded when the reader advances.
		if part.FormName() != FileField || file != nil {
			continue
		}

		contentType, err := mediaType(part)
		if err != nil {
			return nil, nil, err
		}

		file = &bufferedFile{filename: part.FileName(), contentType: contentType}

		// Read one byte past the cap so an oversized file is distinguishable
		// from one that exactly fits.
		n, err := io.Copy(&file.data, io.LimitReader(part, p.maxBytes+1))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
		}
		if n > p.maxBytes {
			return nil, nil, ErrTooLarge
		}
	}

	return form, file, nil
}

// forward hands the buffered file to the blob store.
func (p *Pipeline) forward(ctx context.Context, file *bufferedFile) (string, error) {
	key := p.objectKey(file.filename)
	url, err := p.store.Put(ctx, key, bytes.NewReader(file.data.Bytes()), int64(file.data.Len()), file.contentType)
	if err != nil {
		return "", fmt.Errorf("forward upload to blob store: %w", err)
	}
	return url, nil
}

// mediaType validates the part's declared content type against the allow-list.
func mediaType(part *multipart.Part) (string, error) {
	declared := part.Header.Get("Content-Type")
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, declared)
	}
	if _, ok := allowedTypes[mt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mt)
	}
	return mt, nil
}

// objectKey derives the destination key from a timestamp, a random suffix
// for collision avoidance, and the sanitized original filename.
func (p *Pipeline) objectKey(filename string) string {
	return fmt.Sprintf("%d_%s_%s", p.now().Unix(), uuid.NewString()[:8], sanitizeFilename(filename))
}

// sanitizeFilename strips any path, replaces characters outside
// [a-zA-Z0-9._-], and caps the length.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if len(out) > maxFilenameLength {
		out = out[len(out)-maxFilenameLength:]
	}
	if out == "" || out == "." || out == ".." {
		out = "upload"
	}
	return out
}
