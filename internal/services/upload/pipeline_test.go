package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStore records what reaches the blob store.
type captureStore struct {
	puts   int
	key    string
	data   []byte
	ctype  string
	putErr error
}

func (s *captureStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	s.puts++
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.key = key
	s.data = data
	s.ctype = contentType
	return "https://blobs.example.com/" + key, nil
}

func (s *captureStore) Remove(context.Context, string) error { return nil }

func (s *captureStore) LocalKey(string) (string, bool) { return "", false }

type filePart struct {
	field       string
	filename    string
	contentType string
	data        string
}

// buildMultipart assembles a multipart body and a reader over it.
func buildMultipart(t *testing.T, parts ...filePart) *multipart.Reader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, w.WriteField(p.field, p.data))
			continue
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write([]byte(p.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return multipart.NewReader(&body, w.Boundary())
}

func TestPipeline_StoresImage(t *testing.T) {
	store := &captureStore{}
	fixed := time.Unix(1700000000, 0)
	p := NewPipeline(store, 1024).WithClock(func() time.Time { return fixed })

	mr := buildMultipart(t,
		filePart{field: "title", data: "ignored text field"},
		filePart{field: "image", filename: "cat photo!.png", contentType: "image/png", data: "png-bytes"},
	)

	url, err := p.Process(context.Background(), mr)
	require.NoError(t, err)

	assert.Equal(t, 1, store.puts)
	assert.Equal(t, "png-bytes", string(store.data))
	assert.Equal(t, "image/png", store.ctype)
	assert.True(t, strings.HasPrefix(store.key, "1700000000_"), "key starts with the timestamp: %s", store.key)
	assert.True(t, strings.HasSuffix(store.key, "_cat_photo_.png"), "filename is sanitized: %s", store.key)
	assert.Equal(t, "https://blobs.example.com/"+store.key, url)
}

func TestPipeline_OnlyFirstFileHonored(t *testing.T) {
	store := &captureStore{}
	p := NewPipeline(store, 1024)

	mr := buildMultipart(t,
		filePart{field: "image", filename: "a.png", contentType: "image/png", data: "first"},
		filePart{field: "image", filename: "b.png", contentType: "image/png", data: "second"},
	)

	_, err := p.Process(context.Background(), mr)
	require.NoError(t, err)
	assert.Equal(t, 1, store.puts)
	assert.Equal(t, "first", string(store.data))
}

func TestPipeline_RejectsUnsupportedMediaType(t *testing.T) {
	store := &captureStore{}
	p := NewPipeline(store, 1024)

	mr := buildMultipart(t,
		filePart{field: "image", filename: "notes.txt", contentType: "text/plain", data: "hello"},
	)

	_, err := p.Process(context.Background(), mr)
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Zero(t, store.puts, "nothing reaches the blob store")
}

func TestPipeline_RejectsEmptyUpload(t *testing.T) {
	store := &captureStore{}
	p := NewPipeline(store, 1024)

	t.Run("zero byte file", func(t *testing.T) {
		mr := buildMultipart(t,
			filePart{field: "image", filename: "empty.png", contentType: "image/png", data: ""},
		)
		_, err := p.Process(context.Background(), mr)
		assert.ErrorIs(t, err, ErrEmptyUpload)
	})

	t.Run("no file field at all", func(t *testing.T) {
		mr := buildMultipart(t, filePart{field: "title", data: "just text"})
		_, err := p.Process(context.Background(), mr)
		assert.ErrorIs(t, err, ErrEmptyUpload)
	})

	assert.Zero(t, store.puts)
}

func TestPipeline_RejectsOversizedUpload(t *testing.T) {
	store := &captureStore{}
	p := NewPipeline(store, 8)

	mr := buildMultipart(t,
		filePart{field: "image", filename: "big.png", contentType: "image/png", data: "123456789"},
	)

	_, err := p.Process(context.Background(), mr)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, store.puts)
}

func TestPipeline_ExactCapAccepted(t *testing.T) {
	store := &captureStore{}
	p := NewPipeline(store, 8)

	mr := buildMultipart(t,
		filePart{field: "image", filename: "fit.png", contentType: "image/png", data: "12345678"},
	)

	_, err := p.Process(context.Background(), mr)
	require.NoError(t, err)
	assert.Equal(t, "12345678", string(store.data))
}

func TestPipeline_MalformedFraming(t *testing.T) {
	store := &captureStore{}
	p := NewPipeline(store, 1024)

	mr := multipart.NewReader(strings.NewReader("--boundary\r\ngarbage"), "boundary")
	_, err := p.Process(context.Background(), mr)
	assert.ErrorIs(t, err, ErrMalformedUpload)
	assert.Zero(t, store.puts)
}

func TestPipeline_StoreFailurePropagates(t *testing.T) {
	store := &captureStore{putErr: errors.New("bucket unavailable")}
	p := NewPipeline(store, 1024)

	mr := buildMultipart(t,
		filePart{field: "image", filename: "cat.png", contentType: "image/png", data: "png"},
	)

	_, err := p.Process(context.Background(), mr)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyUpload)
	assert.NotErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestPipeline_CancelledContext(t *testing.T) {
	store := &captureStore{}
	p := NewPipeline(store, 1024)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mr := buildMultipart(t,
		filePart{field: "image", filename: "cat.png", contentType: "image/png", data: "png"},
	)

	_, err := p.Process(ctx, mr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.puts)
}

func TestPipeline_CollectFieldsAndOptionalImage(t *testing.T) {
	store := &captureStore{}
	p := NewPipeline(store, 1024)

	t.Run("fields with image", func(t *testing.T) {
		mr := buildMultipart(t,
			filePart{field: "title", data: "Hello"},
			filePart{field: "image", filename: "cat.png", contentType: "image/png", data: "png"},
			filePart{field: "source", data: "https://example.com"},
		)

		form, err := p.Collect(context.Background(), mr)
		require.NoError(t, err)
		assert.Equal(t, "Hello", form.Field("title"))
		assert.Equal(t, "https://example.com", form.Field("source"))
		assert.Equal(t, "", form.Field("body"))
		assert.NotEmpty(t, form.ImageURL)
	})

	t.Run("fields without image is not an error", func(t *testing.T) {
		mr := buildMultipart(t, filePart{field: "title", data: "No image"})

		form, err := p.Collect(context.Background(), mr)
		require.NoError(t, err)
		assert.Equal(t, "No image", form.Field("title"))
		assert.Empty(t, form.ImageURL)
	})

	t.Run("bad image still rejected", func(t *testing.T) {
		mr := buildMultipart(t,
			filePart{field: "title", data: "x"},
			filePart{field: "image", filename: "a.txt", contentType: "text/plain", data: "x"},
		)

		_, err := p.Collect(context.Background(), mr)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "cat.png", sanitizeFilename("cat.png"))
	assert.Equal(t, "cat.png", sanitizeFilename("../../cat.png"))
	assert.Equal(t, "my_photo_1_.png", sanitizeFilename("my photo(1).png"))
	assert.Equal(t, "upload", sanitizeFilename(""))

	long := strings.Repeat("a", 100) + ".png"
	sanitized := sanitizeFilename(long)
	assert.Len(t, sanitized, maxFilenameLength)
	assert.True(t, strings.HasSuffix(sanitized, ".png"), "extension survives capping")
}
