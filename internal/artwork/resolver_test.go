package artwork

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockConfig struct {
	tempDir string
}

func (m mockConfig) GetPlayerName() string            { return "kew" }
func (m mockConfig) GetTempDir() string               { return m.tempDir }
func (m mockConfig) GetPollInterval() time.Duration   { return 100 * time.Millisecond }
func (m mockConfig) GetDebounceWindow() time.Duration { return 300 * time.Millisecond }
func (m mockConfig) GetSuppressTicks() int            { return 3 }
func (m mockConfig) GetToolTimeout() time.Duration    { return time.Second }
func (m mockConfig) GetConvertTimeout() time.Duration { return time.Second }

// fakeConverter writes a fixed payload to the destination path
type fakeConverter struct {
	payload  func(dst string) error
	err      error
	srcSeen  string
	dstSeen  string
	deadline bool
}

func (c *fakeConverter) Convert(ctx context.Context, src, dst string) error {
	c.srcSeen, c.dstSeen = src, dst
	_, c.deadline = ctx.Deadline()
	if c.err != nil {
		return c.err
	}
	return c.payload(dst)
}

type fakeFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.data, f.err
}

func writePNG(col color.NRGBA) func(string) error {
	return func(dst string) error {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				img.SetNRGBA(x, y, col)
			}
		}
		f, err := os.Create(dst)
		if err != nil {
			return err
		}
		defer f.Close()
		return png.Encode(f, img)
	}
}

func writeGarbage(dst string) error {
	return os.WriteFile(dst, []byte("definitely not a png"), 0o644)
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files left behind")
}

func TestResolve_LocalFile(t *testing.T) {
	dir := t.TempDir()
	conv := &fakeConverter{payload: writePNG(color.NRGBA{R: 255, A: 255})}
	r := NewResolver(zap.NewNop(), conv, &fakeFetcher{}, mockConfig{tempDir: dir})

	img, ok := r.Resolve(context.Background(), "file:///music/cover.jpg")
	require.True(t, ok)

	assert.Equal(t, "/music/cover.jpg", conv.srcSeen)
	assert.Equal(t, dir, filepath.Dir(conv.dstSeen))
	assert.Equal(t, ".png", filepath.Ext(conv.dstSeen))
	assert.True(t, conv.deadline, "conversion must be bounded")

	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 76, G: 76, B: 76, A: 255}, img.NRGBAAt(1, 1))
	assertDirEmpty(t, dir)
}

func TestResolve_PlainPath(t *testing.T) {
	dir := t.TempDir()
	conv := &fakeConverter{payload: writePNG(color.NRGBA{G: 255, A: 255})}
	r := NewResolver(zap.NewNop(), conv, &fakeFetcher{}, mockConfig{tempDir: dir})

	_, ok := r.Resolve(context.Background(), "/music/cover.jpg")
	require.True(t, ok)
	assert.Equal(t, "/music/cover.jpg", conv.srcSeen)
}

func TestResolve_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		conv *fakeConverter
	}{
		{
			name: "Empty reference",
			ref:  "",
			conv: &fakeConverter{payload: writePNG(color.NRGBA{A: 255})},
		},
		{
			name: "Bare prefix",
			ref:  "file://",
			conv: &fakeConverter{payload: writePNG(color.NRGBA{A: 255})},
		},
		{
			name: "Converter fails",
			ref:  "file:///music/cover.jpg",
			conv: &fakeConverter{err: errors.New("exit status 1")},
		},
		{
			name: "Decode fails",
			ref:  "file:///music/cover.jpg",
			conv: &fakeConverter{payload: writeGarbage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			r := NewResolver(zap.NewNop(), tt.conv, &fakeFetcher{}, mockConfig{tempDir: dir})

			img, ok := r.Resolve(context.Background(), tt.ref)
			assert.False(t, ok)
			assert.Nil(t, img)
			assertDirEmpty(t, dir)
		})
	}
}

func TestResolve_EmptyReferenceSkipsConverter(t *testing.T) {
	conv := &fakeConverter{err: errors.New("should not run")}
	r := NewResolver(zap.NewNop(), conv, &fakeFetcher{}, mockConfig{tempDir: t.TempDir()})

	_, ok := r.Resolve(context.Background(), "")
	assert.False(t, ok)
	assert.Empty(t, conv.srcSeen)
}

func TestResolve_Remote(t *testing.T) {
	dir := t.TempDir()
	var srcContent []byte
	conv := &fakeConverter{payload: func(dst string) error {
		return writePNG(color.NRGBA{B: 255, A: 128})(dst)
	}}
	ftch := &fakeFetcher{data: []byte("jpeg-bytes")}
	r := NewResolver(zap.NewNop(), &readingConverter{inner: conv, seen: &srcContent}, ftch, mockConfig{tempDir: dir})

	img, ok := r.Resolve(context.Background(), "https://example.com/cover.jpg")
	require.True(t, ok)

	assert.Equal(t, []string{"https://example.com/cover.jpg"}, ftch.urls)
	assert.Equal(t, []byte("jpeg-bytes"), srcContent)
	assert.Equal(t, dir, filepath.Dir(conv.srcSeen))
	assert.Equal(t, color.NRGBA{R: 29, G: 29, B: 29, A: 128}, img.NRGBAAt(0, 0))
	assertDirEmpty(t, dir)
}

func TestResolve_RemoteFetchFails(t *testing.T) {
	dir := t.TempDir()
	conv := &fakeConverter{payload: writePNG(color.NRGBA{A: 255})}
	ftch := &fakeFetcher{err: errors.New("unexpected status code: 404")}
	r := NewResolver(zap.NewNop(), conv, ftch, mockConfig{tempDir: dir})

	_, ok := r.Resolve(context.Background(), "http://example.com/missing.jpg")
	assert.False(t, ok)
	assert.Empty(t, conv.srcSeen)
	assertDirEmpty(t, dir)
}

// readingConverter records the source file content before delegating
type readingConverter struct {
	inner *fakeConverter
	seen  *[]byte
}

func (c *readingConverter) Convert(ctx context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	*c.seen = data
	return c.inner.Convert(ctx, src, dst)
}
