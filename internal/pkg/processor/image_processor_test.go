package processor

import (
	"Propermint/internal/model"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
)

var errNoObject = errors.New("object not found")

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) GetObject(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, errNoObject
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) PutObject(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return nil
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessWritesDerivatives(t *testing.T) {
	post := &model.Post{PostID: "p1", ChannelID: "c1", ImagePath: "original.png"}
	store := &memStore{objects: map[string][]byte{
		"public/images/c1/p1/original.png": pngOf(t, 800, 400),
	}}
	p := NewImageProcessor(store, []int{240, 640, 1080}, 80)

	if err := p.Process(context.Background(), post); err != nil {
		t.Fatalf("Process: %v", err)
	}

	tests := []struct {
		name  string
		width int
		high  int
	}{
		{"public/images/c1/p1/240.jpg", 240, 120},
		{"public/images/c1/p1/640.jpg", 640, 320},
		// 原图更小时保持原尺寸
		{"public/images/c1/p1/1080.jpg", 800, 400},
	}
	for _, tt := range tests {
		data, ok := store.objects[tt.name]
		if !ok {
			t.Fatalf("missing derivative %s", tt.name)
		}
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode %s: %v", tt.name, err)
		}
		if got := img.Bounds(); got.Dx() != tt.width || got.Dy() != tt.high {
			t.Fatalf("%s size = %dx%d, want %dx%d", tt.name, got.Dx(), got.Dy(), tt.width, tt.high)
		}
	}
}

func TestProcessMissingOriginal(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}}
	p := NewImageProcessor(store, []int{240}, 80)
	err := p.Process(context.Background(), &model.Post{PostID: "p1", ChannelID: "c1", ImagePath: "x.png"})
	if !errors.Is(err, errNoObject) {
		t.Fatalf("err = %v, want errNoObject", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("derivatives written without an original")
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	store := &memStore{objects: map[string][]byte{"public/images/c1/p1/x.png": []byte("not an image")}}
	p := NewImageProcessor(store, []int{240}, 80)
	if err := p.Process(context.Background(), &model.Post{PostID: "p1", ChannelID: "c1", ImagePath: "x.png"}); err == nil {
		t.Fatalf("expected decode error")
	}
}
