package processor

import (
	"Propermint/internal/model"
	"Propermint/internal/pkg/consts"
	"bytes"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// ObjectStore 原图读取与衍生图写入
type ObjectStore interface {
	GetObject(ctx context.Context, objectName string) (io.ReadCloser, error)
	PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
}

type ImageProcessor interface {
	Process(ctx context.Context, post *model.Post) error
}

type imageProcessorImpl struct {
	store   ObjectStore
	widths  []int
	quality int
}

func NewImageProcessor(store ObjectStore, widths []int, quality int) ImageProcessor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &imageProcessorImpl{store: store, widths: widths, quality: quality}
}

// ImageDir 帖子图片所在目录
func ImageDir(post *model.Post) string {
	return consts.ImagePrefix + post.ChannelID + "/" + post.PostID + "/"
}

// Process 为每个宽度生成一张 jpg，只缩小不放大
func (s *imageProcessorImpl) Process(ctx context.Context, post *model.Post) error {
	dir := ImageDir(post)
	rc, err := s.store.GetObject(ctx, dir+post.ImagePath)
	if err != nil {
		return err
	}
	src, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	_ = rc.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", post.ImagePath, err)
	}

	log.InfoContext(ctx, "image derivatives started", "post_id", post.PostID, "width", src.Bounds().Dx(), "height", src.Bounds().Dy())

	g, gCtx := errgroup.WithContext(ctx)
	for _, width := range s.widths {
		width := width
		g.Go(func() error {
			img := src
			if src.Bounds().Dx() > width {
				img = imaging.Resize(src, width, 0, imaging.Lanczos)
			}

			var buf bytes.Buffer
			if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.quality)); err != nil {
				return fmt.Errorf("encode %d: %w", width, err)
			}
			name := dir + strconv.Itoa(width) + consts.DerivativeExt
			return s.store.PutObject(gCtx, name, &buf, int64(buf.Len()), consts.DerivativeMime)
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	log.InfoContext(ctx, "image derivatives finished", "post_id", post.PostID, "count", len(s.widths))
	return nil
}
