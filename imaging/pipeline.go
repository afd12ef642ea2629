// imaging/pipeline.go
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/storage"
)

const (
	thumbnailSize    = 150
	thumbnailQuality = 70
	fullMaxSize      = 1024
	fullQuality      = 90

	thumbnailPrefix = "issues/thumbnails"
	fullPrefix      = "issues/full"
)

// Result carries the public URLs of both rendered variants. Callers store
// both on the complaint record in one write.
type Result struct {
	FullURL      string `json:"full_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Pipeline renders a complaint photo into a square thumbnail and a bounded
// full image and uploads both. The two uploads run in parallel and the
// pipeline is all-or-nothing: if either upload fails the caller gets an error
// and must not store any URL.
type Pipeline struct {
	uploader storage.Uploader
}

func NewPipeline(uploader storage.Uploader) *Pipeline {
	return &Pipeline{uploader: uploader}
}

// Process decodes the source image, renders both variants and uploads them
// under the given name, for example the complaint ID.
func (p *Pipeline) Process(ctx context.Context, name string, src io.Reader) (*Result, error) {
	start := time.Now()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Thumbnail is an exact square crop; the full variant is only shrunk,
	// never upscaled.
	thumb := imaging.Fill(img, thumbnailSize, thumbnailSize, imaging.Center, imaging.Lanczos)
	full := img
	bounds := img.Bounds()
	if bounds.Dx() > fullMaxSize || bounds.Dy() > fullMaxSize {
		full = imaging.Fit(img, fullMaxSize, fullMaxSize, imaging.Lanczos)
	}

	var thumbBuf, fullBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := imaging.Encode(&fullBuf, full, imaging.JPEG, imaging.JPEGQuality(fullQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode full image: %w", err)
	}

	result := &Result{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		url, err := p.uploader.Upload(gctx,
			fmt.Sprintf("%s/%s.jpg", thumbnailPrefix, name),
			"image/jpeg", bytes.NewReader(thumbBuf.Bytes()), int64(thumbBuf.Len()))
		if err != nil {
			return err
		}
		result.ThumbnailURL = url
		return nil
	})

	g.Go(func() error {
		url, err := p.uploader.Upload(gctx,
			fmt.Sprintf("%s/%s.jpg", fullPrefix, name),
			"image/jpeg", bytes.NewReader(fullBuf.Bytes()), int64(fullBuf.Len()))
		if err != nil {
			return err
		}
		result.FullURL = url
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Image pipeline failed",
			zap.Error(err),
			zap.String("name", name),
			zap.Duration("duration", time.Since(start)))
		return nil, err
	}

	logger.Info("Image pipeline completed",
		zap.String("name", name),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}
