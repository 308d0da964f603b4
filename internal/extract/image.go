package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/openshelf/warden/internal/resources"
)

func (e *Extractor) extractImage(ctx context.Context, item resources.Item) Content {
	data, ok := e.fetch(ctx, item.File)
	if !ok {
		return Content{Summary: FallbackSummary}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		e.logger.Warn("image decode failed",
			"key", item.File.StorageKey,
			"error", err,
		)
		return Content{
			SizeBytes: int64(len(data)),
			Summary:   FallbackSummary,
		}
	}

	return Content{
		SizeBytes: int64(len(data)),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    format,
		HasAlpha:  hasAlpha(cfg.ColorModel),
		Summary:   fmt.Sprintf("Filename: %s", item.File.Filename),
	}
}

func hasAlpha(m color.Model) bool {
	switch m {
	case color.NRGBAModel, color.NRGBA64Model,
		color.RGBAModel, color.RGBA64Model,
		color.AlphaModel, color.Alpha16Model:
		return true
	}
	return false
}
