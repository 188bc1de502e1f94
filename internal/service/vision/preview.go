package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	PreviewWidth   = 320
	PreviewHeight  = 240
	PreviewQuality = 80
)

// EncodePreview returns a small JPEG of frame for display next to a result.
func EncodePreview(frame gocv.Mat) ([]byte, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("cannot encode empty frame")
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(frame, &small, image.Pt(PreviewWidth, PreviewHeight), 0, 0, gocv.InterpolationArea)

	buf, err := gocv.IMEncodeWithParams(".jpg", small, []int{gocv.IMWriteJpegQuality, PreviewQuality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
