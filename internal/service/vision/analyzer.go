package vision

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Analysis parameters. Thresholds are tuned for frames resized to
// FrameWidth x FrameHeight.
const (
	FrameWidth  = 640
	FrameHeight = 360

	BlurKernelSize   = 15
	CannyLow         = 40
	CannyHigh        = 120
	DilateKernelSize = 5
	DilateIterations = 2

	MinContourArea = 300.0
	MaxContourArea = 50000.0

	AreaFactor  = 0.2
	AreaWeight  = 0.6
	CountNorm   = 12.0
	CountWeight = 0.4
)

// ErrAnalysisFailure is returned when the image pipeline cannot process a frame.
var ErrAnalysisFailure = errors.New("analysis failure")

// Estimate is the outcome of analyzing one frame.
type Estimate struct {
	Density float64
	Count   int
}

// Analyze estimates traffic density and the number of vehicle-sized blobs
// in a color (BGR) or grayscale frame. The frame is not modified.
func Analyze(frame gocv.Mat) (est Estimate, err error) {
	defer func() {
		if r := recover(); r != nil {
			est = Estimate{}
			err = fmt.Errorf("%w: %v", ErrAnalysisFailure, r)
		}
	}()

	if frame.Empty() {
		return Estimate{}, fmt.Errorf("%w: empty frame", ErrAnalysisFailure)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(frame, &resized, image.Pt(FrameWidth, FrameHeight), 0, 0, gocv.InterpolationLinear)
	if resized.Empty() {
		return Estimate{}, fmt.Errorf("%w: failed to resize frame", ErrAnalysisFailure)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	switch resized.Channels() {
	case 1:
		resized.CopyTo(&gray)
	case 3:
		if err := gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray); err != nil {
			return Estimate{}, fmt.Errorf("%w: failed to convert image to grayscale: %v", ErrAnalysisFailure, err)
		}
	case 4:
		if err := gocv.CvtColor(resized, &gray, gocv.ColorBGRAToGray); err != nil {
			return Estimate{}, fmt.Errorf("%w: failed to convert image to grayscale: %v", ErrAnalysisFailure, err)
		}
	default:
		return Estimate{}, fmt.Errorf("%w: unsupported channel count %d", ErrAnalysisFailure, resized.Channels())
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(BlurKernelSize, BlurKernelSize), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, CannyLow, CannyHigh)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(DilateKernelSize, DilateKernelSize))
	defer kernel.Close()

	dilated := edges.Clone()
	defer dilated.Close()
	for i := 0; i < DilateIterations; i++ {
		gocv.Dilate(dilated, &dilated, kernel)
	}

	contours := gocv.FindContours(dilated, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	count := 0
	totalArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area >= MinContourArea && area <= MaxContourArea {
			count++
			totalArea += area
		}
	}

	return Estimate{
		Density: Density(totalArea, count, float64(FrameWidth*FrameHeight)),
		Count:   count,
	}, nil
}

// Density combines the retained contour area and count into a score in
// [0, 1], rounded to three decimals.
func Density(totalArea float64, count int, frameArea float64) float64 {
	if frameArea <= 0 {
		return 0
	}
	d := (totalArea/(frameArea*AreaFactor))*AreaWeight + (float64(count)/CountNorm)*CountWeight
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return math.Round(d*1000) / 1000
}
