package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	blurKernel    = 21
	diffThreshold = 25
)

// Motion is the outcome of comparing one frame with the baseline.
type Motion struct {
	// Moved is true when Changed exceeds the detector threshold.
	Moved bool
	// Changed is the share of pixels that differ, in percent.
	Changed float64
}

// MotionDetector gates the pipeline on scene change. It keeps a blurred
// grayscale copy of the previous frame as the baseline. Safe for
// concurrent use.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	baseline  gocv.Mat
	primed    bool
}

// NewMotionDetector returns a detector that reports motion when more than
// threshold percent of pixels change between frames.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{threshold: threshold, baseline: gocv.NewMat()}
}

// Detect compares frame with the baseline and makes it the new baseline.
// The first frame after construction or Reset only primes the baseline
// and reports no motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) Motion {
	if frame == nil || frame.Empty() {
		return Motion{}
	}

	smooth := grayscaleBlur(frame)
	defer smooth.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.primed {
		smooth.CopyTo(&m.baseline)
		m.primed = true
		return Motion{}
	}

	changed := changedPercent(smooth, m.baseline)
	smooth.CopyTo(&m.baseline)
	return Motion{Moved: changed > m.threshold, Changed: changed}
}

// Reset drops the baseline so the next frame primes a fresh one.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drop()
}

// Close releases the baseline frame. Close may be called more than once.
func (m *MotionDetector) Close() {
	m.Reset()
}

func (m *MotionDetector) drop() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
	m.primed = false
}

func grayscaleBlur(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	out := gocv.NewMat()
	gocv.GaussianBlur(gray, &out, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)
	return out
}

func changedPercent(a, b gocv.Mat) float64 {
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, diffThreshold, 255, gocv.ThresholdBinary)

	total := mask.Rows() * mask.Cols()
	if total == 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total) * 100
}
