package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestMotionDetector_Detect(t *testing.T) {
	frames := solidFrames(t, 0, 0, 255)
	md := NewMotionDetector(1.0)
	defer md.Close()

	if m := md.Detect(frames[0]); m.Moved || m.Changed != 0 {
		t.Errorf("baseline frame reported %+v", m)
	}
	if m := md.Detect(frames[1]); m.Moved || m.Changed != 0 {
		t.Errorf("identical frames reported %+v", m)
	}
	m := md.Detect(frames[2])
	if !m.Moved {
		t.Errorf("black to white should be motion, got %+v", m)
	}
	if m.Changed < 99 {
		t.Errorf("Changed = %f, want ~100", m.Changed)
	}
}

func TestMotionDetector_Threshold(t *testing.T) {
	frames := solidFrames(t, 0, 255)

	tests := []struct {
		name      string
		threshold float64
		want      bool
	}{
		{"below", 50, true},
		{"full change never exceeds 100", 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			defer md.Close()
			md.Detect(frames[0])
			if got := md.Detect(frames[1]).Moved; got != tt.want {
				t.Errorf("Moved = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMotionDetector_NilAndEmpty(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if m := md.Detect(nil); m.Moved {
		t.Error("nil frame should not report motion")
	}
	empty := gocv.NewMat()
	defer empty.Close()
	if m := md.Detect(&empty); m.Moved {
		t.Error("empty frame should not report motion")
	}
	if md.primed {
		t.Error("nil or empty frames must not prime the baseline")
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	frames := solidFrames(t, 0, 255)
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.Detect(frames[0])
	md.Reset()
	if m := md.Detect(frames[1]); m.Moved {
		t.Error("first frame after Reset should only set the baseline")
	}
}

func TestMotionDetector_CloseTwice(t *testing.T) {
	md := NewMotionDetector(1.0)
	md.Close()
	md.Close()
}
