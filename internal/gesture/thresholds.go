package gesture

import (
	"errors"
	"fmt"
)

// Thresholds is the tunable table the classifier runs on. Distances are
// multiples of the hand size.
type Thresholds struct {
	ExtensionRatio  float64 `yaml:"extension_ratio" json:"extension_ratio"`
	DepthWeight     float64 `yaml:"depth_weight" json:"depth_weight"`
	HorizontalRatio float64 `yaml:"horizontal_ratio" json:"horizontal_ratio"`
	LThumbSpread    float64 `yaml:"l_thumb_spread" json:"l_thumb_spread"`
	XHook           float64 `yaml:"x_hook" json:"x_hook"`
	RCrossGap       float64 `yaml:"r_cross_gap" json:"r_cross_gap"`
	KThumbRise      float64 `yaml:"k_thumb_rise" json:"k_thumb_rise"`
	VTipGap         float64 `yaml:"v_tip_gap" json:"v_tip_gap"`
	BPalmMargin     float64 `yaml:"b_palm_margin" json:"b_palm_margin"`
	COpenThumbGap   float64 `yaml:"c_open_thumb_gap" json:"c_open_thumb_gap"`
	COpenIndexReach float64 `yaml:"c_open_index_reach" json:"c_open_index_reach"`
	FThumbTouch     float64 `yaml:"f_thumb_touch" json:"f_thumb_touch"`
	YSpread         float64 `yaml:"y_spread" json:"y_spread"`
	OIndexCurl      float64 `yaml:"o_index_curl" json:"o_index_curl"`
	OThumbTouch     float64 `yaml:"o_thumb_touch" json:"o_thumb_touch"`
	CThumbGapMax    float64 `yaml:"c_thumb_gap_max" json:"c_thumb_gap_max"`
	SEThumbNear     float64 `yaml:"se_thumb_near" json:"se_thumb_near"`
	SThumbKnuckle   float64 `yaml:"s_thumb_knuckle" json:"s_thumb_knuckle"`
	AThumbSide      float64 `yaml:"a_thumb_side" json:"a_thumb_side"`
	MNTBand         float64 `yaml:"mnt_band" json:"mnt_band"`
}

// DefaultThresholds returns the calibrated table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExtensionRatio:  0.6,
		DepthWeight:     2,
		HorizontalRatio: 1.5,
		LThumbSpread:    0.9,
		XHook:           0.2,
		RCrossGap:       0.4,
		KThumbRise:      0.3,
		VTipGap:         0.5,
		BPalmMargin:     0.05,
		COpenThumbGap:   0.8,
		COpenIndexReach: 0.85,
		FThumbTouch:     0.45,
		YSpread:         1.2,
		OIndexCurl:      0.35,
		OThumbTouch:     0.3,
		CThumbGapMax:    0.8,
		SEThumbNear:     0.45,
		SThumbKnuckle:   0.3,
		AThumbSide:      0.2,
		MNTBand:         0.15,
	}
}

// Validate rejects tables the classifier cannot run on.
func (t Thresholds) Validate() error {
	var errs []error
	positive := []struct {
		name string
		v    float64
	}{
		{"extension_ratio", t.ExtensionRatio},
		{"horizontal_ratio", t.HorizontalRatio},
		{"l_thumb_spread", t.LThumbSpread},
		{"r_cross_gap", t.RCrossGap},
		{"v_tip_gap", t.VTipGap},
		{"c_open_thumb_gap", t.COpenThumbGap},
		{"c_open_index_reach", t.COpenIndexReach},
		{"f_thumb_touch", t.FThumbTouch},
		{"y_spread", t.YSpread},
		{"o_index_curl", t.OIndexCurl},
		{"o_thumb_touch", t.OThumbTouch},
		{"c_thumb_gap_max", t.CThumbGapMax},
		{"se_thumb_near", t.SEThumbNear},
		{"s_thumb_knuckle", t.SThumbKnuckle},
		{"mnt_band", t.MNTBand},
	}
	for _, p := range positive {
		if p.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", p.name, p.v))
		}
	}
	if t.DepthWeight < 0 {
		errs = append(errs, fmt.Errorf("depth_weight must not be negative, got %g", t.DepthWeight))
	}
	if t.KThumbRise < 0 || t.BPalmMargin < 0 || t.AThumbSide < 0 || t.XHook < 0 {
		errs = append(errs, errors.New("k_thumb_rise, b_palm_margin, a_thumb_side and x_hook must not be negative"))
	}
	if t.OThumbTouch > t.CThumbGapMax {
		errs = append(errs, fmt.Errorf("o_thumb_touch (%g) must not exceed c_thumb_gap_max (%g)", t.OThumbTouch, t.CThumbGapMax))
	}
	return errors.Join(errs...)
}
