package services

import (
	"testing"

	types "github.com/brickline/brickline-backend/internal/domain"
)

func TestClassifyVariance(t *testing.T) {
	thresholds := DefaultThresholds()

	cases := []struct {
		name         string
		spend        int64
		adjusted     int64
		wantType     types.VarianceAlertType
		wantObserved int64
		wantBreached bool
	}{
		{"well under budget", 50000, 100000, "", 50, false},
		{"just below approaching", 89999, 100000, "", 89, false},
		{"approaching", 90000, 100000, types.VarianceAlertTypeApproaching, 90, true},
		{"at the line", 100000, 100000, types.VarianceAlertTypeOverrun, 100, true},
		{"overrun", 150000, 100000, types.VarianceAlertTypeOverrun, 150, true},
		{"zero budget with spend", 1, 0, types.VarianceAlertTypeOverrun, types.ObservedPercentInfinite, true},
		{"zero budget no spend", 0, 0, "", 0, false},
		{"percent floors not rounds", 99999, 100000, "", 99, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotType, gotObserved, gotBreached := classifyVariance(tc.spend, tc.adjusted, thresholds)
			if gotBreached != tc.wantBreached {
				t.Fatalf("breached = %v, want %v", gotBreached, tc.wantBreached)
			}
			if gotType != tc.wantType {
				t.Fatalf("type = %q, want %q", gotType, tc.wantType)
			}
			if gotObserved != tc.wantObserved {
				t.Fatalf("observed = %d, want %d", gotObserved, tc.wantObserved)
			}
		})
	}
}

func TestClassifyVarianceCustomThresholds(t *testing.T) {
	thresholds := Thresholds{ApproachingPercent: 75, OverrunPercent: 100}
	gotType, observed, breached := classifyVariance(80000, 100000, thresholds)
	if !breached || gotType != types.VarianceAlertTypeApproaching || observed != 80 {
		t.Fatalf("got (%q, %d, %v), want (approaching, 80, true)", gotType, observed, breached)
	}
}

func TestThresholdsValidate(t *testing.T) {
	cases := []struct {
		name    string
		th      Thresholds
		wantErr bool
	}{
		{"defaults", DefaultThresholds(), false},
		{"zero approaching", Thresholds{ApproachingPercent: 0, OverrunPercent: 100}, true},
		{"negative overrun", Thresholds{ApproachingPercent: 90, OverrunPercent: -1}, true},
		{"approaching above overrun", Thresholds{ApproachingPercent: 110, OverrunPercent: 100}, true},
		{"equal is fine", Thresholds{ApproachingPercent: 100, OverrunPercent: 100}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.th.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
