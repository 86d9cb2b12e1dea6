package policy

import (
	"testing"

	"rosterbot/internal/domain"
)

func TestValidateQuotas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		max, m, f   int
		wantInvalid bool
	}{
		{name: "unlimited", max: 6, m: 0, f: 0},
		{name: "split", max: 6, m: 3, f: 3},
		{name: "male only", max: 6, m: 0, f: -1},
		{name: "female only", max: 6, m: -1, f: 0},
		{name: "one capped", max: 6, m: 2, f: 0},
		{name: "both banned", max: 6, m: -1, f: -1, wantInvalid: true},
		{name: "male banned female capped", max: 6, m: -1, f: 3, wantInvalid: true},
		{name: "female banned male capped", max: 6, m: 3, f: -1, wantInvalid: true},
		{name: "unlimited against max", max: 6, m: 0, f: 6, wantInvalid: true},
		{name: "below minus one", max: 6, m: -2, f: 0, wantInvalid: true},
		{name: "above max", max: 6, m: 7, f: 0, wantInvalid: true},
		{name: "sum mismatch", max: 6, m: 2, f: 2, wantInvalid: true},
		{name: "zero max", max: 0, m: 0, f: 0, wantInvalid: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateQuotas(tt.max, tt.m, tt.f)
			if tt.wantInvalid {
				if domain.Code(err) != domain.CodeInvalidQuota {
					t.Fatalf("err=%v, want INVALID_QUOTA", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("err=%v, want nil", err)
			}
		})
	}
}
