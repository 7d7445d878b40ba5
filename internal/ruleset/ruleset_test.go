package ruleset

import "testing"

func TestCheckRequirement(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		wantErr    bool
	}{
		{name: "empty constraint always accepted", constraint: "", wantErr: false},
		{name: "satisfied lower bound", constraint: ">=1.0.0", wantErr: false},
		{name: "satisfied range", constraint: ">=1.0.0,<2.0.0", wantErr: false},
		{name: "unsatisfied lower bound", constraint: ">=2.0.0", wantErr: true},
		{name: "unsatisfied upper bound", constraint: "<1.0.0", wantErr: true},
		{name: "malformed constraint", constraint: "not-a-constraint", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckRequirement(tc.constraint)
			if (err != nil) != tc.wantErr {
				t.Errorf("CheckRequirement(%q) = %v, wantErr %v", tc.constraint, err, tc.wantErr)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `">=1.0.0,<2.0.0"`, want: ">=1.0.0,<2.0.0"},
		{in: `""`, want: ""},
		{in: `"unterminated`, want: `"unterminated`},
		{in: `no-quotes`, want: "no-quotes"},
		{in: `"`, want: `"`},
	}

	for _, tc := range tests {
		if got := Unquote(tc.in); got != tc.want {
			t.Errorf("Unquote(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
