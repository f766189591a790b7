package catalog

import "testing"

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantID  int
		want    string
		wantOK  bool
	}{
		{
			name:   "simple id and pose",
			path:   "7__main.tif",
			wantID: 7,
			want:   "main",
			wantOK: true,
		},
		{
			name:   "pose with trailing modifier",
			path:   "42__top__retouched.tif",
			wantID: 42,
			want:   "top",
			wantOK: true,
		},
		{
			name:   "uppercase pose is lowercased",
			path:   "631__PROFILE.TIF",
			wantID: 631,
			want:   "profile",
			wantOK: true,
		},
		{
			name:   "full path uses basename only",
			path:   "/archive/15__x/3__bottom.jpg",
			wantID: 3,
			want:   "bottom",
			wantOK: true,
		},
		{
			name:   "unrecognized pose token still parses",
			path:   "9__detail.tif",
			wantID: 9,
			want:   "detail",
			wantOK: true,
		},
		{
			name:   "no pose group after id",
			path:   "7__.tif",
			wantOK: false,
		},
		{
			name:   "numeric pose is a miss",
			path:   "7__2.tif",
			wantOK: false,
		},
		{
			name:   "single underscore is a miss",
			path:   "7_main.tif",
			wantOK: false,
		},
		{
			name:   "no id prefix",
			path:   "main__7.tif",
			wantOK: false,
		},
		{
			name:   "zero id is rejected",
			path:   "0__main.tif",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseName(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ParseName(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if parsed.CatalogID != tt.wantID {
				t.Errorf("Expected id %d, got %d", tt.wantID, parsed.CatalogID)
			}
			if parsed.Pose != tt.want {
				t.Errorf("Expected pose %q, got %q", tt.want, parsed.Pose)
			}
		})
	}
}

func TestKnownPose(t *testing.T) {
	for _, pose := range []string{"main", "top", "bottom", "profile", "MAIN"} {
		if !KnownPose(pose) {
			t.Errorf("Expected %q to be a known pose", pose)
		}
	}
	if KnownPose("detail") {
		t.Error("Expected detail to be unknown")
	}
}
