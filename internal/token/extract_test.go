package token

import (
	"errors"
	"testing"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{
			name:   "standard scheme",
			header: "Bearer abc.def.ghi",
			want:   "abc.def.ghi",
		},
		{
			name:   "lowercase scheme",
			header: "bearer abc.def.ghi",
			want:   "abc.def.ghi",
		},
		{
			name:   "uppercase scheme",
			header: "BEARER abc.def.ghi",
			want:   "abc.def.ghi",
		},
		{
			name:    "missing header",
			header:  "",
			wantErr: ErrMalformedAuthScheme,
		},
		{
			name:    "whitespace only",
			header:  "   ",
			wantErr: ErrMalformedAuthScheme,
		},
		{
			name:    "wrong scheme",
			header:  "Basic abc.def.ghi",
			wantErr: ErrMalformedAuthScheme,
		},
		{
			name:    "scheme only",
			header:  "Bearer",
			wantErr: ErrMalformedAuthScheme,
		},
		{
			name:    "too many fields",
			header:  "Bearer abc def",
			wantErr: ErrMalformedAuthScheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractBearer failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
