package storage

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name        string
		localPath   string
		contentType string
		wantPrefix  string
		wantExt     string
	}{
		{"video upload", "/tmp/staging/clip.mp4", "video/mp4", "videos/", ".mp4"},
		{"thumbnail upload", "/tmp/staging/cover.PNG", "image/png", "thumbnails/", ".png"},
		{"unknown content type", "/tmp/staging/blob.bin", "application/octet-stream", "assets/", ".bin"},
		{"no extension", "/tmp/staging/raw", "video/webm", "videos/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := objectKey(tt.localPath, tt.contentType)

			if !strings.HasPrefix(key, tt.wantPrefix) {
				t.Errorf("objectKey() = %s, want prefix %s", key, tt.wantPrefix)
			}
			if tt.wantExt != "" && !strings.HasSuffix(key, tt.wantExt) {
				t.Errorf("objectKey() = %s, want suffix %s", key, tt.wantExt)
			}
			if strings.Contains(key, " ") {
				t.Errorf("objectKey() = %s contains whitespace", key)
			}
		})
	}
}

func TestObjectKeyUnique(t *testing.T) {
	a := objectKey("/tmp/a.mp4", "video/mp4")
	b := objectKey("/tmp/a.mp4", "video/mp4")

	if a == b {
		t.Errorf("objectKey() produced identical keys for repeated uploads: %s", a)
	}
}

func TestMediaKind(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"video/mp4", "video"},
		{"video/webm", "video"},
		{"image/png", "thumbnail"},
		{"application/octet-stream", "asset"},
		{"", "asset"},
	}

	for _, tt := range tests {
		if got := mediaKind(tt.contentType); got != tt.want {
			t.Errorf("mediaKind(%q) = %s, want %s", tt.contentType, got, tt.want)
		}
	}
}

func TestParseProbeDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{
			name:  "valid output",
			input: `{"format":{"filename":"clip.mp4","duration":"127.446000"}}`,
			want:  127.446,
		},
		{
			name:  "integer duration",
			input: `{"format":{"duration":"60"}}`,
			want:  60,
		},
		{
			name:    "missing duration",
			input:   `{"format":{"filename":"clip.mp4"}}`,
			wantErr: true,
		},
		{
			name:    "malformed duration",
			input:   `{"format":{"duration":"abc"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `duration=127`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProbeDuration([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProbeDuration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseProbeDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewFFProbeProberDefaultPath(t *testing.T) {
	p := NewFFProbeProber("")
	if p.ffprobePath != "ffprobe" {
		t.Errorf("ffprobePath = %s, want ffprobe", p.ffprobePath)
	}

	p = NewFFProbeProber("/usr/local/bin/ffprobe")
	if p.ffprobePath != "/usr/local/bin/ffprobe" {
		t.Errorf("ffprobePath = %s, want /usr/local/bin/ffprobe", p.ffprobePath)
	}
}
