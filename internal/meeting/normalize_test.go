package meeting

import (
	"testing"

	"github.com/hpungsan/callsnap/internal/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple lowercase",
			input: "Narrative",
			want:  "narrative",
		},
		{
			name:  "trim and collapse",
			input: "  TL   DR  ",
			want:  "tl dr",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	if got := NormalizeTitle("  Sprint   Review "); got != "Sprint Review" {
		t.Errorf("NormalizeTitle = %q, want %q", got, "Sprint Review")
	}
	if got := NormalizeTitle("   "); got != DefaultTitle {
		t.Errorf("NormalizeTitle(blank) = %q, want %q", got, DefaultTitle)
	}
}

func TestValidateParticipants(t *testing.T) {
	tests := []struct {
		name    string
		input   []Participant
		wantErr bool
	}{
		{
			name:  "single valid participant",
			input: []Participant{{Name: "Ana", Email: "ana@x.com"}},
		},
		{
			name:  "trims surrounding whitespace",
			input: []Participant{{Name: "  Ana ", Email: " ana@x.com  "}},
		},
		{
			name:    "empty list",
			input:   nil,
			wantErr: true,
		},
		{
			name:    "blank name",
			input:   []Participant{{Name: "  ", Email: "ana@x.com"}},
			wantErr: true,
		},
		{
			name:    "blank email",
			input:   []Participant{{Name: "Ana", Email: ""}},
			wantErr: true,
		},
		{
			name:    "malformed email",
			input:   []Participant{{Name: "Ana", Email: "not-an-email"}},
			wantErr: true,
		},
		{
			name:    "one bad participant among good ones",
			input:   []Participant{{Name: "Ana", Email: "ana@x.com"}, {Name: "", Email: "bob@x.com"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateParticipants(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidRequest) {
					t.Fatalf("err = %v, want INVALID_REQUEST", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateParticipants failed: %v", err)
			}
			if len(got) != len(tt.input) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.input))
			}
			if got[0].Name != "Ana" || got[0].Email != "ana@x.com" {
				t.Errorf("got %+v, want trimmed Ana/ana@x.com", got[0])
			}
		})
	}
}

func TestParseParticipant(t *testing.T) {
	p, err := ParseParticipant("Ana Souza <ana@x.com>")
	if err != nil {
		t.Fatalf("ParseParticipant failed: %v", err)
	}
	if p.Name != "Ana Souza" || p.Email != "ana@x.com" {
		t.Errorf("got %+v", p)
	}

	bare, err := ParseParticipant("bob@x.com")
	if err != nil {
		t.Fatalf("ParseParticipant(bare) failed: %v", err)
	}
	if bare.Name != "bob" {
		t.Errorf("Name = %q, want %q", bare.Name, "bob")
	}

	if _, err := ParseParticipant("nobody"); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestNormalizeVideoSource(t *testing.T) {
	v, err := NormalizeVideoSource(VideoSource{Type: " YouTube ", Value: " https://youtu.be/x "})
	if err != nil {
		t.Fatalf("NormalizeVideoSource failed: %v", err)
	}
	if v.Type != VideoYouTube {
		t.Errorf("Type = %q, want %q", v.Type, VideoYouTube)
	}
	if v.Platform != "YouTube" {
		t.Errorf("Platform = %q, want %q", v.Platform, "YouTube")
	}
	if v.Value != "https://youtu.be/x" {
		t.Errorf("Value = %q", v.Value)
	}

	empty, err := NormalizeVideoSource(VideoSource{})
	if err != nil {
		t.Fatalf("NormalizeVideoSource(empty) failed: %v", err)
	}
	if empty.Type != VideoUpload {
		t.Errorf("Type = %q, want %q", empty.Type, VideoUpload)
	}

	if _, err := NormalizeVideoSource(VideoSource{Type: "dropbox"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Sprint Review", "sprint-review"},
		{"Reunião sem título", "reuniao-sem-titulo"},
		{"  Q3 -- Planning!! ", "q3-planning"},
		{"***", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
