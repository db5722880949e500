package meeting

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/hpungsan/callsnap/internal/errors"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// maxSlugLength caps generated file names.
const maxSlugLength = 80

// Normalize normalizes a key-like string:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// NormalizeTitle trims the title and falls back to DefaultTitle.
func NormalizeTitle(title string) string {
	title = whitespaceRegex.ReplaceAllString(strings.TrimSpace(title), " ")
	if title == "" {
		return DefaultTitle
	}
	return title
}

// ValidateParticipants trims every participant and checks that each one has a
// name and a parseable email. At least one participant is required.
func ValidateParticipants(in []Participant) ([]Participant, error) {
	if len(in) == 0 {
		return nil, errors.NewInvalidRequest("at least one participant (name + email) is required")
	}

	out := make([]Participant, 0, len(in))
	for i, p := range in {
		name := strings.TrimSpace(p.Name)
		email := strings.TrimSpace(p.Email)
		if name == "" || email == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("participant %d must have a name and an email", i+1))
		}
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("participant %d has an invalid email: %q", i+1, email))
		}
		out = append(out, Participant{Name: name, Email: email})
	}
	return out, nil
}

// ParseParticipant parses "Name <email>" (or a bare email, in which case the
// local part becomes the name).
func ParseParticipant(s string) (Participant, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return Participant{}, errors.NewInvalidRequest(fmt.Sprintf("invalid participant %q: expected \"Name <email>\"", s))
	}
	name := addr.Name
	if name == "" {
		name, _, _ = strings.Cut(addr.Address, "@")
	}
	return Participant{Name: name, Email: addr.Address}, nil
}

// NormalizeVideoSource validates the type and fills in the platform label.
func NormalizeVideoSource(v VideoSource) (VideoSource, error) {
	v.Type = VideoType(Normalize(string(v.Type)))
	if v.Type == "" {
		v.Type = VideoUpload
	}
	platform, ok := videoPlatforms[v.Type]
	if !ok {
		return VideoSource{}, errors.NewInvalidRequest(fmt.Sprintf("video source type must be one of: youtube, vimeo, upload, local (got %q)", v.Type))
	}
	v.Value = strings.TrimSpace(v.Value)
	if v.Platform == "" {
		v.Platform = platform
	}
	return v, nil
}

var videoPlatforms = map[VideoType]string{
	VideoYouTube: "YouTube",
	VideoVimeo:   "Vimeo",
	VideoUpload:  "Upload",
	VideoLocal:   "Local file",
}

// Slugify turns a title into an ASCII file-name stem: accents are folded,
// everything that is not a letter or digit becomes a single dash.
// Returns "" when nothing usable remains.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}
