package fetcher

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
)

var (
	bvPattern      = regexp.MustCompile(`BV[a-zA-Z0-9]+`)
	avPattern      = regexp.MustCompile(`(?i)av(\d+)`)
	youtubeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	unsafeFileChar = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)

const maxFilenameLength = 200

// ParseIdentity derives the canonical video identity from a URL without any network access
func ParseIdentity(rawURL string) (model.VideoIdentity, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return model.VideoIdentity{}, invalidURL(rawURL, "url is required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return model.VideoIdentity{}, errors.Wrap(err, errors.CodeInvalidArg, "url cannot be parsed").WithKind(ErrInvalidURL)
	}

	if isYouTubeHost(u.Hostname()) {
		return parseYouTube(u, rawURL)
	}
	return parseBilibili(u, rawURL)
}

func parseBilibili(u *url.URL, rawURL string) (model.VideoIdentity, error) {
	var collectionID string
	if m := bvPattern.FindString(rawURL); m != "" {
		collectionID = m
	} else if m := avPattern.FindStringSubmatch(rawURL); m != nil {
		collectionID = "av" + m[1]
	}
	if collectionID == "" {
		return model.VideoIdentity{}, invalidURL(rawURL, "no video identifier (BV/av) found in url")
	}

	identity := model.VideoIdentity{
		Platform:     model.PlatformBilibili,
		VideoID:      collectionID,
		CollectionID: collectionID,
	}

	// Non-integer part numbers are ignored
	if p := u.Query().Get("p"); p != "" {
		if part, err := strconv.Atoi(p); err == nil {
			identity.Part = &part
			identity.VideoID = fmt.Sprintf("%s_p%d", collectionID, part)
		}
	}

	return identity, nil
}

func parseYouTube(u *url.URL, rawURL string) (model.VideoIdentity, error) {
	var id string
	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case strings.HasPrefix(u.Path, "/shorts/"), strings.HasPrefix(u.Path, "/live/"):
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) >= 2 {
			id = parts[1]
		}
	default:
		id = u.Query().Get("v")
	}

	if !youtubeIDRegex.MatchString(id) {
		return model.VideoIdentity{}, invalidURL(rawURL, "no YouTube video id found in url")
	}

	return model.VideoIdentity{
		Platform: model.PlatformYouTube,
		VideoID:  id,
	}, nil
}

func isYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	return host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

func invalidURL(rawURL, message string) error {
	return errors.New(errors.CodeInvalidArg, fmt.Sprintf("%s: %q", message, rawURL)).WithKind(ErrInvalidURL)
}

// SanitizeFilename replaces characters that are unsafe in file names
func SanitizeFilename(name string) string {
	name = unsafeFileChar.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	if name == "" {
		name = "untitled"
	}
	return name
}
