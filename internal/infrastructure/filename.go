package infrastructure

import (
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/vfaronov/httpheader"
	"github.com/yourusername/trackpull-go/internal/domain"
)

// FilenameFromResponse derives the name to save the payload under. It parses
// the Content-Disposition header for the quoted filename parameter and
// percent-decodes it (the service percent-encodes non-ASCII names into the
// plain parameter). When no usable name is present, the profile's fixed
// format-derived default is returned.
func FilenameFromResponse(resp *http.Response, profile domain.ProviderProfile, format domain.Format) string {
	_, name, _ := httpheader.ContentDisposition(resp.Header)
	if name != "" {
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
		// Strip any path components a hostile header could smuggle in.
		name = filepath.Base(name)
		if name != "" && name != "." && name != string(filepath.Separator) {
			return name
		}
	}
	return profile.DefaultFilename(format)
}
