package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// trimPattern is the only syntactic check applied to the trim range. Ordering
// of the endpoints and media-duration bounds are left to the collaborator
// service to enforce.
var trimPattern = regexp.MustCompile(`^\d{1,2}:\d{2}-\d{1,2}:\d{2}$`)

// DownloadRequest is the payload built from a FormState for one submission.
// Optional fields are pointers serialized without omitempty so the service
// receives an explicit null for "not provided" rather than a missing key.
type DownloadRequest struct {
	Provider Provider `json:"-"`

	URL      string   `json:"url"`
	Cookies  *string  `json:"cookies"`
	Quality  *string  `json:"quality"`
	Format   Format   `json:"format"`
	EQPreset *string  `json:"eq_preset"`
	Volume   *float64 `json:"volume"`
	Trim     *string  `json:"trim"`
}

// rutubeRequest is the reduced wire schema of the video provider endpoint.
type rutubeRequest struct {
	URL     string  `json:"url"`
	Format  Format  `json:"format"`
	Quality *string `json:"quality"`
}

// Body returns the value to be JSON-encoded for the provider endpoint.
func (r *DownloadRequest) Body() any {
	if r.Provider == ProviderRutube {
		return rutubeRequest{URL: r.URL, Format: r.Format, Quality: r.Quality}
	}
	return r
}

// BuildRequest validates the form snapshot and assembles the request payload.
// It returns a ClassifiedError of KindValidation naming the offending field;
// nothing is ever sent over the network for such inputs.
func BuildRequest(form FormState) (*DownloadRequest, error) {
	profile, err := ProfileFor(form.Provider)
	if err != nil {
		return nil, NewValidationError("provider", err.Error())
	}

	if err := validateSourceURL(form.SourceURL); err != nil {
		return nil, err
	}

	format := form.Format
	if format == "" {
		format = profile.DefaultFormat
	}
	if !profile.SupportsFormat(format) {
		return nil, NewValidationError("format",
			fmt.Sprintf("format %q is not supported by provider %s", format, profile.Provider))
	}

	req := &DownloadRequest{
		Provider: profile.Provider,
		URL:      form.SourceURL,
		Format:   format,
		Cookies:  optionalString(form.Cookies),
		Quality:  optionalString(form.Quality),
	}

	if !profile.AudioOptions {
		return req, nil
	}

	preset := form.EQPreset
	if preset == "" {
		preset = EQNone
	}
	if !ValidateEQPreset(preset) {
		return nil, NewValidationError("eq_preset", fmt.Sprintf("unknown preset %q", preset))
	}
	req.EQPreset = optionalString(string(preset))

	volume, err := parseVolume(form.Volume)
	if err != nil {
		return nil, err
	}
	req.Volume = volume

	trim, err := combineTrim(form.TrimStart, form.TrimEnd)
	if err != nil {
		return nil, err
	}
	req.Trim = trim

	return req, nil
}

func validateSourceURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return NewValidationError("url", "source URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return NewValidationError("url", fmt.Sprintf("not a valid URL: %s", raw))
	}
	return nil
}

// parseVolume parses the editable string representation of the volume
// multiplier. Out-of-range values are clamped by the input control, not
// re-validated here; only unparseable text is rejected.
func parseVolume(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, NewValidationError("volume", fmt.Sprintf("not a number: %s", raw))
	}
	return &v, nil
}

// combineTrim merges the start/end sub-fields. If exactly one is set the
// range is treated as absent, not as an error; only a malformed combined
// pattern with both endpoints set is rejected.
func combineTrim(start, end string) (*string, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, nil
	}
	combined := start + "-" + end
	if !trimPattern.MatchString(combined) {
		return nil, NewValidationError("trim",
			fmt.Sprintf("trim range must look like MM:SS-MM:SS, got %q", combined))
	}
	return &combined, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CookieHeaderLooksValid is a best-effort shape check on a raw cookie header
// value (semicolon-separated name=value pairs). It is used to warn only,
// never to reject a submission.
func CookieHeaderLooksValid(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	for _, part := range strings.Split(raw, ";") {
		if !strings.Contains(part, "=") {
			return false
		}
	}
	return true
}
