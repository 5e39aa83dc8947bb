package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() FormState {
	return FormState{
		SourceURL: "https://music.example.com/track/12345678",
		Provider:  ProviderAudio,
		Format:    FormatMP3,
	}
}

func TestBuildRequest_Minimal(t *testing.T) {
	req, err := BuildRequest(validForm())
	require.NoError(t, err)

	assert.Equal(t, "https://music.example.com/track/12345678", req.URL)
	assert.Equal(t, FormatMP3, req.Format)
	assert.Nil(t, req.Cookies)
	assert.Nil(t, req.Quality)
	assert.Nil(t, req.Volume)
	assert.Nil(t, req.Trim)
}

func TestBuildRequest_MissingURL(t *testing.T) {
	form := validForm()
	form.SourceURL = "  "

	_, err := BuildRequest(form)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestBuildRequest_MalformedURL(t *testing.T) {
	form := validForm()
	form.SourceURL = "not a url"

	_, err := BuildRequest(form)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "url")
}

func TestBuildRequest_TrimRange(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  string
		valid bool
	}{
		{"both set", "00:15", "00:30", "00:15-00:30", true},
		{"single digit minutes", "0:15", "9:59", "0:15-9:59", true},
		{"both empty means no trim", "", "", "", true},
		{"only start means no trim", "00:15", "", "", true},
		{"only end means no trim", "", "00:30", "", true},
		{"missing colons", "15", "30", "", false},
		{"short seconds", "0:15", "00:3", "", false},
		{"garbage", "ab:cd", "00:30", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.TrimStart = tc.start
			form.TrimEnd = tc.end

			req, err := BuildRequest(form)
			if !tc.valid {
				require.Error(t, err)
				assert.Equal(t, KindValidation, KindOf(err))
				assert.Contains(t, err.Error(), "trim")
				return
			}
			require.NoError(t, err)
			if tc.want == "" {
				assert.Nil(t, req.Trim)
			} else {
				require.NotNil(t, req.Trim)
				assert.Equal(t, tc.want, *req.Trim)
			}
		})
	}
}

func TestBuildRequest_Volume(t *testing.T) {
	form := validForm()
	form.Volume = "1.5"

	req, err := BuildRequest(form)
	require.NoError(t, err)
	require.NotNil(t, req.Volume)
	assert.Equal(t, 1.5, *req.Volume)

	form.Volume = "loud"
	_, err = BuildRequest(form)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "volume")
}

func TestBuildRequest_UnknownEQPreset(t *testing.T) {
	form := validForm()
	form.EQPreset = "mega_bass"

	_, err := BuildRequest(form)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestBuildRequest_FormatNotSupportedByProvider(t *testing.T) {
	form := validForm()
	form.Provider = ProviderRutube
	form.Format = FormatFLAC

	_, err := BuildRequest(form)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

// Optional fields must be serialized as explicit null, never omitted, so the
// service can tell "not provided" from "provided as default".
func TestDownloadRequest_ExplicitNullSerialization(t *testing.T) {
	req, err := BuildRequest(validForm())
	require.NoError(t, err)

	data, err := json.Marshal(req.Body())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{"url", "cookies", "quality", "format", "eq_preset", "volume", "trim"} {
		raw, ok := decoded[key]
		assert.True(t, ok, "key %q must be present", key)
		if key != "url" && key != "format" && key != "eq_preset" {
			assert.Equal(t, "null", string(raw), "key %q must be explicit null", key)
		}
	}
}

func TestDownloadRequest_RutubeBodyShape(t *testing.T) {
	form := FormState{
		SourceURL: "https://rutube.ru/video/abc123/",
		Provider:  ProviderRutube,
		Format:    FormatMP4,
		Quality:   "720",
	}

	req, err := BuildRequest(form)
	require.NoError(t, err)

	data, err := json.Marshal(req.Body())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Contains(t, decoded, "url")
	assert.Contains(t, decoded, "format")
	assert.Contains(t, decoded, "quality")
	assert.NotContains(t, decoded, "eq_preset")
	assert.NotContains(t, decoded, "trim")
	assert.NotContains(t, decoded, "cookies")
}

func TestCookieHeaderLooksValid(t *testing.T) {
	assert.True(t, CookieHeaderLooksValid("Session_id=abc; yandexuid=123"))
	assert.True(t, CookieHeaderLooksValid("a=b"))
	assert.False(t, CookieHeaderLooksValid(""))
	assert.False(t, CookieHeaderLooksValid("not a cookie"))
}
