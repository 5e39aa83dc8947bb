package domain

import "fmt"

// Provider identifies the media source a request targets. Each provider maps
// to its own endpoint on the collaborator service and its own field schema.
type Provider string

const (
	ProviderAudio  Provider = "audio"
	ProviderRutube Provider = "rutube"
)

// Format is the requested output container/codec.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatAAC  Format = "aac"
	FormatFLAC Format = "flac"
	FormatOpus Format = "opus"
	FormatMP4  Format = "mp4"
)

// EQPreset is the requested equalizer preset for audio conversion.
type EQPreset string

const (
	EQNone        EQPreset = "none"
	EQBassBoost   EQPreset = "bass_boost"
	EQTrebleBoost EQPreset = "treble_boost"
	EQVocalBoost  EQPreset = "vocal_boost"
	EQFlat        EQPreset = "flat"
)

// ProviderProfile selects the endpoint path and field schema for a provider.
// Provider variants are data here, not separate request-building code paths.
type ProviderProfile struct {
	Provider        Provider
	EndpointPath    string
	Formats         []Format
	DefaultFormat   Format
	DefaultBasename string
	// AudioOptions marks profiles whose requests carry the audio conversion
	// fields (eq_preset, volume, trim, cookies).
	AudioOptions bool
}

var profiles = map[Provider]ProviderProfile{
	ProviderAudio: {
		Provider:        ProviderAudio,
		EndpointPath:    "/download/",
		Formats:         []Format{FormatMP3, FormatAAC, FormatFLAC, FormatOpus},
		DefaultFormat:   FormatMP3,
		DefaultBasename: "track",
		AudioOptions:    true,
	},
	ProviderRutube: {
		Provider:        ProviderRutube,
		EndpointPath:    "/download_rutube/",
		Formats:         []Format{FormatMP4},
		DefaultFormat:   FormatMP4,
		DefaultBasename: "video",
	},
}

// ProfileFor returns the profile for a provider.
func ProfileFor(p Provider) (ProviderProfile, error) {
	profile, ok := profiles[p]
	if !ok {
		return ProviderProfile{}, fmt.Errorf("unknown provider: %s", p)
	}
	return profile, nil
}

// SupportsFormat reports whether the profile accepts the given output format.
func (p ProviderProfile) SupportsFormat(f Format) bool {
	for _, known := range p.Formats {
		if known == f {
			return true
		}
	}
	return false
}

// DefaultFilename is the fixed fallback name used when the service response
// carries no usable disposition header.
func (p ProviderProfile) DefaultFilename(f Format) string {
	if f == "" {
		f = p.DefaultFormat
	}
	return fmt.Sprintf("%s.%s", p.DefaultBasename, f)
}

// ValidateEQPreset checks the preset against the known set.
func ValidateEQPreset(preset EQPreset) bool {
	switch preset {
	case EQNone, EQBassBoost, EQTrebleBoost, EQVocalBoost, EQFlat:
		return true
	}
	return false
}
