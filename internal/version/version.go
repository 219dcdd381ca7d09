// Package version centralizes application/API versioning and the
// version-gated feature flags exchanged with clients.
package version

import (
	"time"

	"github.com/Masterminds/semver/v3"
)

const (
	AppVersion           = "1.0.0"
	CurrentAPIVersion    = "v1"
	MinimumClientVersion = "1.0.0"
)

// SupportedAPIVersions lists every API version the server still accepts
var SupportedAPIVersions = []string{"v1"}

// Feature is a version-gated capability flag
type Feature struct {
	Enabled    bool   `json:"enabled"`
	MinVersion string `json:"minVersion"`
}

// Features maps capability names to their gating rules
var Features = map[string]Feature{
	"hebrewNLP":         {Enabled: true, MinVersion: "0.1.0"},
	"realTimeUpdates":   {Enabled: false, MinVersion: "0.2.0"},
	"advancedAnalytics": {Enabled: true, MinVersion: "1.0.0"},
	"multiLanguage":     {Enabled: false, MinVersion: "0.4.0"},
}

// IsAPIVersionSupported reports whether the requested API version is served
func IsAPIVersionSupported(apiVersion string) bool {
	for _, v := range SupportedAPIVersions {
		if v == apiVersion {
			return true
		}
	}
	return false
}

// IsClientSupported reports whether a client version meets the minimum.
// Unparsable versions are treated as unsupported.
func IsClientSupported(clientVersion string) bool {
	client, err := semver.NewVersion(clientVersion)
	if err != nil {
		return false
	}
	minimum := semver.MustParse(MinimumClientVersion)
	return !client.LessThan(minimum)
}

// IsFeatureEnabled reports whether a feature is available to a client. An
// empty client version falls back to the server-side flag alone.
func IsFeatureEnabled(name, clientVersion string) bool {
	feature, ok := Features[name]
	if !ok || !feature.Enabled {
		return false
	}
	if clientVersion == "" {
		return true
	}
	client, err := semver.NewVersion(clientVersion)
	if err != nil {
		return false
	}
	return !client.LessThan(semver.MustParse(feature.MinVersion))
}

// EnabledFeatures resolves every feature flag for a client version
func EnabledFeatures(clientVersion string) map[string]bool {
	resolved := make(map[string]bool, len(Features))
	for name := range Features {
		resolved[name] = IsFeatureEnabled(name, clientVersion)
	}
	return resolved
}

// Info returns the version payload served by the version endpoints
func Info() map[string]interface{} {
	return map[string]interface{}{
		"app": map[string]interface{}{
			"version": AppVersion,
		},
		"api": map[string]interface{}{
			"current":   CurrentAPIVersion,
			"supported": SupportedAPIVersions,
		},
		"client": map[string]interface{}{
			"minimumVersion": MinimumClientVersion,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
