// Package environment reads runtime environment configuration.
package environment

import (
	"os"
	"strings"
)

const (
	ThresholdEnvVar = "COVGATE_THRESHOLD"
	TestModeEnvVar  = "COVGATE_TEST"
	LocaleEnvVar    = "LANG"
)

// ThresholdOverride returns the raw COVGATE_THRESHOLD value when it is set and non-blank.
func ThresholdOverride() (string, bool) {
	value, present := os.LookupEnv(ThresholdEnvVar)
	if !present {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// TestMode reports whether COVGATE_TEST is set. Translations then echo their keys.
func TestMode() bool {
	_, present := os.LookupEnv(TestModeEnvVar)
	return present
}

// LocaleOverride returns the language part of LANG, without any ".UTF-8" or "@modifier" suffix.
// "C" and "POSIX" carry no language and are ignored.
func LocaleOverride() (string, bool) {
	value := strings.TrimSpace(os.Getenv(LocaleEnvVar))
	if index := strings.IndexAny(value, ".@"); index >= 0 {
		value = value[:index]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return "", false
	}
	return value, true
}

func AppVersion() string {
	return "REPL_VERSION"
}
