package repository

import "testing"

func TestSettingValuesTypedAccessors(t *testing.T) {
	values := SettingValues{
		SettingGeminiModel:    "gemini-2.5-pro",
		SettingMinConfidence:  "80",
		SettingEnableVerify:   "false",
		SettingDefaultPadding: "3.5",
		SettingRetentionHours: "not-a-number",
	}

	if got := values.String(SettingGeminiModel, "gemini-2.0-flash"); got != "gemini-2.5-pro" {
		t.Errorf("String = %q, want stored value", got)
	}
	if got := values.String(SettingGeminiAPIKey, "fallback"); got != "fallback" {
		t.Errorf("String for missing key = %q, want fallback", got)
	}
	if got := values.Int(SettingMinConfidence, 70); got != 80 {
		t.Errorf("Int = %d, want 80", got)
	}
	if got := values.Bool(SettingEnableVerify, true); got {
		t.Error("Bool = true, want stored false")
	}
	if got := values.Float64(SettingDefaultPadding, 2.0); got != 3.5 {
		t.Errorf("Float64 = %v, want 3.5", got)
	}
	// Unparseable values keep the fallback.
	if got := values.Int(SettingRetentionHours, 24); got != 24 {
		t.Errorf("Int for garbage value = %d, want fallback 24", got)
	}
}

func TestConfigOverrideRoundTrip(t *testing.T) {
	values := SettingValues{}
	if got := values.Int(SettingMinConfidence, 70); got != 70 {
		t.Errorf("empty snapshot Int = %d, want fallback 70", got)
	}
	if got := values.Bool(SettingEnableVerify, true); !got {
		t.Error("empty snapshot Bool = false, want fallback true")
	}
}
