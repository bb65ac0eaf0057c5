package monitoring

import (
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var captured []string
	SetLogger(func(format string, v ...interface{}) {
		captured = append(captured, format)
	})

	Logf("[Detector] change detected: %s", "road.log")
	if len(captured) != 1 || !strings.Contains(captured[0], "change detected") {
		t.Errorf("captured = %v, want the detector line", captured)
	}

	// nil mutes the loops entirely.
	SetLogger(nil)
	captured = nil
	Logf("[Notifier] event")
	if len(captured) != 0 {
		t.Errorf("muted logger still captured %v", captured)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf must be callable without SetLogger")
	}
	Logf("startup: %s", "ok")
}
