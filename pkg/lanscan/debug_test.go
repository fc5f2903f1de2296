package lanscan

import "testing"

func TestDebugLog_Gating(t *testing.T) {
	oldLogger := debugLogger
	oldLevel := debugLevel
	defer func() {
		SetDebugLogger(oldLogger)
		SetDebugLevel(oldLevel)
	}()

	var calls []struct {
		component Component
		msg       string
	}

	SetDebugLogger(func(component Component, format string, args ...interface{}) {
		calls = append(calls, struct {
			component Component
			msg       string
		}{component: component, msg: format})
	})

	SetDebugLevel(DebugOff)
	debugLog(ComponentScan, "a")
	debugLogVerbose(ComponentScan, "b")
	if len(calls) != 0 {
		t.Fatalf("expected 0 calls with DebugOff, got %d", len(calls))
	}

	SetDebugLevel(DebugBasic)
	debugLog(ComponentScan, "c")
	debugLogVerbose(ComponentScan, "d")
	if len(calls) != 1 {
		t.Fatalf("expected 1 call with DebugBasic, got %d", len(calls))
	}
	if calls[0].component != ComponentScan || calls[0].msg != "c" {
		t.Fatalf("unexpected call: %#v", calls[0])
	}

	SetDebugLevel(DebugVerbose)
	debugLogVerbose(ComponentWeb, "e")
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls with DebugVerbose, got %d", len(calls))
	}
	if calls[1].component != ComponentWeb || calls[1].msg != "e" {
		t.Fatalf("unexpected call: %#v", calls[1])
	}

	if GetDebugLevel() != DebugVerbose {
		t.Fatalf("expected DebugVerbose, got %v", GetDebugLevel())
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseIdle, "idle"},
		{PhaseResolvingPassive, "resolving-passive"},
		{PhaseSweeping, "sweeping"},
		{PhaseResolvingGaps, "resolving-gaps"},
		{PhaseAggregating, "aggregating"},
		{PhaseProbingServices, "probing-services"},
		{PhaseComplete, "complete"},
		{Phase(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.expected {
			t.Errorf("Phase(%d).String() = %q, expected %q", tt.phase, got, tt.expected)
		}
	}
}

func TestScanError(t *testing.T) {
	err := &ScanError{Component: ComponentSweep, Message: "pool exhausted"}
	if err.Error() != "sweep: pool exhausted" {
		t.Errorf("Unexpected error string: %q", err.Error())
	}
}
