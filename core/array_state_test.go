package core

import (
	"testing"
	"time"

	"github.com/oceanflux/array-om-sim/model"
)

func TestArrayStateDevices(t *testing.T) {
	dev2 := deviceWithMode("device002")
	dev1 := deviceWithMode("device001")
	pto := subsystemWithMode("pto001", "device001")

	state := NewArrayState([]*model.Component{dev2, dev1, pto})

	devices := state.Devices()
	if len(devices) != 2 || devices[0] != "device001" || devices[1] != "device002" {
		t.Errorf("Devices() = %v, want sorted device IDs only", devices)
	}
	if state.DeviceCount() != 2 {
		t.Errorf("DeviceCount() = %d, want 2", state.DeviceCount())
	}
	if state.Element("pto001") == nil {
		t.Error("subsystems must carry ledgers too")
	}
}

func TestTurnOutDeviceCountsOnce(t *testing.T) {
	state := NewArrayState([]*model.Component{deviceWithMode("device001"), deviceWithMode("device002")})

	state.TurnOutDevice("device001")
	state.TurnOutDevice("device001")
	if state.TurnedOutDevices() != 1 {
		t.Errorf("turned out = %d, want repeated turn-out counted once", state.TurnedOutDevices())
	}
	if state.AllDevicesOut() {
		t.Error("one of two devices out must not report all out")
	}

	state.TurnOutDevice("device002")
	if !state.AllDevicesOut() {
		t.Error("both devices out must report all out")
	}

	// Non-devices never count.
	state2 := NewArrayState([]*model.Component{deviceWithMode("device001"), subsystemWithMode("pto001", "device001")})
	state2.TurnOutDevice("pto001")
	if state2.TurnedOutDevices() != 0 {
		t.Error("turning out a subsystem must not move the counter")
	}
}

func TestWeatherBlockedPerTrack(t *testing.T) {
	state := NewArrayState([]*model.Component{deviceWithMode("device001")})

	state.SetWeatherBlocked("device001", TrackCorrective)
	if !state.WeatherBlocked("device001", TrackCorrective) {
		t.Error("block flag not set")
	}
	if state.WeatherBlocked("device001", TrackCondition) {
		t.Error("block flags are per track")
	}
	if state.WeatherBlocked("missing", TrackCorrective) {
		t.Error("unknown elements are never blocked")
	}
}

func TestNextDrawAfterBounds(t *testing.T) {
	state := NewArrayState([]*model.Component{deviceWithMode("device001")})

	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	draws := []time.Time{t0.Add(100 * time.Hour), t0.Add(200 * time.Hour), t0.Add(300 * time.Hour)}
	state.SetPendingDraws("device001", 1, draws)

	got, ok := state.NextDrawAfter("device001", 1, t0.Add(150*time.Hour), t0.Add(120*time.Hour))
	if !ok || !got.Equal(draws[1]) {
		t.Errorf("NextDrawAfter = (%s, %v), want the 200h draw", got, ok)
	}

	// Strictly after: an equal bound does not qualify.
	if _, ok := state.NextDrawAfter("device001", 1, draws[2], t0); ok {
		t.Error("draw equal to the bound must not qualify")
	}
	if _, ok := state.NextDrawAfter("device001", 2, t0, t0); ok {
		t.Error("unknown failure mode has no draws")
	}
}
