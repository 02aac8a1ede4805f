package weather

import (
	"math"
	"testing"
)

func TestDiurnalExtremes(t *testing.T) {
	m := Model{Diurnal: &Diurnal{
		TemperatureMin: 10.0,
		TemperatureMax: 30.0,
		HumidityMin:    0.3,
		HumidityMax:    0.8,
	}}

	// The sinusoid peaks where sin(phase)=1 and bottoms where sin(phase)=-1.
	peak := m.At("11:00:00")
	if math.Abs(peak.Temperature-30.0) > 1e-6 {
		t.Fatalf("peak temperature = %v, want 30", peak.Temperature)
	}
	if math.Abs(peak.Humidity-0.3) > 1e-6 {
		t.Fatalf("peak-time humidity = %v, want 0.3", peak.Humidity)
	}

	trough := m.At("23:00:00")
	if math.Abs(trough.Temperature-10.0) > 1e-6 {
		t.Fatalf("trough temperature = %v, want 10", trough.Temperature)
	}
	if math.Abs(trough.Humidity-0.8) > 1e-6 {
		t.Fatalf("trough-time humidity = %v, want 0.8", trough.Humidity)
	}
}

func TestDiurnalDayWarmerThanNight(t *testing.T) {
	m := Model{Diurnal: &Diurnal{TemperatureMin: 5.0, TemperatureMax: 25.0, HumidityMin: 0.3, HumidityMax: 0.8}}

	day := m.At("13:00:00")
	night := m.At("01:00:00")
	if day.Temperature <= night.Temperature {
		t.Fatalf("day %v should be warmer than night %v", day.Temperature, night.Temperature)
	}
	if day.Humidity >= night.Humidity {
		t.Fatalf("humidity should run inverse to temperature: day %v, night %v", day.Humidity, night.Humidity)
	}
}

func TestDiurnalPercentHumidity(t *testing.T) {
	m := Model{Diurnal: &Diurnal{TemperatureMin: 10, TemperatureMax: 20, HumidityMin: 30, HumidityMax: 80}}
	got := m.At("23:00:00")
	if got.Humidity < 0 || got.Humidity > 1 {
		t.Fatalf("humidity %v not normalized to [0,1]", got.Humidity)
	}
	if math.Abs(got.Humidity-0.8) > 1e-6 {
		t.Fatalf("humidity = %v, want 0.8", got.Humidity)
	}
}

func TestConstantNormalization(t *testing.T) {
	got := Fixed(22.0, 55).At("10:00:00")
	if got.Temperature != 22.0 {
		t.Fatalf("temperature = %v, want 22", got.Temperature)
	}
	if math.Abs(got.Humidity-0.55) > 1e-6 {
		t.Fatalf("percent humidity = %v, want 0.55", got.Humidity)
	}
}

func TestConstantZeroHumidityIsBoneDry(t *testing.T) {
	got := Fixed(35.0, 0).At("14:00:00")
	if got.Humidity != 0 {
		t.Fatalf("explicit 0%% humidity replaced with %v", got.Humidity)
	}
}

func TestZeroModelDefaults(t *testing.T) {
	got := Model{}.At("10:00:00")
	if got.Temperature != 24.0 || got.Humidity != 0.5 {
		t.Fatalf("zero model = %+v, want 24 C / 0.5", got)
	}
}
