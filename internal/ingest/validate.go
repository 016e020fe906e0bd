package ingest

import "math"

// #region awc
// awcFromVolumetric maps Open-Meteo volumetric soil moisture to an AWC
// percentage: clamp(0, 100, (volumetric / 0.4) * 100), rounded to two
// decimal places.
func awcFromVolumetric(volumetric float64) float64 {
	awc := volumetric / 0.4 * 100
	awc = math.Min(100, math.Max(0, awc))
	return math.Round(awc*100) / 100
}

// #endregion awc

// #region map-inputs
// MapInputs converts a snapshot into the input mapping the engines read.
// The previous-hour values come from index 0 of the hourly arrays; the
// precipitation forecast sums the first six hourly entries.
func MapInputs(snap Snapshot) map[string]any {
	prevMoisture := snap.Current.SoilMoisture
	if len(snap.Hourly.SoilMoisture) > 0 {
		prevMoisture = snap.Hourly.SoilMoisture[0]
	}

	prevSoilTemp := snap.Current.SoilTemp
	if len(snap.Hourly.SoilTemp) > 0 {
		prevSoilTemp = snap.Hourly.SoilTemp[0]
	}

	precipForecast := 0.0
	for i, p := range snap.Hourly.Precip {
		if i >= 6 {
			break
		}
		precipForecast += p
	}

	return map[string]any{
		"awc":                    awcFromVolumetric(snap.Current.SoilMoisture),
		"prev_awc":               awcFromVolumetric(prevMoisture),
		"soil_temp":              snap.Current.SoilTemp,
		"prev_soil_temp":         prevSoilTemp,
		"humidity":               snap.Current.Humidity,
		"precipitation_forecast": precipForecast,
		"et":                     snap.Current.ET,
	}
}

// #endregion map-inputs
