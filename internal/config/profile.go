package config

import "fmt"

type Location struct {
	Place     string  `yaml:"place"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// FieldMapping renames one upstream field. Required series bound the number of entries.
type FieldMapping struct {
	Source   string `yaml:"source"`
	Target   string `yaml:"target"`
	Required bool   `yaml:"required"`
}

// Series describes how parallel arrays are zipped into per-entry records.
// MaxEntries caps the output length; 0 means unbounded.
type Series struct {
	Fields     []FieldMapping `yaml:"fields"`
	MaxEntries int            `yaml:"max_entries"`
}

type Request struct {
	Current []string `yaml:"current"`
	Hourly  []string `yaml:"hourly"`
	Daily   []string `yaml:"daily"`
}

// Profile is one fetch-and-reshape configuration
type Profile struct {
	Name         string         `yaml:"-"`
	Location     Location       `yaml:"location"`
	Timezone     string         `yaml:"timezone"`
	ForecastDays int            `yaml:"forecast_days"`
	Request      Request        `yaml:"request"`
	Current      []FieldMapping `yaml:"current"`
	Daily        Series         `yaml:"daily"`
	Hourly       Series         `yaml:"hourly"`
}

func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"campus": CampusProfile(),
		"city":   CityProfile(),
	}
}

// CampusProfile reports the campus location with an unbounded daily array whose
// length is the shortest of the date, max and min temperature arrays.
func CampusProfile() Profile {
	return Profile{
		Location: Location{
			Latitude:  42.2814,
			Longitude: -85.5889,
		},
		Timezone:     "America/Chicago",
		ForecastDays: 7,
		Request: Request{
			Current: []string{"temperature_2m", "relative_humidity_2m", "apparent_temperature", "wind_speed_10m", "wind_direction_10m", "weather_code"},
			Hourly:  []string{"temperature_2m", "precipitation_probability", "precipitation", "wind_speed_10m", "weather_code"},
			Daily:   []string{"temperature_2m_max", "temperature_2m_min", "precipitation_sum", "precipitation_probability_max", "weather_code"},
		},
		Current: []FieldMapping{
			{Source: "time", Target: "time"},
			{Source: "temperature_2m", Target: "temperature_c"},
			{Source: "apparent_temperature", Target: "apparent_temperature_c"},
			{Source: "relative_humidity_2m", Target: "humidity_pct"},
			{Source: "wind_speed_10m", Target: "wind_speed_kmh"},
			{Source: "wind_direction_10m", Target: "wind_direction_deg"},
			{Source: "weather_code", Target: "weather_code"},
		},
		Daily: Series{
			Fields: []FieldMapping{
				{Source: "time", Target: "date", Required: true},
				{Source: "temperature_2m_max", Target: "tmax_c", Required: true},
				{Source: "temperature_2m_min", Target: "tmin_c", Required: true},
				{Source: "precipitation_probability_max", Target: "precip_prob_pct"},
				{Source: "precipitation_sum", Target: "precip_sum_mm"},
				{Source: "weather_code", Target: "weather_code"},
			},
		},
	}
}

// CityProfile carries a place label and caps the daily array at a week,
// bounded only by the date array.
func CityProfile() Profile {
	return Profile{
		Location: Location{
			Place:     "Kalamazoo, MI",
			Latitude:  42.2917,
			Longitude: -85.5872,
		},
		Timezone: "America/Detroit",
		Request: Request{
			Current: []string{"temperature_2m", "relative_humidity_2m", "precipitation", "wind_speed_10m", "weather_code", "is_day"},
			Daily:   []string{"weather_code", "temperature_2m_max", "temperature_2m_min", "precipitation_sum", "precipitation_probability_max", "sunrise", "sunset"},
		},
		Current: []FieldMapping{
			{Source: "time", Target: "time"},
			{Source: "temperature_2m", Target: "temperature_c"},
			{Source: "relative_humidity_2m", Target: "humidity_pct"},
			{Source: "precipitation", Target: "precip_mm"},
			{Source: "wind_speed_10m", Target: "wind_speed_kmh"},
			{Source: "weather_code", Target: "weather_code"},
			{Source: "is_day", Target: "is_day"},
		},
		Daily: Series{
			Fields: []FieldMapping{
				{Source: "time", Target: "date", Required: true},
				{Source: "weather_code", Target: "weather_code"},
				{Source: "temperature_2m_max", Target: "tmax_c"},
				{Source: "temperature_2m_min", Target: "tmin_c"},
				{Source: "precipitation_sum", Target: "precip_sum_mm"},
				{Source: "precipitation_probability_max", Target: "precip_prob_pct"},
				{Source: "sunrise", Target: "sunrise"},
				{Source: "sunset", Target: "sunset"},
			},
			MaxEntries: 7,
		},
	}
}

func (p Profile) validate() error {
	if p.Location.Latitude < -90 || p.Location.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if p.Location.Longitude < -180 || p.Location.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if p.Timezone == "" {
		return fmt.Errorf("timezone cannot be empty")
	}
	if p.ForecastDays < 0 {
		return fmt.Errorf("forecast_days cannot be negative")
	}
	if err := validateMappings("current", p.Current); err != nil {
		return err
	}
	if err := p.Daily.validate("daily"); err != nil {
		return err
	}
	return p.Hourly.validate("hourly")
}

func (s Series) validate(name string) error {
	if s.MaxEntries < 0 {
		return fmt.Errorf("%s.max_entries cannot be negative", name)
	}
	if len(s.Fields) == 0 {
		return nil
	}
	if err := validateMappings(name, s.Fields); err != nil {
		return err
	}
	for _, f := range s.Fields {
		if f.Required {
			return nil
		}
	}
	return fmt.Errorf("%s needs at least one required field", name)
}

func validateMappings(name string, fields []FieldMapping) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Source == "" || f.Target == "" {
			return fmt.Errorf("%s: source and target cannot be empty", name)
		}
		if seen[f.Target] {
			return fmt.Errorf("%s: duplicate target %q", name, f.Target)
		}
		seen[f.Target] = true
	}
	return nil
}
