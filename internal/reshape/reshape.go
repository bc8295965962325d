package reshape

import (
	"time"
	"weathersnap/internal/config"
	"weathersnap/internal/models"
)

const (
	Source = "open-meteo"

	// ISO-8601 with microseconds and a numeric offset, e.g. 2024-01-01T12:00:00.000000+00:00
	TimestampLayout = "2006-01-02T15:04:05.000000-07:00"
)

// Reshaper turns a raw Open-Meteo response into the compact payload of one profile
type Reshaper struct {
	profile config.Profile
	now     func() time.Time
}

func New(profile config.Profile) *Reshaper {
	return &Reshaper{
		profile: profile,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for meta.generated_utc
func (r *Reshaper) WithClock(now func() time.Time) *Reshaper {
	r.now = now
	return r
}

// Reshape never fails: absent sections, fields and array entries become null
func (r *Reshaper) Reshape(raw models.Raw) models.Payload {
	p := r.profile

	payload := models.Payload{
		Meta: models.Meta{
			Source:       Source,
			Place:        p.Location.Place,
			Lat:          p.Location.Latitude,
			Lon:          p.Location.Longitude,
			Timezone:     p.Timezone,
			GeneratedUTC: r.now().UTC().Format(TimestampLayout),
		},
		Current: Current(raw.Section("current"), p.Current),
		Daily:   Zip(raw.Section("daily"), p.Daily),
	}

	if len(p.Hourly.Fields) > 0 {
		payload.Hourly = Zip(raw.Section("hourly"), p.Hourly)
	}

	return payload
}

// Current selects and renames the scalar fields of the current block
func Current(current map[string]interface{}, fields []config.FieldMapping) models.Record {
	rec := make(models.Record, 0, len(fields))
	for _, f := range fields {
		rec = append(rec, models.Field{Key: f.Target, Value: current[f.Source]})
	}
	return rec
}

// Zip combines parallel arrays by index. The number of entries is the shortest
// required array, capped at series.MaxEntries when it is positive. Optional arrays
// shorter than that yield null.
func Zip(section map[string]interface{}, series config.Series) []models.Record {
	columns := make([][]interface{}, len(series.Fields))
	n := -1
	for i, f := range series.Fields {
		columns[i] = array(section[f.Source])
		if f.Required && (n < 0 || len(columns[i]) < n) {
			n = len(columns[i])
		}
	}
	if n < 0 {
		n = 0
	}
	if series.MaxEntries > 0 {
		n = min(n, series.MaxEntries)
	}

	out := make([]models.Record, 0, n)
	for i := 0; i < n; i++ {
		rec := make(models.Record, 0, len(series.Fields))
		for c, f := range series.Fields {
			var value interface{}
			if i < len(columns[c]) {
				value = columns[c][i]
			}
			rec = append(rec, models.Field{Key: f.Target, Value: value})
		}
		out = append(out, rec)
	}
	return out
}

// array treats a missing, null or non-array value as empty
func array(v interface{}) []interface{} {
	a, _ := v.([]interface{})
	return a
}
