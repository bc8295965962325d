package pipeline

import (
	"context"
	"fmt"
	"log"
	"weathersnap/internal/api"
	"weathersnap/internal/config"
	"weathersnap/internal/metrics"
	"weathersnap/internal/models"
	"weathersnap/internal/output"
	"weathersnap/internal/reshape"
)

type Fetcher interface {
	GetForecast(ctx context.Context, params api.ForecastParams) (models.Raw, error)
}

// Sink is an optional destination for the encoded payload besides the output file
type Sink interface {
	Name() string
	Store(ctx context.Context, snap models.Snapshot) error
}

// Pipeline runs fetch, reshape and write once per Run
type Pipeline struct {
	profile  config.Profile
	fetcher  Fetcher
	reshaper *reshape.Reshaper
	writer   *output.Writer
	sinks    []Sink
}

func New(profile config.Profile, fetcher Fetcher, writer *output.Writer, sinks ...Sink) *Pipeline {
	return &Pipeline{
		profile:  profile,
		fetcher:  fetcher,
		reshaper: reshape.New(profile),
		writer:   writer,
		sinks:    sinks,
	}
}

// ForecastParams maps a profile onto an Open-Meteo request
func ForecastParams(profile config.Profile) api.ForecastParams {
	return api.ForecastParams{
		Latitude:      profile.Location.Latitude,
		Longitude:     profile.Location.Longitude,
		Timezone:      profile.Timezone,
		CurrentFields: profile.Request.Current,
		HourlyFields:  profile.Request.Hourly,
		DailyFields:   profile.Request.Daily,
		ForecastDays:  profile.ForecastDays,
	}
}

// Run fetches, reshapes and writes the payload. Fetch and write failures abort the run;
// sink failures are logged and counted since the output file is already in place.
func (p *Pipeline) Run(ctx context.Context) (models.Payload, error) {
	payload, data, err := p.run(ctx)
	metrics.RecordRun(p.profile.Name, len(payload.Daily), err)
	if err != nil {
		return payload, err
	}

	snap := models.Snapshot{
		Profile:      p.profile.Name,
		GeneratedUTC: payload.Meta.GeneratedUTC,
		DailyEntries: len(payload.Daily),
		Data:         data,
	}
	for _, sink := range p.sinks {
		err := sink.Store(ctx, snap)
		metrics.RecordSinkWrite(sink.Name(), err)
		if err != nil {
			log.Printf("Warning: %s sink failed: %v", sink.Name(), err)
		}
	}

	return payload, nil
}

func (p *Pipeline) run(ctx context.Context) (models.Payload, []byte, error) {
	raw, err := p.fetcher.GetForecast(ctx, ForecastParams(p.profile))
	if err != nil {
		return models.Payload{}, nil, fmt.Errorf("failed to fetch forecast for %s: %w", p.profile.Name, err)
	}

	payload := p.reshaper.Reshape(raw)

	data, err := p.writer.Write(payload)
	if err != nil {
		return models.Payload{}, nil, fmt.Errorf("failed to write %s: %w", p.writer.Path(), err)
	}

	return payload, data, nil
}
