package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/arijanluiken/candleforge/internal/api"
	"github.com/arijanluiken/candleforge/internal/engine"
	"github.com/arijanluiken/candleforge/internal/registry"
	"github.com/arijanluiken/candleforge/internal/series"
	"github.com/arijanluiken/candleforge/pkg/config"
)

func main() {
	fmt.Println("Candleforge indicator engine starting...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		logger = logger.Level(level)
	}

	reg := registry.New()
	eng := engine.New(reg, logger)
	logger.Info().Int("kinds", len(reg.List())).Msg("Indicator registry loaded")

	if cfg.Bars.Path != "" {
		bars, err := loadBarsCSV(cfg.Bars.Path)
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.Bars.Path).Msg("Failed to load bars")
		} else {
			eng.SetBars(bars)
			logger.Info().Int("bars", len(bars)).Str("path", cfg.Bars.Path).Msg("Bar history loaded")
		}
	}

	server := api.New(cfg, logger, reg, eng)
	server.Start()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Stop(shutdownCtx)
	eng.Wait()
}

// loadBarsCSV reads OHLCV bars from a CSV file with rows of
// time,open,high,low,close,volume. Time is unix seconds or RFC3339. A
// header row is skipped when the first field does not parse.
func loadBarsCSV(path string) ([]series.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	bars := make([]series.Bar, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("row %d: expected 6 fields, got %d", i+1, len(row))
		}
		ts, err := parseBarTime(row[0])
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		var vals [5]float64
		for j := 0; j < 5; j++ {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			vals[j] = v
		}
		bars = append(bars, series.Bar{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Time.Before(bars[i].Time) {
			return nil, fmt.Errorf("bars not ascending at row %d", i+1)
		}
	}
	return bars, nil
}

func parseBarTime(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
