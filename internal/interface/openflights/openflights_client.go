package openflights

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"
	"logbook-creator/pkg/logger"
)

// airports.dat column positions
const (
	colIATA      = 4
	colICAO      = 5
	colLatitude  = 6
	colLongitude = 7
	columns      = 14
)

// nullField is how airports.dat spells an empty value
const nullField = `\N`

// Client downloads the OpenFlights airport database
type Client struct {
	url        string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new OpenFlights client
func NewClient(url string, timeout time.Duration, logger logger.Logger) repository.AirportSource {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchAirports downloads airports.dat and keeps the rows carrying both an IATA and an ICAO code
func (c *Client) FetchAirports(ctx context.Context) ([]entity.Airport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Info("Downloading airport database", "url", c.url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download airports: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airport database returned status %d", resp.StatusCode)
	}

	airports, skipped, err := ParseAirports(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Airport database parsed", "airports", len(airports), "skipped", skipped)
	return airports, nil
}

// ParseAirports reads airports.dat rows. Later rows for an IATA code replace
// earlier ones while keeping the first position. Rows with unreadable
// coordinates are counted as skipped.
func ParseAirports(r io.Reader) ([]entity.Airport, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		airports []entity.Airport
		index    = map[string]int{}
		skipped  int
	)

	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to parse airports line %d: %w", line, err)
		}
		if len(row) < columns {
			skipped++
			continue
		}

		iata, icao := field(row[colIATA]), field(row[colICAO])
		if iata == "" || icao == "" {
			continue
		}

		lat, errLat := strconv.ParseFloat(row[colLatitude], 64)
		lon, errLon := strconv.ParseFloat(row[colLongitude], 64)
		if errLat != nil || errLon != nil {
			skipped++
			continue
		}

		airport := entity.Airport{IATA: iata, ICAO: icao, Latitude: lat, Longitude: lon}
		if i, ok := index[iata]; ok {
			airports[i] = airport
			continue
		}
		index[iata] = len(airports)
		airports = append(airports, airport)
	}

	return airports, skipped, nil
}

func field(value string) string {
	if value == nullField {
		return ""
	}
	return value
}
