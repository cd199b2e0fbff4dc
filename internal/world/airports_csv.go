package world

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"airline_bots/internal/models"
)

// LoadAirportsCSV reads an OurAirports-style airports.csv. Rows without an
// IATA code and closed, heliport and seaplane entries are skipped.
func LoadAirportsCSV(path string) ([]models.Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseAirportsCSV(f)
}

func ParseAirportsCSV(r io.Reader) ([]models.Airport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("airports csv header: %w", err)
	}
	idx := func(name string) int {
		for i, h := range headers {
			if h == name {
				return i
			}
		}
		return -1
	}
	col := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	idIdx := idx("id")
	typeIdx := idx("type")
	nameIdx := idx("name")
	latIdx := idx("latitude_deg")
	lonIdx := idx("longitude_deg")
	continentIdx := idx("continent")
	countryIdx := idx("iso_country")
	cityIdx := idx("municipality")
	iataIdx := idx("iata_code")
	// Not part of the OurAirports export; honored when present.
	popIdx := idx("population")
	incomeIdx := idx("income")
	if idIdx < 0 || typeIdx < 0 || latIdx < 0 || lonIdx < 0 {
		return nil, errors.New("airports csv: id, type, latitude_deg and longitude_deg columns are required")
	}

	var airports []models.Airport
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("airports csv line %d: %w", line, err)
		}

		t := col(rec, typeIdx)
		if t == "closed" || t == "heliport" || t == "seaplane_base" || col(rec, iataIdx) == "" {
			continue
		}
		id, err := strconv.Atoi(col(rec, idIdx))
		if err != nil {
			return nil, fmt.Errorf("airports csv line %d: bad id %q", line, col(rec, idIdx))
		}
		lat, _ := strconv.ParseFloat(col(rec, latIdx), 64)
		lon, _ := strconv.ParseFloat(col(rec, lonIdx), 64)

		pop, err := strconv.ParseInt(col(rec, popIdx), 10, 64)
		if err != nil {
			pop = populationForType(t)
		}
		income, err := strconv.Atoi(col(rec, incomeIdx))
		if err != nil {
			income = defaultIncome
		}

		airports = append(airports, models.Airport{
			ID:           id,
			IATA:         col(rec, iataIdx),
			Name:         col(rec, nameIdx),
			City:         col(rec, cityIdx),
			Size:         sizeForType(t),
			Population:   pop,
			CountryCode:  col(rec, countryIdx),
			Income:       income,
			RunwayLength: runwayMetersForType(t),
			Zone:         col(rec, continentIdx),
			Latitude:     lat,
			Longitude:    lon,
		})
	}
	return airports, nil
}

const defaultIncome = 30000

func sizeForType(t string) int {
	switch t {
	case "large_airport":
		return 6
	case "medium_airport":
		return 4
	case "small_airport":
		return 2
	default:
		return 1
	}
}

func runwayMetersForType(t string) int {
	switch t {
	case "large_airport":
		return 3200
	case "medium_airport":
		return 2200
	case "small_airport":
		return 1200
	default:
		return 1000
	}
}

// populationForType estimates the catchment of an airport when the export
// carries no population column.
func populationForType(t string) int64 {
	switch t {
	case "large_airport":
		return 5_000_000
	case "medium_airport":
		return 1_000_000
	case "small_airport":
		return 150_000
	default:
		return 50_000
	}
}
