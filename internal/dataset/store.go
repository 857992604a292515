package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/danwashburn/truck-parking-dashboard/internal/geo"
	"github.com/danwashburn/truck-parking-dashboard/internal/observability"
)

// Store memoizes dataset loads by path. The cache is keyed on the path alone;
// a changed file is only picked up by a new Store (matching a per-process
// session cache).
type Store struct {
	metrics *observability.Metrics

	mu       sync.Mutex
	daily    map[string][]DailyRecord
	hourly   map[string][]HourlyRecord
	counties map[string]*geo.FeatureCollection
	overlays map[string]overlayEntry
}

type overlayEntry struct {
	fc     *geo.FeatureCollection
	notice string
}

// NewStore creates an empty Store. metrics may be nil.
func NewStore(metrics *observability.Metrics) *Store {
	return &Store{
		metrics:  metrics,
		daily:    make(map[string][]DailyRecord),
		hourly:   make(map[string][]HourlyRecord),
		counties: make(map[string]*geo.FeatureCollection),
		overlays: make(map[string]overlayEntry),
	}
}

func (s *Store) cacheEvent(dataset, result string) {
	if s.metrics != nil {
		s.metrics.LoaderCache.WithLabelValues(dataset, result).Inc()
	}
}

// Daily loads the per-county daily metrics CSV. Every column other than
// county_fips and diagnosis is treated as a numeric metric; values that fail
// to parse are coerced to zero.
func (s *Store) Daily(path string) ([]DailyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.daily[path]; ok {
		s.cacheEvent("daily", "hit")
		return cached, nil
	}
	s.cacheEvent("daily", "miss")

	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	fipsCol, diagCol := -1, -1
	for i, h := range header {
		switch h {
		case "county_fips":
			fipsCol = i
		case "diagnosis":
			diagCol = i
		}
	}
	if fipsCol < 0 {
		return nil, fmt.Errorf("%s: missing county_fips column", path)
	}

	records := make([]DailyRecord, 0, len(rows))
	for _, row := range rows {
		rec := DailyRecord{
			FIPS:    PadFIPS(row[fipsCol]),
			Metrics: make(map[string]float64, len(header)-1),
		}
		for i, h := range header {
			if i == fipsCol || i == diagCol {
				continue
			}
			rec.Metrics[h] = lenientFloat(row[i])
		}
		if diagCol >= 0 {
			rec.Diagnosis = strings.TrimSpace(row[diagCol])
		}
		records = append(records, rec)
	}

	s.daily[path] = records
	return records, nil
}

// Hourly loads the hourly demand CSV with columns
// county, hour, des_demand, undes_demand, supply.
func (s *Store) Hourly(path string) ([]HourlyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.hourly[path]; ok {
		s.cacheEvent("hourly", "hit")
		return cached, nil
	}
	s.cacheEvent("hourly", "miss")

	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"county", "hour", "des_demand", "undes_demand", "supply"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: missing %s column", path, required)
		}
	}

	records := make([]HourlyRecord, 0, len(rows))
	for _, row := range rows {
		hour, err := strconv.Atoi(strings.TrimSpace(row[col["hour"]]))
		if err != nil {
			continue
		}
		records = append(records, HourlyRecord{
			County:      PadFIPS(row[col["county"]]),
			Hour:        hour,
			DesDemand:   lenientFloat(row[col["des_demand"]]),
			UndesDemand: lenientFloat(row[col["undes_demand"]]),
			Supply:      lenientFloat(row[col["supply"]]),
		})
	}

	s.hourly[path] = records
	return records, nil
}

// Counties loads the county boundary GeoJSON and zero-pads each feature's
// county_fips property.
func (s *Store) Counties(path string) (*geo.FeatureCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.counties[path]; ok {
		s.cacheEvent("counties", "hit")
		return cached, nil
	}
	s.cacheEvent("counties", "miss")

	fc, err := geo.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for i := range fc.Features {
		f := &fc.Features[i]
		if f.Properties == nil {
			continue
		}
		switch v := f.Properties["county_fips"].(type) {
		case string:
			f.Properties["county_fips"] = PadFIPS(v)
		case float64:
			f.Properties["county_fips"] = PadFIPS(strconv.Itoa(int(v)))
		}
	}

	s.counties[path] = fc
	return fc, nil
}

// Spots loads the truck-spot overlay, keeping only point features. A missing
// or unreadable file is not an error: the returned notice explains why the
// layer is absent.
func (s *Store) Spots(path string) (*geo.FeatureCollection, string) {
	return s.overlay(path, "spots", "Spots", "truck spots", geo.PointsOnly)
}

// Roadways loads the roadway overlay, keeping only line features.
func (s *Store) Roadways(path string) (*geo.FeatureCollection, string) {
	return s.overlay(path, "roadways", "Roadways", "roadways", geo.LinesOnly)
}

func (s *Store) overlay(path, dataset, name, label string, keep func(*geo.FeatureCollection) *geo.FeatureCollection) (*geo.FeatureCollection, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.overlays[path]; ok {
		s.cacheEvent(dataset, "hit")
		return cached.fc, cached.notice
	}
	s.cacheEvent(dataset, "miss")

	entry := overlayEntry{}
	if _, err := os.Stat(path); err != nil {
		entry.notice = fmt.Sprintf("%s file not found: %s", name, path)
	} else if fc, err := geo.ReadFile(path); err != nil {
		entry.notice = fmt.Sprintf("Could not read %s (%s): %v", label, filepath.Base(path), err)
	} else {
		entry.fc = keep(fc)
	}

	s.overlays[path] = entry
	return entry.fc, entry.notice
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err = r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(row) < len(header) {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// lenientFloat parses a float, coercing failures and NaN to 0.
func lenientFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
