package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/danwashburn/truck-parking-dashboard/internal/county"
	"github.com/danwashburn/truck-parking-dashboard/internal/dataset"
	"github.com/danwashburn/truck-parking-dashboard/internal/geo"
	"github.com/danwashburn/truck-parking-dashboard/internal/hourly"
	"github.com/danwashburn/truck-parking-dashboard/internal/spots"
)

const statewideTitle = "Indiana (statewide)"

// view is the fully loaded and joined dataset a request renders from.
type view struct {
	daily    []dataset.DailyRecord
	hourly   []dataset.HourlyRecord
	counties []county.County
	names    map[string]string
	spots    *spots.Index
	notices  []string
}

func (s *Server) buildView() (*view, error) {
	daily, err := s.store.Daily(s.cfg.DailyPath())
	if err != nil {
		return nil, fmt.Errorf("load daily metrics: %w", err)
	}
	boundaries, err := s.store.Counties(s.cfg.CountiesPath())
	if err != nil {
		return nil, fmt.Errorf("load county boundaries: %w", err)
	}
	hourlyRecs, err := s.store.Hourly(s.cfg.HourlyPath())
	if err != nil {
		return nil, fmt.Errorf("load hourly demand: %w", err)
	}

	v := &view{daily: daily, hourly: hourlyRecs}
	v.counties = county.Join(boundaries, daily)
	v.names = county.NameIndex(v.counties)

	spotsFC, notice := s.store.Spots(s.cfg.SpotsPath())
	if notice != "" {
		v.notices = append(v.notices, notice)
	}
	v.spots = spots.NewIndex(spotsFC)

	if _, notice := s.store.Roadways(s.cfg.RoadwaysPath()); notice != "" {
		v.notices = append(v.notices, notice)
	}
	return v, nil
}

func (s *Server) loadView(w http.ResponseWriter) (*view, bool) {
	v, err := s.buildView()
	if err != nil {
		s.logger.Error("dataset load failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return v, true
}

// scopeTitle resolves the chart/download heading for a selection.
func (v *view) scopeTitle(fips string) string {
	if fips == "" {
		return statewideTitle
	}
	if name, ok := v.names[fips]; ok && name != "" {
		return name
	}
	return "County " + fips
}

type tooltipField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type mapPayload struct {
	Mode     string                `json:"mode"` // "diagnosis" or "numeric"
	Metric   string                `json:"metric"`
	Label    string                `json:"label"`
	Legend   []county.LegendEntry  `json:"legend"`
	Counties geo.FeatureCollection `json:"counties"`
	Notices  []string              `json:"notices"`
	Metrics  []county.Metric       `json:"metrics"`
}

// handleMap returns the joined boundary collection with server-computed fill
// colors, tooltip fields, and the legend for the requested mode.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	v, ok := s.loadView(w)
	if !ok {
		return
	}
	start := time.Now()

	metricKey := r.URL.Query().Get("metric")
	if metricKey == "" {
		metricKey = county.DiagnosisKey
	}

	payload := mapPayload{
		Metric:  metricKey,
		Notices: v.notices,
		Metrics: county.Metrics,
	}

	var fill func(c county.County) string
	if metricKey == county.DiagnosisKey {
		payload.Mode = "diagnosis"
		payload.Label = "Diagnosis"
		payload.Legend = county.DiagnosisLegend()
		fill = func(c county.County) string { return county.DiagnosisColor(c.Diagnosis) }
	} else {
		m, known := county.MetricByKey(metricKey)
		if !known {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown metric: " + metricKey})
			return
		}
		ramp := county.NewRamp(v.counties, m.Key)
		payload.Mode = "numeric"
		payload.Label = m.Label
		payload.Legend = ramp.Legend()
		fill = func(c county.County) string { return ramp.FillColor(c, m.Key) }
	}

	spotCounts := v.spots.CountByCounty(v.counties)

	payload.Counties = geo.FeatureCollection{Type: "FeatureCollection"}
	for _, c := range v.counties {
		props := map[string]interface{}{
			"county_fips": c.FIPS,
			"county_name": c.Name,
			"fill":        fill(c),
			"diagnosis":   c.Diagnosis,
			"tooltip":     tooltipFields(c, spotCounts[c.FIPS]),
		}
		payload.Counties.Features = append(payload.Counties.Features, geo.Feature{
			Type:       "Feature",
			Properties: props,
			Geometry:   c.Feature.Geometry,
		})
	}

	s.metrics.MapBuildDuration.Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, payload)
}

// tooltipFields lists every daily metric for the hover tooltip, using the
// integer display copies; the CSV download keeps raw precision instead.
func tooltipFields(c county.County, spotCount int) []tooltipField {
	fields := []tooltipField{
		{Label: "County", Value: c.Name},
		{Label: "FIPS", Value: c.FIPS},
	}
	for _, m := range county.Metrics {
		fields = append(fields, tooltipField{
			Label: m.Label,
			Value: strconv.Itoa(c.Display[m.Key]),
		})
	}
	diag := c.Diagnosis
	if diag == "" {
		diag = "—"
	}
	fields = append(fields,
		tooltipField{Label: "Diagnosis", Value: diag},
		tooltipField{Label: "Truck spots (mapped)", Value: strconv.Itoa(spotCount)},
	)
	return fields
}

// handleOverlay serves a static overlay layer, or 204 with its notice when
// the layer is unavailable.
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]

	var fc *geo.FeatureCollection
	var notice string
	switch kind {
	case "roadways":
		fc, notice = s.store.Roadways(s.cfg.RoadwaysPath())
	case "spots":
		fc, notice = s.store.Spots(s.cfg.SpotsPath())
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown overlay: " + kind})
		return
	}

	if fc == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Overlay-Notice", notice)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

type cycleRequest struct {
	Click string `json:"click"`
	Clear bool   `json:"clear"`
}

type cycleResponse struct {
	Selected string `json:"selected"`
	Title    string `json:"title"`
}

// handleCycle runs one selection-processing cycle for the session: an
// explicit clear first (arming the one-shot click guard), then the possibly
// stale click payload the page reported.
func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req cycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	v, ok := s.loadView(w)
	if !ok {
		return
	}

	if req.Clear {
		state.Clear()
		s.metrics.SelectionCycles.WithLabelValues("cleared").Inc()
	}
	transition := state.Cycle(req.Click)
	s.metrics.SelectionCycles.WithLabelValues(string(transition)).Inc()

	selected := state.Current()
	s.logger.Debug("selection cycle",
		"click", req.Click, "clear", req.Clear,
		"transition", transition, "selected", selected)

	writeJSON(w, http.StatusOK, cycleResponse{
		Selected: selected,
		Title:    v.scopeTitle(selected),
	})
}

type hourlyPayload struct {
	Title    string          `json:"title"`
	Selected string          `json:"selected"`
	Hours    []int           `json:"hours"`
	Series   []hourly.Series `json:"series"`
	Table    []hourly.Row    `json:"table"`
}

// scopedRows aggregates hourly demand for the session's scope.
func (v *view) scopedRows(fips string) []hourly.Row {
	if fips != "" {
		return hourly.Aggregate(v.hourly, fips, hourly.SupplyFor(v.daily, fips))
	}
	return hourly.Aggregate(v.hourly, "", hourly.SupplyTotal(v.daily))
}

func (s *Server) handleHourly(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	v, ok := s.loadView(w)
	if !ok {
		return
	}

	selected := state.Current()
	rows := v.scopedRows(selected)
	hours, series := hourly.Stacked(rows)

	writeJSON(w, http.StatusOK, hourlyPayload{
		Title:    v.scopeTitle(selected),
		Selected: selected,
		Hours:    hours,
		Series:   series,
		Table:    rows,
	})
}

func (s *Server) handleHourlyCSV(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	v, ok := s.loadView(w)
	if !ok {
		return
	}

	selected := state.Current()
	scope := "statewide"
	filename := "hourly_demand_statewide.csv"
	if selected != "" {
		scope = "county"
		filename = "hourly_demand_" + selected + ".csv"
	}
	s.metrics.CSVDownloads.WithLabelValues(scope).Inc()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := hourly.WriteCSV(w, v.scopedRows(selected)); err != nil {
		s.logger.Error("csv write failed", "error", err)
	}
}

func (s *Server) handleNearestSpots(w http.ResponseWriter, r *http.Request) {
	v, ok := s.loadView(w)
	if !ok {
		return
	}

	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lon are required"})
		return
	}
	k := 5
	if raw := q.Get("k"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			k = n
		}
	}

	neighbors := v.spots.Nearest(lat, lon, k)
	if neighbors == nil {
		neighbors = []spots.Neighbor{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"spots": neighbors})
}
