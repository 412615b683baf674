package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/marees/tidegraph/pkg/cache"
	"github.com/marees/tidegraph/pkg/graph"
	"github.com/marees/tidegraph/pkg/locale"
	"github.com/marees/tidegraph/pkg/metrics"
	"github.com/marees/tidegraph/pkg/shom"
	"github.com/marees/tidegraph/pkg/sunset"
	"github.com/marees/tidegraph/pkg/tideinfo"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	day           = 24 * time.Hour
	tideFetchDays = 7

	// Cache for slightly less than one day so daily clients don't see
	// stale data.
	cacheTTL = 23 * time.Hour

	defaultHarbor = "PORNICHET"
	defaultLang   = "fr"
)

var (
	shomClient = &shom.Client{}
	dayCache   = cache.NewTimed(cacheTTL)

	// Harbors with known coordinates get day/night shading on the graph.
	places = map[string]sunset.Place{
		"PORNICHET":  sunset.Pornichet,
		"SAINT-MALO": sunset.SaintMalo,
		"BREST":      sunset.Brest,
	}
)

func Register(r *mux.Router, prefix string) {
	r.Handle("/api/v1/graph/{harbor}/{date}", metrics.LatencyHandler(makeServeGraph()))
	r.Handle("/api/v1/tides/{harbor}/{date}", metrics.LatencyHandler(makeServeTides()))
	r.Handle("/api/v1/waterlevels/{harbor}/{date}", metrics.LatencyHandler(makeServeWaterLevels()))
	r.Handle("/api/v1/coefficients/{harbor}/{year}/{month}", metrics.LatencyHandler(makeServeCoefficients()))
	r.Handle("/api/v1/tideinfo/{harbor}", metrics.LatencyHandler(makeServeTideInfo()))
	r.Handle("/config", metrics.LatencyHandler(makeConfigPreferences(prefix)))
	r.Handle("/metrics", promhttp.Handler())
}

// dayVars pulls and validates the {harbor}/{date} route variables.
func dayVars(r *http.Request) (harbor string, dk shom.DayKey, err error) {
	vars := mux.Vars(r)
	harbor = vars["harbor"]
	dk = shom.DayKey(vars["date"])
	if harbor == "" {
		return "", "", fmt.Errorf("missing harbor")
	}
	if !dk.Valid() {
		return "", "", fmt.Errorf("bad date %q, want YYYY-MM-DD", vars["date"])
	}
	return harbor, dk, nil
}

// fetchTides returns one day's tide events, via the day cache. The week
// around the requested day is fetched in one request since the service
// prices every call the same.
func fetchTides(harbor string, dk shom.DayKey) (shom.Events, error) {
	key := cache.DayKey("tides", harbor, string(dk))
	if cached, ok := dayCache.Get(key); ok {
		var events shom.Events
		if err := json.Unmarshal(cached, &events); err == nil {
			return events, nil
		}
		log.Printf("Dropping undecodable tide cache entry %s", key)
	}

	table, err := shomClient.GetTides(&shom.TideQuery{
		Harbor:   harbor,
		Start:    dk,
		Duration: tideFetchDays,
	})
	if err != nil {
		metrics.ObserveUpstreamError("tides")
		return nil, err
	}

	for d, events := range table {
		if blob, err := marshalEvents(events); err == nil {
			dayCache.Set(cache.DayKey("tides", harbor, string(d)), blob)
		}
	}

	events, ok := table[dk]
	if !ok {
		return nil, fmt.Errorf("tide response missing day %s", dk)
	}
	return events, nil
}

// marshalEvents stores events in the same positional form the feed uses, so
// cache entries decode through the standard path.
func marshalEvents(events shom.Events) ([]byte, error) {
	rows := make([][4]string, 0, len(events))
	for _, e := range events {
		coeff := "---"
		if e.Coefficient != nil {
			coeff = strconv.Itoa(*e.Coefficient)
		}
		rows = append(rows, [4]string{
			e.Type.String(),
			e.Time.String(),
			strconv.FormatFloat(e.Height, 'f', 2, 64),
			coeff,
		})
	}
	return json.Marshal(rows)
}

func fetchWaterLevels(harbor string, dk shom.DayKey) (shom.Samples, error) {
	key := cache.DayKey("waterlevels", harbor, string(dk))
	if cached, ok := dayCache.Get(key); ok {
		var samples shom.Samples
		if err := json.Unmarshal(cached, &samples); err == nil {
			return samples, nil
		}
		log.Printf("Dropping undecodable water level cache entry %s", key)
	}

	table, err := shomClient.GetWaterLevels(&shom.WaterLevelQuery{Harbor: harbor, Day: dk})
	if err != nil {
		metrics.ObserveUpstreamError("waterlevels")
		return nil, err
	}
	samples := table[dk]

	if blob, err := marshalSamples(samples); err == nil {
		dayCache.Set(key, blob)
	}
	return samples, nil
}

func marshalSamples(samples shom.Samples) ([]byte, error) {
	groups := make([][][2]string, 0, len(samples))
	for _, group := range samples {
		rows := make([][2]string, 0, len(group))
		for _, s := range group {
			rows = append(rows, [2]string{
				s.Time.String(),
				strconv.FormatFloat(s.Height, 'f', 2, 64),
			})
		}
		groups = append(groups, rows)
	}
	if len(groups) == 1 {
		return json.Marshal(groups[0])
	}
	return json.Marshal(groups)
}

// makeServeGraph renders one harbor-day as SVG. Upstream failures become
// error-shaped input for the drawer, which renders a placeholder message;
// this endpoint answers 200 either way.
func makeServeGraph() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		harbor, dk, err := dayVars(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "%v", err)
			return
		}

		opts := graphOptions(r, harbor)

		events, err := fetchTides(harbor, dk)
		if err != nil {
			log.Printf("Failed to fetch tides for %s %s: %+v", harbor, dk, err)
			opts.EventsErr = err.Error()
		}
		samples, err := fetchWaterLevels(harbor, dk)
		if err != nil {
			log.Printf("Failed to fetch water levels for %s %s: %+v", harbor, dk, err)
			opts.SamplesErr = err.Error()
		}

		tstart := time.Now()
		g := graph.New(dk, events, samples, opts)
		var buf bytes.Buffer
		if _, err := g.Encode(&buf); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			log.Printf("Failed to encode graph for %s %s: %+v", harbor, dk, err)
			return
		}
		metrics.ObserveRenderLatency(modeName(opts.Mode), time.Since(tstart).Seconds())

		w.Header().Add("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	})
}

// graphOptions assembles the per-request draw options: language, display
// mode, minimum depth from saved preferences, and sun events for harbors
// with known coordinates.
func graphOptions(r *http.Request, harbor string) graph.Options {
	opts := graph.Options{}

	lang := r.FormValue("lang")
	viewer := viewerFromSession(r)
	if lang == "" && viewer != nil && viewer.Lang != "" {
		lang = viewer.Lang
	}
	if lang == "" {
		lang = defaultLang
	}
	opts.Localize = locale.Localizer(lang)

	if viewer != nil {
		opts.MinDepth = viewer.MinDepth
	}

	switch r.FormValue("mode") {
	case "now":
		opts.Mode = graph.ModeRelativeToNow
	case "depth":
		opts.Mode = graph.ModeRelativeToMinDepth
	default:
		// The depth-relative mode switches on automatically when a
		// minimum navigable depth is configured.
		if opts.MinDepth != nil {
			opts.Mode = graph.ModeRelativeToMinDepth
		}
	}

	if place, ok := places[harbor]; ok {
		opts.Location = place.Location
		opts.SunEvents = sunset.GetSunEvents(time.Now().In(place.Location), day, place)
	}
	return opts
}

func modeName(m graph.DisplayMode) string {
	switch m {
	case graph.ModeRelativeToNow:
		return "now"
	case graph.ModeRelativeToMinDepth:
		return "depth"
	default:
		return "plain"
	}
}

// eventDTO is the JSON shape served to API clients.
type eventDTO struct {
	Type        string  `json:"type"`
	Time        string  `json:"time"`
	Height      float64 `json:"height"`
	Coefficient *int    `json:"coefficient"`
}

func makeServeTides() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		harbor, dk, err := dayVars(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "%v", err)
			return
		}

		events, err := fetchTides(harbor, dk)
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, "Failed to get data: %+v", err)
			log.Printf("Failed to get tides for %s %s: %+v", harbor, dk, err)
			return
		}

		out := make([]eventDTO, 0, len(events))
		for _, e := range events {
			out = append(out, eventDTO{
				Type:        e.Type.String(),
				Time:        e.Time.String(),
				Height:      e.Height,
				Coefficient: e.Coefficient,
			})
		}
		writeJSON(w, out)
	})
}

func makeServeWaterLevels() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		harbor, dk, err := dayVars(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "%v", err)
			return
		}

		samples, err := fetchWaterLevels(harbor, dk)
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, "Failed to get data: %+v", err)
			log.Printf("Failed to get water levels for %s %s: %+v", harbor, dk, err)
			return
		}

		type sampleDTO struct {
			Time   string  `json:"time"`
			Height float64 `json:"height"`
		}
		out := make([]sampleDTO, 0)
		for _, p := range graph.NormalizePoints(samples) {
			out = append(out, sampleDTO{
				Time:   shom.ClockTime(int(p.Minutes)).String(),
				Height: p.Height,
			})
		}
		writeJSON(w, out)
	})
}

// makeServeCoefficients answers the calendar dialog's month grid: every day
// of the requested month mapped to its coefficients.
func makeServeCoefficients() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		harbor := vars["harbor"]
		year, yerr := strconv.Atoi(vars["year"])
		month, merr := strconv.Atoi(vars["month"])
		if harbor == "" || yerr != nil || merr != nil || month < 1 || month > 12 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "want /coefficients/{harbor}/{year}/{month}")
			return
		}

		first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		days := first.AddDate(0, 1, 0).Sub(first).Hours() / 24

		key := cache.DayKey("coefficients", harbor, first.Format("2006-01"))
		if cached, ok := dayCache.Get(key); ok {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		table, err := shomClient.GetCoefficients(&shom.CoefficientQuery{
			Harbor:   harbor,
			Start:    shom.NewDayKey(first),
			Duration: int(days),
		})
		if err != nil {
			metrics.ObserveUpstreamError("coefficients")
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, "Failed to get data: %+v", err)
			log.Printf("Failed to get coefficients for %s %d-%02d: %+v", harbor, year, month, err)
			return
		}

		blob, err := json.Marshal(table)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		dayCache.Set(key, blob)
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(blob)
	})
}

// makeServeTideInfo summarizes the tides around the current instant: the
// surrounding tide events plus the next spring and neap days.
func makeServeTideInfo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		harbor := mux.Vars(r)["harbor"]
		if harbor == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "missing harbor")
			return
		}

		loc := time.Local
		if place, ok := places[harbor]; ok {
			loc = place.Location
		}
		now := time.Now().In(loc)
		yesterday := shom.NewDayKey(now.AddDate(0, 0, -1))
		today := shom.NewDayKey(now)

		tides, err := shomClient.GetTides(&shom.TideQuery{
			Harbor:   harbor,
			Start:    yesterday,
			Duration: 3,
		})
		if err != nil {
			metrics.ObserveUpstreamError("tides")
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, "Failed to get data: %+v", err)
			log.Printf("Failed to get tides for %s: %+v", harbor, err)
			return
		}

		moments := tideinfo.Flatten(tides, loc)
		resp := struct {
			Previous *eventDTO `json:"previous"`
			Next     *eventDTO `json:"next"`

			NextSpring string `json:"next_spring,omitempty"`
			SpringPeak int    `json:"next_spring_coefficient,omitempty"`
			NextNeap   string `json:"next_neap,omitempty"`
			NeapPeak   int    `json:"next_neap_coefficient,omitempty"`
		}{}
		if m, ok := tideinfo.Previous(moments, now); ok {
			resp.Previous = momentDTO(m)
		}
		if m, ok := tideinfo.Next(moments, now); ok {
			resp.Next = momentDTO(m)
		}

		// The coefficient lookahead is best effort: a month of spring/neap
		// context, dropped from the response when the fetch fails.
		coeffs, err := shomClient.GetCoefficients(&shom.CoefficientQuery{
			Harbor:   harbor,
			Start:    today,
			Duration: 30,
		})
		if coeffs == nil && err != nil {
			metrics.ObserveUpstreamError("coefficients")
			log.Printf("Failed to get coefficients for %s: %+v", harbor, err)
		}
		if day, peak, ok := tideinfo.NextSpring(coeffs, today); ok {
			resp.NextSpring, resp.SpringPeak = string(day), peak
		}
		if day, peak, ok := tideinfo.NextNeap(coeffs, today); ok {
			resp.NextNeap, resp.NeapPeak = string(day), peak
		}

		writeJSON(w, resp)
	})
}

func momentDTO(m tideinfo.Moment) *eventDTO {
	return &eventDTO{
		Type:        m.Event.Type.String(),
		Time:        m.Time.Format(time.RFC3339),
		Height:      m.Event.Height,
		Coefficient: m.Event.Coefficient,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON result: %+v", err)
	}
}
