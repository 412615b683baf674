package shom

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	TIDES_URL       = "https://services.data.shom.fr/b2q8lrcdl4s04cbabsj4nhcb/hdm/spm/hlt"
	WATERLEVELS_URL = "https://services.data.shom.fr/b2q8lrcdl4s04cbabsj4nhcb/hdm/spm/wl"
	COEFF_URL       = "https://services.data.shom.fr/b2q8lrcdl4s04cbabsj4nhcb/hdm/spm/coeff"
	HARBORS_URL     = "https://services.data.shom.fr/x13f1b4faeszdyinv9zqxmx1/wfs"

	// The service refuses requests without a browser-looking origin.
	referer   = "https://maree.shom.fr/"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36"
)

// TideQuery requests tide events for a harbor over consecutive days.
type TideQuery struct {
	Harbor   string
	Start    DayKey
	Duration int // days
}

// WaterLevelQuery requests the sampled water-level curve for one day.
type WaterLevelQuery struct {
	Harbor string
	Day    DayKey
}

// CoefficientQuery requests tidal coefficients over consecutive days.
type CoefficientQuery struct {
	Harbor   string
	Start    DayKey
	Duration int // days
}

// Client performs HTTP requests against the tide service. The zero value is
// usable and shares the default transport.
type Client struct {
	// HTTPClient overrides the client used for requests. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client
	// BaseTides, BaseWaterLevels, BaseCoeff, BaseHarbors override endpoint
	// URLs, mainly for tests.
	BaseTides       string
	BaseWaterLevels string
	BaseCoeff       string
	BaseHarbors     string
}

func (c *Client) get(rawurl string, query url.Values, result interface{}) error {
	addr, err := url.Parse(rawurl)
	if err != nil {
		return err
	}
	addr.RawQuery = query.Encode()

	req, err := http.NewRequest(http.MethodGet, addr.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Referer", referer)
	req.Header.Set("User-Agent", userAgent)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tide service returned %s for %s", resp.Status, addr.Host)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding tide service response: %w", err)
	}
	return nil
}

func orDefault(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// GetTides fetches tide events for the queried days, keyed by day.
func (c *Client) GetTides(q *TideQuery) (TideTable, error) {
	var result TideTable
	if err := c.get(orDefault(c.BaseTides, TIDES_URL), q.build(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *TideQuery) build() url.Values {
	vals := make(url.Values)
	vals.Add("harborName", q.Harbor)
	vals.Add("date", string(q.Start))
	vals.Add("duration", fmt.Sprintf("%d", q.Duration))
	vals.Add("utc", "standard")
	vals.Add("correlation", "1")
	return vals
}

// GetWaterLevels fetches one day's water-level series.
func (c *Client) GetWaterLevels(q *WaterLevelQuery) (WaterLevelTable, error) {
	var result WaterLevelTable
	if err := c.get(orDefault(c.BaseWaterLevels, WATERLEVELS_URL), q.build(), &result); err != nil {
		return nil, err
	}
	if _, ok := result[q.Day]; !ok {
		return nil, fmt.Errorf("water level response missing day %s", q.Day)
	}
	return result, nil
}

func (q *WaterLevelQuery) build() url.Values {
	vals := make(url.Values)
	vals.Add("harborName", q.Harbor)
	vals.Add("date", string(q.Day))
	vals.Add("duration", "1")
	vals.Add("utc", "standard")
	vals.Add("nbWaterLevels", "288")
	return vals
}

// GetCoefficients fetches tidal coefficients for the queried days. The feed
// nests days inside months and sometimes wraps individual coefficients in
// single-element arrays; both are flattened here.
func (c *Client) GetCoefficients(q *CoefficientQuery) (CoefficientTable, error) {
	var months [][]coeffDay
	if err := c.get(orDefault(c.BaseCoeff, COEFF_URL), q.build(), &months); err != nil {
		return nil, err
	}

	start, err := q.Start.Time(time.UTC)
	if err != nil {
		return nil, fmt.Errorf("bad start day %q: %w", q.Start, err)
	}

	result := make(CoefficientTable)
	day := 0
	for _, month := range months {
		for _, coeffs := range month {
			if day >= q.Duration {
				break
			}
			key := NewDayKey(start.AddDate(0, 0, day))
			if len(coeffs) > 0 {
				result[key] = coeffs
			}
			day++
		}
	}
	if day < q.Duration {
		return result, fmt.Errorf("coefficient response covered %d of %d days", day, q.Duration)
	}
	return result, nil
}

// coeffDay is one day's coefficient list on the wire: numeric strings,
// occasionally wrapped one more level: ["95", ["98"]].
type coeffDay []int

func (d *coeffDay) UnmarshalJSON(buf []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(buf, &items); err != nil {
		return fmt.Errorf("coefficient day: %w", err)
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			var wrapped []string
			if err := json.Unmarshal(item, &wrapped); err != nil || len(wrapped) != 1 {
				return fmt.Errorf("coefficient entry %q malformed", item)
			}
			s = wrapped[0]
		}
		var n int
		if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
			return fmt.Errorf("coefficient %q not an int: %w", s, err)
		}
		out = append(out, n)
	}
	*d = out
	return nil
}

func (q *CoefficientQuery) build() url.Values {
	vals := make(url.Values)
	vals.Add("harborName", q.Harbor)
	vals.Add("date", string(q.Start))
	vals.Add("duration", fmt.Sprintf("%d", q.Duration))
	vals.Add("utc", "standard")
	return vals
}

// GetHarbors fetches the list of known harbors from the WFS layer.
func (c *Client) GetHarbors() ([]Harbor, error) {
	var result struct {
		Features []struct {
			Properties struct {
				CstMeta string `json:"cst"`
				Name    string `json:"toponyme"`
			} `json:"properties"`
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}

	vals := make(url.Values)
	vals.Add("service", "WFS")
	vals.Add("version", "1.0.0")
	vals.Add("srsName", "EPSG:4326")
	vals.Add("request", "GetFeature")
	vals.Add("typeName", "SPM_PORTS_WFS:liste_ports_spm_h2m")
	vals.Add("outputFormat", "application/json")

	if err := c.get(orDefault(c.BaseHarbors, HARBORS_URL), vals, &result); err != nil {
		return nil, err
	}

	harbors := make([]Harbor, 0, len(result.Features))
	for _, f := range result.Features {
		h := Harbor{ID: f.Properties.CstMeta, Name: f.Properties.Name}
		if h.ID == "" {
			h.ID = f.Properties.Name
		}
		if len(f.Geometry.Coordinates) == 2 {
			h.Lon = f.Geometry.Coordinates[0]
			h.Lat = f.Geometry.Coordinates[1]
		}
		harbors = append(harbors, h)
	}
	return harbors, nil
}
