// Command render draws one day's tide graph as a standalone SVG file,
// fetching the data directly from the tide service.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/marees/tidegraph/pkg/graph"
	"github.com/marees/tidegraph/pkg/locale"
	"github.com/marees/tidegraph/pkg/shom"
	"github.com/marees/tidegraph/pkg/sunset"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "render [date]",
	Short: "Render a harbor's tide graph for one day as SVG",
	Long: `Fetches tide events and the water-level curve for one day and writes
the rendered graph as SVG. The date defaults to today; the service answers
for about seven days out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

var places = map[string]sunset.Place{
	"PORNICHET":  sunset.Pornichet,
	"SAINT-MALO": sunset.SaintMalo,
	"BREST":      sunset.Brest,
}

func init() {
	rootCmd.Flags().String("harbor", "PORNICHET", "harbor name as known by the tide service")
	rootCmd.Flags().String("lang", "fr", "language for graph messages")
	rootCmd.Flags().String("mode", "plain", "fill mode: plain, now, or depth")
	rootCmd.Flags().Float64("min-depth", 0, "minimum navigable depth in meters, for depth mode")
	rootCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")
	viper.BindPFlags(rootCmd.Flags())

	viper.SetEnvPrefix("tidegraph")
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	day := shom.NewDayKey(time.Now())
	if len(args) == 1 {
		day = shom.DayKey(args[0])
		if !day.Valid() {
			return fmt.Errorf("bad date %q, want YYYY-MM-DD", args[0])
		}
	}
	harbor := viper.GetString("harbor")

	client := &shom.Client{}
	opts := graph.Options{
		Localize: locale.Localizer(viper.GetString("lang")),
	}

	switch mode := viper.GetString("mode"); mode {
	case "plain":
	case "now":
		opts.Mode = graph.ModeRelativeToNow
	case "depth":
		opts.Mode = graph.ModeRelativeToMinDepth
		depth := viper.GetFloat64("min-depth")
		if depth <= 0 {
			return fmt.Errorf("depth mode needs --min-depth")
		}
		opts.MinDepth = &depth
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	if place, ok := places[harbor]; ok {
		opts.Location = place.Location
		opts.SunEvents = sunset.GetSunEvents(time.Now().In(place.Location), 24*time.Hour, place)
	}

	tides, err := client.GetTides(&shom.TideQuery{Harbor: harbor, Start: day, Duration: 1})
	if err != nil {
		opts.EventsErr = err.Error()
		fmt.Fprintf(os.Stderr, "failed to fetch tides: %v\n", err)
	}
	levels, err := client.GetWaterLevels(&shom.WaterLevelQuery{Harbor: harbor, Day: day})
	if err != nil {
		opts.SamplesErr = err.Error()
		fmt.Fprintf(os.Stderr, "failed to fetch water levels: %v\n", err)
	}

	out := os.Stdout
	if name := viper.GetString("out"); name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	g := graph.New(day, tides[day], levels[day], opts)
	_, err = g.Encode(out)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
