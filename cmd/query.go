package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vzahanych/weather-mcp-server/internal/weather"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a single weather query and print the JSON result",
	}

	var units string
	current := &cobra.Command{
		Use:     "current <location>",
		Short:   "Current conditions for a location",
		Example: `  weather-mcp-server query current "Seattle, WA" --units imperial`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.service.CurrentWeather(cmd.Context(), weather.CurrentRequest{
				Location: strings.Join(args, " "),
				Units:    units,
			})
			return printResult(cmd, resp, err)
		},
	}
	current.Flags().StringVarP(&units, "units", "u", "metric", "unit system: metric or imperial")

	var days int
	var forecastUnits string
	forecast := &cobra.Command{
		Use:   "forecast <location>",
		Short: "Multi-day forecast for a location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.service.Forecast(cmd.Context(), weather.ForecastRequest{
				Location: strings.Join(args, " "),
				Days:     &days,
				Units:    forecastUnits,
			})
			return printResult(cmd, resp, err)
		},
	}
	forecast.Flags().IntVarP(&days, "days", "d", weather.DefaultForecastDays, "number of days, 1-5")
	forecast.Flags().StringVarP(&forecastUnits, "units", "u", "metric", "unit system: metric or imperial")

	alerts := &cobra.Command{
		Use:   "alerts <location>",
		Short: "Active weather alerts for a location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.service.Alerts(cmd.Context(), weather.AlertsRequest{
				Location: strings.Join(args, " "),
			})
			return printResult(cmd, resp, err)
		},
	}

	cmd.AddCommand(current, forecast, alerts)
	return cmd
}

// printResult writes resp, or the error object for err, as indented JSON.
func printResult(cmd *cobra.Command, resp any, err error) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if err != nil {
		if encErr := enc.Encode(weather.ToErrorBody(err)); encErr != nil {
			return encErr
		}
		return err
	}
	return enc.Encode(resp)
}
