package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bnema/wayloop/internal/config"
	"github.com/bnema/wayloop/internal/eventloop"
	"github.com/bnema/wayloop/internal/ui"
)

// DisplayInfo represents the monitor information output
type DisplayInfo struct {
	Monitors []MonitorInfo `json:"monitors"`
	Error    string        `json:"error,omitempty"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID      uint32  `json:"id"`
	Name    string  `json:"name"`
	X       int32   `json:"x"`
	Y       int32   `json:"y"`
	Width   uint32  `json:"width"`
	Height  uint32  `json:"height"`
	Primary bool    `json:"primary"`
	Scale   float64 `json:"scale"`
}

var jsonOutput bool

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "Show monitor configuration",
	Long:  `Display information about connected monitors and their configuration.`,
	RunE:  runMonitors,
}

func init() {
	monitorsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.AddCommand(monitorsCmd)
}

func runMonitors(cmd *cobra.Command, args []string) error {
	loop, err := eventloop.New(config.Get().Display.Socket)
	if err != nil {
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(DisplayInfo{Error: err.Error()})
		}
		return fmt.Errorf("failed to connect to compositor: %w", err)
	}
	defer loop.Close()

	monitors := loop.Monitors()

	if jsonOutput {
		info := DisplayInfo{Monitors: make([]MonitorInfo, len(monitors))}
		for i, mon := range monitors {
			width, height := mon.Dimensions()
			x, y := mon.Position()
			info.Monitors[i] = MonitorInfo{
				ID:      mon.NativeID(),
				Name:    mon.Name(),
				X:       x,
				Y:       y,
				Width:   width,
				Height:  height,
				Primary: i == 0,
				Scale:   mon.Scale(),
			}
		}
		return json.NewEncoder(os.Stdout).Encode(info)
	}

	if len(monitors) == 0 {
		fmt.Println("No monitors detected")
		return nil
	}

	fmt.Println(ui.FormatAppHeader("MONITORS", fmt.Sprintf("Shell: %s", loop.Shell())))
	fmt.Println()

	rows := make([][]string, 0, len(monitors))
	for i, mon := range monitors {
		width, height := mon.Dimensions()
		x, y := mon.Position()
		primary := ""
		if i == 0 {
			primary = "◀"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", mon.NativeID()),
			mon.Name(),
			fmt.Sprintf("%dx%d", width, height),
			fmt.Sprintf("(%d, %d)", x, y),
			fmt.Sprintf("%.1fx", mon.Scale()),
			primary,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.ColorSubtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == 0: // Header row
				return lipgloss.NewStyle().
					Foreground(ui.ColorPrimary).
					Bold(true).
					Padding(0, 1)
			case col == 0: // ID column
				return lipgloss.NewStyle().
					Foreground(ui.ColorInfo).
					Bold(true).
					Padding(0, 1)
			case col == 5 && rows[row-1][5] != "": // Primary marker
				return lipgloss.NewStyle().
					Foreground(ui.ColorSuccess).
					Bold(true).
					Padding(0, 1)
			default:
				return lipgloss.NewStyle().
					Foreground(ui.ColorText).
					Padding(0, 1)
			}
		}).
		Headers("ID", "NAME", "RESOLUTION", "POSITION", "SCALE", "PRIMARY").
		Rows(rows...)

	fmt.Println(t)
	return nil
}
