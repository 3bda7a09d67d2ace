package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/wayloop/internal/config"
	"github.com/bnema/wayloop/internal/eventloop"
	"github.com/bnema/wayloop/internal/logger"
	"github.com/bnema/wayloop/internal/ui"
)

var noWindow bool

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Stream compositor events",
	Long: `Connect to the compositor, create a window and print every translated
event until interrupted. With --no-window only registry-level events
(monitor changes) are observable since input requires a focused surface.`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().BoolVar(&noWindow, "no-window", false, "Do not create a window, observe registry events only")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	loop, err := eventloop.New(cfg.Display.Socket)
	if err != nil {
		return err
	}
	defer loop.Close()

	logger.Info("connected", "shell", loop.Shell())

	if !noWindow {
		win, xdg, err := loop.CreateWindow(cfg.Window.Width, cfg.Window.Height, "wayloop")
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
		defer win.Release()
		logger.Debug("window created", "id", win.ID(), "extended_shell", xdg)
	}

	// The waker lets the signal goroutine interrupt the blocking dispatch.
	waker := loop.Waker()
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupted
		if err := waker.Wake(); err != nil {
			logger.Errorf("wake failed: %v", err)
			os.Exit(1)
		}
	}()

	fmt.Println(ui.FormatAppHeader("EVENT STREAM", "Press Ctrl+C to stop"))

	return loop.RunForever(func(evt eventloop.Event) eventloop.ControlFlow {
		fmt.Println(ui.FormatEvent(evt.Kind.String(), describeEvent(evt)))
		if evt.Kind == eventloop.KindAwakened || evt.Kind == eventloop.KindClosed {
			return eventloop.Break
		}
		return eventloop.Continue
	})
}

func describeEvent(evt eventloop.Event) string {
	switch evt.Kind {
	case eventloop.KindMouseEntered, eventloop.KindMouseMoved:
		return fmt.Sprintf("window=%d x=%.2f y=%.2f", evt.Window, evt.X, evt.Y)
	case eventloop.KindMouseButton:
		action := "released"
		if evt.Pressed {
			action = "pressed"
		}
		return fmt.Sprintf("window=%d button=%s %s", evt.Window, evt.Button, action)
	case eventloop.KindMouseWheel:
		return fmt.Sprintf("window=%d dx=%.2f dy=%.2f kind=%d phase=%d",
			evt.Window, evt.Delta.X, evt.Delta.Y, evt.Delta.Kind, evt.Phase)
	case eventloop.KindKey:
		action := "released"
		if evt.KeyPressed {
			action = "pressed"
		}
		return fmt.Sprintf("window=%d keycode=%d %s", evt.Window, evt.Keycode, action)
	case eventloop.KindResized:
		return fmt.Sprintf("window=%d %dx%d", evt.Window, evt.Width, evt.Height)
	case eventloop.KindAwakened:
		return ""
	default:
		return fmt.Sprintf("window=%d", evt.Window)
	}
}
