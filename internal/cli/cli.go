package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/specialistvlad/nodecanvas/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// envOr returns the environment value for key, or fallback when unset.
// A .env file loaded at startup feeds these through the process env.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nodecanvas", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
NodeCanvas - A headless node graph editor for image generation workflows.

Usage:
  nodecanvas [options] [WORKFLOW_PATH]

Arguments:
  WORKFLOW_PATH
    Path to a workflow document (.json) to load into the session.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow document to load.")
	wFlag := flagSet.String("w", "", "Path to the workflow document to load (shorthand).")
	manifestsFlag := flagSet.String("manifests", "nodes", "Path to the directory containing node type manifests.")
	updatesFlag := flagSet.String("updates", "", "Path to a JSON file of scripted field updates to apply.")
	exportFlag := flagSet.String("export", "", "Path to write the resulting workflow document.")
	httpPortFlag := flagSet.Int("http-port", 0, "Port for the HTTP inspection API. 0 is disabled.")
	eventURLFlag := flagSet.String("event-url", envOr("NODECANVAS_EVENT_URL", ""), "URL of the socket.io event bus. Empty is disabled.")
	eventNamespaceFlag := flagSet.String("event-namespace", envOr("NODECANVAS_EVENT_NAMESPACE", ""), "Namespace to join on the event bus.")
	logFormatFlag := flagSet.String("log-format", envOr("NODECANVAS_LOG_FORMAT", "json"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envOr("NODECANVAS_LOG_LEVEL", "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *workflowFlag != "" {
		path = *workflowFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Workflow path determined.", "path", path)

	if path == "" && *updatesFlag == "" && *httpPortFlag == 0 && *eventURLFlag == "" {
		slog.Debug("Nothing to do, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ManifestsPath:     *manifestsFlag,
		WorkflowPath:      path,
		UpdatesPath:       *updatesFlag,
		ExportPath:        *exportFlag,
		HTTPPort:          *httpPortFlag,
		EventBusURL:       *eventURLFlag,
		EventBusNamespace: *eventNamespaceFlag,
		LogFormat:         logFormat,
		LogLevel:          logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
