package core

const APP_NAME = "LaunchForge"
const APP_VERSION = "0.0.1"

// CREATED_WITH is stamped into every configuration this tool renders, so a
// produced launcher can report which builder version made it.
const CREATED_WITH = APP_NAME + " v" + APP_VERSION

// APP_DIR is the directory name used under the platform config and cache
// homes.
const APP_DIR = "launchforge"

type Options struct {
	ConfigPath         []string `short:"c" long:"config" description:"Path to a launcher configuration file. Defaults to the per-user configuration"`
	NewConfig          []bool   `short:"n" long:"new-config" description:"Write a fresh default configuration and exit"`
	ImportPath         []string `long:"import" description:"Import a configuration file and save it as the active configuration"`
	ExportPath         []string `long:"export" description:"Export the active configuration to a file"`
	PrintConfig        []bool   `short:"p" long:"print-config" description:"Print the active configuration as JSON"`
	Summary            []bool   `long:"summary" description:"Print a table summarizing the active configuration"`
	Validate           []bool   `long:"validate" description:"Validate the active configuration and report the result"`
	Build              []string `short:"b" long:"build" description:"Build a launcher executable at the given path"`
	Extract            []string `short:"x" long:"extract" description:"Print the configuration embedded in a built launcher"`
	CheckGameDir       []string `long:"check-game-dir" description:"Check a game directory against the configuration's validation files"`
	AddCommonLocations []bool   `long:"add-common-locations" description:"Discover common game directories into default_locations and save"`
	Reveal             []bool   `long:"reveal" description:"After a successful build, reveal the output in the file manager"`
	TemplatesDir       []string `short:"t" long:"templates" description:"Directory holding the launcher templates. Defaults to <executable dir>/templates"`
	Verbose            []bool   `short:"v" long:"verbose" description:"Enable debug logging"`
	LogLocation        []string `short:"l" long:"log-location" description:"Specifies path to logfile. Defaults to User's Cache Dir / launchforge/launchforge.log"`
	Version            []bool   `long:"version" description:"Print the application version and exit"`
}

// Message is a single update from a long running operation.
type Message struct {
	Finished bool
	Message  string
	Percent  int
	Err      error
}

type ChannelProvider struct {
	Logs chan Message
}

func MakeDefaultChannelProvider() *ChannelProvider {
	return &ChannelProvider{
		Logs: make(chan Message, 100),
	}
}

// ProgressFunc receives build progress updates. Calls are synchronous and
// ordered, so implementations must not block for long.
type ProgressFunc func(message string, percent int)

// ChannelProgress adapts a ChannelProvider into a ProgressFunc.
func ChannelProgress(channels *ChannelProvider) ProgressFunc {
	return func(message string, percent int) {
		channels.Logs <- Message{
			Message: message,
			Percent: percent,
		}
	}
}
