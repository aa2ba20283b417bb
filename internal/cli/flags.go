package cli

import "github.com/runnerr0/diary/internal/storage"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db" description:"Override the SQLite database path"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ListCommand — list entries, latest first by default.
type ListCommand struct {
	Order string `long:"order" description:"Sort by date: latest | oldest" default:"latest"`
	Mood  string `long:"mood" description:"Filter by mood: all | good | bad" default:"all"`
	Month string `long:"month" description:"Only entries dated in this month (YYYY-MM)"`

	globals *GlobalFlags
	version string
}

// NewCommand — write a new entry.
type NewCommand struct {
	Date        string `long:"date" description:"Entry date: YYYY-MM-DD, RFC3339 or epoch milliseconds (default: today)"`
	Emotion     int    `long:"emotion" description:"Emotion code, 1 (great) to 5 (terrible)" default:"3"`
	Content     string `long:"content" description:"Entry text"`
	ContentFile string `long:"content-file" description:"Path to file containing entry text"`

	globals *GlobalFlags
	version string
}

// ShowCommand — print a single entry.
type ShowCommand struct {
	ID     int    `long:"id" description:"Entry ID (required)"`
	Format string `long:"format" description:"Output format: full | md | json" default:"full"`

	globals *GlobalFlags
	version string
}

// EditCommand — rewrite an existing entry. Omitted fields keep their values.
type EditCommand struct {
	ID          int    `long:"id" description:"Entry ID (required)"`
	Date        string `long:"date" description:"New entry date"`
	Emotion     int    `long:"emotion" description:"New emotion code"`
	Content     string `long:"content" description:"New entry text"`
	ContentFile string `long:"content-file" description:"Path to file containing new entry text"`

	globals *GlobalFlags
	version string
}

// RemoveCommand — delete an entry, with a confirmation prompt.
type RemoveCommand struct {
	ID    int  `long:"id" description:"Entry ID (required)"`
	Force bool `long:"force" description:"Skip confirmation prompt"`

	globals *GlobalFlags
	version string
}

// ServeCommand — serve the diary views over HTTP.
type ServeCommand struct {
	Host string `long:"host" description:"Override listen host"`
	Port int    `long:"port" description:"Override listen port"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show storage and diary statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// ExportCommand — print the stored diary JSON.
type ExportCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand — delete the stored diary with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	kv      storage.KV // injectable for testing; nil means open default DB
}
