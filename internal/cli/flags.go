package cli

// DefaultConfigFile is read from the working directory unless --config is given
const DefaultConfigFile = "config.json"

// Flags holds all command-line flag values. String flags left empty defer to
// the config file, the environment or the built-in defaults.
type Flags struct {
	// General flags
	CfgFile string
	Verbose bool
	Quiet   bool

	// Run flags, bound to config keys
	Input       string
	Output      string
	MediaPath   string
	Profile     string
	Provider    string
	Fallback    string
	Lang        string
	TLD         string
	DeckName    string
	NoteType    string
	APKG        string
	Archive     bool
	FillMissing bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		CfgFile: DefaultConfigFile,
	}
}
