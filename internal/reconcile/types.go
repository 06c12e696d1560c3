package reconcile

// RenameEntry is one row of the rename table: the file called From is
// renamed to To inside the target directory.
type RenameEntry struct {
	From string
	To   string
}

// Theme is an icon style variant. Its icons are named <Prefix>-<size><ext>.
type Theme struct {
	Name   string
	Prefix string
}

var (
	Light = Theme{Name: "light", Prefix: "coms_b"}
	Dark  = Theme{Name: "dark", Prefix: "coms_d"}
)

// IconName returns the expected file name of the theme's icon for size.
func (t Theme) IconName(size, ext string) string {
	return t.Prefix + "-" + size + ext
}

// Status is the result of processing one RenameEntry.
type Status int

const (
	StatusRenamed Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to a RenameEntry whose source existed.
type Outcome struct {
	Entry  RenameEntry
	Status Status
	Backup string // set when the previous occupant of Entry.To was moved aside
	Err    error  // *RenameEntryError when Status is StatusFailed
}

// SizeAudit is the presence of one required size for both themes.
type SizeAudit struct {
	Size      string
	LightName string
	Light     bool
	DarkName  string
	Dark      bool
}

// Report summarizes a reconcile run.
type Report struct {
	Dir    string
	DryRun bool
	Light  Theme
	Dark   Theme

	Outcomes     []Outcome
	RenamedCount int
	FailedCount  int

	LightIcons []string
	DarkIcons  []string

	Audit        []SizeAudit
	MissingLight []string
	MissingDark  []string
	AllPresent   bool
}
