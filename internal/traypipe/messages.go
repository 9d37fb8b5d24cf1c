// Package traypipe implements the Tray Pipe Server of spec §4.7: the
// platform-local rendezvous point (Unix domain socket / named pipe) through
// which file-service instances register their sessions and hook scripts
// request cache clears.
package traypipe

// PresharedKey accompanies every handshake, per spec §6. It is not a
// secret in the security sense — it exists so a stray local process talking
// a different protocol on the same well-known path fails fast instead of
// wedging the connection.
const PresharedKey = "lineage-mcp-tray-v1"

// Message type tags, the closed set from spec §6.
const (
	TypeRegister      = "register"
	TypeUpdate        = "update"
	TypeUnregister    = "unregister"
	TypeClearByFilter = "clear_by_filter"
	TypeClearCache    = "clear_cache"
	TypeInterrupt     = "interrupt"
	TypeResume        = "resume"
)

// Message is the single wire envelope for every direction of traffic. Only
// the fields relevant to Type are populated; the rest are zero values. A
// single concrete struct (rather than an interface hierarchy) keeps the gob
// wire codec simple and keeps every message self-delimiting the way spec §4.7
// requires, without needing a discriminated decode step.
type Message struct {
	Type string

	PresharedKey string

	// register / update fields
	SessionID     string
	PID           int
	BaseDir       string
	StartedAt     int64
	ClientName    string
	FirstCall     string // short summary of the first tool call, set once
	LastTool      string // short summary of the most recent tool call
	FilesTracked  int
	AncestorPids  []int
	AncestorNames []string

	// clear_by_filter request fields (baseDir/clientName/ancestorPids reused
	// from above; a hook script never supplies SessionID/PID/StartedAt)

	// clear_by_filter reply field
	SessionsCleared int
}
