package pipeline

// State is the position of one invocation in the linear pipeline.
type State int

const (
	Start State = iota
	OutlineDone
	ManuscriptDone
	Persisted
	Done
)

var stateNames = [...]string{
	Start:          "start",
	OutlineDone:    "outline_done",
	ManuscriptDone: "manuscript_done",
	Persisted:      "persisted",
	Done:           "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Event reports a transition. Detail is a short human readable note, such as
// the outline title or a storage URI.
type Event struct {
	RunID  string `json:"run_id"`
	State  State  `json:"state"`
	Detail string `json:"detail,omitempty"`
}

// Observer receives every transition of a run, in order, from the goroutine
// running the pipeline.
type Observer func(Event)
