package pipeline

// State is a pipeline run's position in its linear state machine.
type State string

// Run states in execution order, followed by the failure state.
const (
	StateExtracting        State = "extracting"
	StateTranscribing      State = "transcribing"
	StateConsolidating     State = "consolidating"
	StateWritingOriginal   State = "writing_original"
	StateTranslating       State = "translating"
	StateWritingTranslated State = "writing_translated"
	StateCleaningUp        State = "cleaning_up"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// States lists the non-failure states in the order a successful run visits them.
func States() []State {
	return []State{
		StateExtracting,
		StateTranscribing,
		StateConsolidating,
		StateWritingOriginal,
		StateTranslating,
		StateWritingTranslated,
		StateCleaningUp,
		StateDone,
	}
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

func (s State) String() string {
	return string(s)
}
