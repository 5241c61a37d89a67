package pipeline

// Phase is a step of the pipeline state machine.
//
// Builds run ConfigResolved, BuildStart, then any number of ResolveID and Load calls,
// GenerateBundle and finally one TransformHTML per document. Dev sessions run
// ConfigResolved, ConfigureServer and then TransformHTML for every served document.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseConfigResolved
	PhaseConfigureServer
	PhaseBuildStart
	PhaseGenerateBundle
	PhaseTransformHTML
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfigResolved:
		return "configResolved"
	case PhaseConfigureServer:
		return "configureServer"
	case PhaseBuildStart:
		return "buildStart"
	case PhaseGenerateBundle:
		return "generateBundle"
	case PhaseTransformHTML:
		return "transformHtml"
	default:
		return "unknown"
	}
}

// transitions lists, per command and target phase, the phases it may be entered from.
// A build may start again after its bundle was generated.
var transitions = map[Command]map[Phase][]Phase{
	CommandBuild: {
		PhaseConfigResolved: {PhaseIdle},
		PhaseBuildStart:     {PhaseConfigResolved, PhaseGenerateBundle, PhaseTransformHTML},
		PhaseGenerateBundle: {PhaseBuildStart},
		PhaseTransformHTML:  {PhaseGenerateBundle, PhaseTransformHTML},
	},
	CommandServe: {
		PhaseConfigResolved:  {PhaseIdle},
		PhaseConfigureServer: {PhaseConfigResolved},
		PhaseTransformHTML:   {PhaseConfigureServer, PhaseTransformHTML},
	},
}
