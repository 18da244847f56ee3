package layer

// Standard priority levels for defaults layers.
// Higher values override lower values during merging.
const (
	// PriorityBuiltin is the lowest priority for built-in defaults.
	PriorityBuiltin = 0

	// PriorityFile is for defaults files.
	PriorityFile = 100

	// PriorityProfile is for installed profiles.
	PriorityProfile = 200

	// PriorityEnv is for environment variable overrides.
	PriorityEnv = 500

	// PriorityArgs is for command-line argument overrides.
	PriorityArgs = 600
)

// DefaultPriority returns the default priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceBuiltin:
		return PriorityBuiltin
	case SourceFile:
		return PriorityFile
	case SourceProfile:
		return PriorityProfile
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	default:
		return PriorityBuiltin
	}
}

// StandardLayerNames defines standard names for defaults layers.
var StandardLayerNames = map[Source]string{
	SourceBuiltin: "builtin",
	SourceFile:    "defaults",
	SourceProfile: "profile",
	SourceEnv:     "environment",
	SourceArgs:    "arguments",
}

// StandardLayerName returns the standard name for a source.
func StandardLayerName(source Source) string {
	if name, ok := StandardLayerNames[source]; ok {
		return name
	}
	return "unknown"
}
