package mdx

import "strings"

type Classification string

const (
	ClassVisual       Classification = "visual"
	ClassSharedPrompt Classification = "shared-prompt"
	ClassUnknown      Classification = "unknown"
)

const (
	visualSegment = "visual-elements"
	sharedSegment = "shared-prompts"
)

// Classify decides from the import path alone what a component tag becomes.
// A path matching both segments is visual.
func Classify(name string, imports ImportMap) Classification {
	path, ok := imports[name]
	if !ok {
		return ClassUnknown
	}
	switch {
	case strings.Contains(path, visualSegment):
		return ClassVisual
	case strings.Contains(path, sharedSegment):
		return ClassSharedPrompt
	default:
		return ClassUnknown
	}
}
