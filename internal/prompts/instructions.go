package prompts

import "github.com/openshelf/warden/internal/verdict"

var instructions = map[Stage]string{
	StageModerate: verdict.DefaultInstructions,
}

// Instructions returns the hardcoded default instructions for a workflow stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
