package ark

import "strings"

// AppendDirectives adds the trailing "--ratio" and "--duration" tokens the
// Seedance models read from the prompt text. A directive already present in
// the prompt is left alone; "--dur" counts as a duration directive. Ratio is
// always appended before duration.
func AppendDirectives(prompt, ratio, duration string) string {
	if ratio != "" && !strings.Contains(prompt, "--ratio") {
		prompt += " --ratio " + ratio
	}
	if duration != "" && !strings.Contains(prompt, "--duration") && !strings.Contains(prompt, "--dur") {
		prompt += " --duration " + duration
	}
	return prompt
}
