package workspace

import "os"

// ExpandDir substitutes $RUN_ID in an output-dir template, falling back to
// environment variables for every other name.
func ExpandDir(template, runID string) string {
	return os.Expand(template, func(key string) string {
		if key == "RUN_ID" {
			return runID
		}
		return os.Getenv(key)
	})
}
