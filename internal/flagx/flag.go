// Package flagx contains helpers that let several independent flag sets share
// one os.Args without tripping over each other's flags.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args made of the flags listed in
// allowedFlags, together with their values, in their original order.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c stockkeeper.json
//  2. Flag and value joined by '=':           -config=stockkeeper.json
//
// A following token counts as the value only when it does not start with "-".
//
// Parameters:
//
//	args         : the command-line arguments (usually os.Args[1:])
//	allowedFlags : flag names to keep (e.g. []string{"-c", "-config"})
//
// Returns:
//
//	A non-nil slice with the allowed flags and any values given separately.
func FilterArgs(args []string, allowedFlags []string) []string {
	// Set of allowed flag names for constant-time lookup
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	// Empty, not nil, so callers can pass it straight to flag.Parse
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// Case 1: "-flag=value"
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			// Flag name is everything before the first '='
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// Case 2: "-flag" with the value possibly in the next argument
		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		// Take the next argument as the value unless it looks like a flag
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++ // value consumed
		}
	}

	return filtered
}

// ConfigFileFlag extracts the JSON config path given via -c or -config.
//
// Only these two flags are parsed and everything else in args is ignored, so
// the caller's own flag set can still parse the full command line afterwards.
//
// Parameters:
//
//	args : the command-line arguments (usually os.Args[1:])
//
// Returns:
//
//	The config path, or "" when neither flag is present. The last occurrence wins.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
