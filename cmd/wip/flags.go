package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hardhatdata/wip.git/internal/risk"
)

// parseOutputFlag extracts --output flag from args
func parseOutputFlag(args []string) (string, []string) {
	var output string
	var remainingArgs []string

	i := 0
	for i < len(args) {
		if args[i] == "--output" && i+1 < len(args) {
			output = args[i+1]
			i += 2
		} else if strings.HasPrefix(args[i], "--output=") {
			output = strings.TrimPrefix(args[i], "--output=")
			i++
		} else {
			remainingArgs = append(remainingArgs, args[i])
			i++
		}
	}

	return output, remainingArgs
}

// parseAsOfFlag extracts --as-of flag from args, defaulting to now
func parseAsOfFlag(args []string) (time.Time, []string) {
	asOf := time.Now()
	var remainingArgs []string

	i := 0
	for i < len(args) {
		var raw string
		if args[i] == "--as-of" && i+1 < len(args) {
			raw = args[i+1]
			i += 2
		} else if strings.HasPrefix(args[i], "--as-of=") {
			raw = strings.TrimPrefix(args[i], "--as-of=")
			i++
		} else {
			remainingArgs = append(remainingArgs, args[i])
			i++
			continue
		}

		if t, err := time.Parse("2006-01-02", raw); err == nil {
			asOf = t
		} else {
			fmt.Printf("Warning: invalid --as-of '%s', using today\n", raw)
		}
	}

	return asOf, remainingArgs
}

// parsePolicyFlag extracts --policy flag and loads the risk policy,
// falling back to the built-in thresholds
func parsePolicyFlag(args []string) (risk.Policy, []string) {
	policy := risk.DefaultPolicy()
	var remainingArgs []string

	i := 0
	for i < len(args) {
		var path string
		if args[i] == "--policy" && i+1 < len(args) {
			path = args[i+1]
			i += 2
		} else if strings.HasPrefix(args[i], "--policy=") {
			path = strings.TrimPrefix(args[i], "--policy=")
			i++
		} else {
			remainingArgs = append(remainingArgs, args[i])
			i++
			continue
		}

		loaded, err := risk.LoadPolicy(path)
		if err != nil {
			fmt.Printf("Warning: %v, using default thresholds\n", err)
			continue
		}
		policy = loaded
	}

	return policy, remainingArgs
}

// parseIntFlag extracts a numeric flag like --weeks or --months
func parseIntFlag(args []string, name string, defaultVal int) (int, []string) {
	value := defaultVal
	var remainingArgs []string
	flag := "--" + name

	i := 0
	for i < len(args) {
		if args[i] == flag && i+1 < len(args) {
			if n, err := strconv.Atoi(args[i+1]); err == nil && n > 0 {
				value = n
			} else {
				fmt.Printf("Warning: invalid %s '%s', using default %d\n", flag, args[i+1], defaultVal)
			}
			i += 2
		} else if strings.HasPrefix(args[i], flag+"=") {
			raw := strings.TrimPrefix(args[i], flag+"=")
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				value = n
			} else {
				fmt.Printf("Warning: invalid %s '%s', using default %d\n", flag, raw, defaultVal)
			}
			i++
		} else {
			remainingArgs = append(remainingArgs, args[i])
			i++
		}
	}

	return value, remainingArgs
}

// parseDecimalFlag extracts a money flag like --contract-labor
func parseDecimalFlag(args []string, name string) (decimal.Decimal, []string) {
	value := decimal.Zero
	var remainingArgs []string
	flag := "--" + name

	i := 0
	for i < len(args) {
		var raw string
		if args[i] == flag && i+1 < len(args) {
			raw = args[i+1]
			i += 2
		} else if strings.HasPrefix(args[i], flag+"=") {
			raw = strings.TrimPrefix(args[i], flag+"=")
			i++
		} else {
			remainingArgs = append(remainingArgs, args[i])
			i++
			continue
		}

		if d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "")); err == nil {
			value = d
		} else {
			fmt.Printf("Warning: invalid %s '%s', using 0\n", flag, raw)
		}
	}

	return value, remainingArgs
}

// parseStringFlag extracts a string flag like --cadence
func parseStringFlag(args []string, name, defaultVal string) (string, []string) {
	value := defaultVal
	var remainingArgs []string
	flag := "--" + name

	i := 0
	for i < len(args) {
		if args[i] == flag && i+1 < len(args) {
			value = args[i+1]
			i += 2
		} else if strings.HasPrefix(args[i], flag+"=") {
			value = strings.TrimPrefix(args[i], flag+"=")
			i++
		} else {
			remainingArgs = append(remainingArgs, args[i])
			i++
		}
	}

	return value, remainingArgs
}
