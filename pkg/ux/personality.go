// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// PersonalityLevel defines the richness of CLI output.
type PersonalityLevel string

const (
	// PersonalityStandard enables colors, icons and bordered tables.
	PersonalityStandard PersonalityLevel = "standard"

	// PersonalityMinimal uses icons and plain tables.
	PersonalityMinimal PersonalityLevel = "minimal"

	// PersonalityMachine outputs tab separated text for scripting.
	PersonalityMachine PersonalityLevel = "machine"
)

// ParsePersonalityLevel converts a string to PersonalityLevel. Unknown
// values select PersonalityStandard.
func ParsePersonalityLevel(s string) PersonalityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal", "min", "m":
		return PersonalityMinimal
	case "machine", "quiet", "q":
		return PersonalityMachine
	default:
		return PersonalityStandard
	}
}

// DetectPersonality picks the level for w: PGM_PERSONALITY when set,
// PersonalityMachine when w is not a terminal, PersonalityStandard
// otherwise.
func DetectPersonality(w io.Writer) PersonalityLevel {
	if env := os.Getenv("PGM_PERSONALITY"); env != "" {
		return ParsePersonalityLevel(env)
	}
	if !isTerminal(w) {
		return PersonalityMachine
	}
	return PersonalityStandard
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
