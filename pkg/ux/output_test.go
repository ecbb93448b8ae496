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
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePersonalityLevel(t *testing.T) {
	tests := map[string]PersonalityLevel{
		"machine":  PersonalityMachine,
		"Q":        PersonalityMachine,
		"min":      PersonalityMinimal,
		"standard": PersonalityStandard,
		"fancy":    PersonalityStandard,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParsePersonalityLevel(in), in)
	}
}

func TestDetectPersonality(t *testing.T) {
	t.Setenv("PGM_PERSONALITY", "")
	assert.Equal(t, PersonalityMachine, DetectPersonality(&bytes.Buffer{}), "buffers are not terminals")

	t.Setenv("PGM_PERSONALITY", "minimal")
	assert.Equal(t, PersonalityMinimal, DetectPersonality(os.Stdout))
}

func TestPrinter_Machine(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, PersonalityMachine)

	p.Title("ignored")
	p.KeyValue("nodes", 3)
	p.Success("done")
	p.Warning("careful")
	p.Table([]string{"NAME", "TYPE"}, [][]string{{"A", "chance"}, {"B", "decision"}})

	assert.Equal(t, "nodes\t3\nOK: done\nWARN: careful\nNAME\tTYPE\nA\tchance\nB\tdecision\n", buf.String())
}

func TestPrinter_Styled(t *testing.T) {
	for _, level := range []PersonalityLevel{PersonalityStandard, PersonalityMinimal} {
		var buf bytes.Buffer
		p := NewPrinter(&buf, level)
		p.Title("Network")
		p.Table([]string{"NAME"}, [][]string{{"Dyspnea"}})

		out := buf.String()
		assert.Contains(t, out, "Network", level)
		assert.Contains(t, out, "NAME", level)
		assert.Contains(t, out, "Dyspnea", level)
	}
}
