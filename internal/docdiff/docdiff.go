// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package docdiff renders a raw JSON-level difference between two API
// description documents. It is a debugging aid for inspecting what the
// builder emitted, not the semantic item diff.
package docdiff

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/apivet/apivet/internal/log"
)

// Print writes a human-readable JSON diff of the two documents to w.
func Print(w io.Writer, oldPath, newPath string) error {
	oldDoc, err := os.ReadFile(oldPath)
	if err != nil {
		return fmt.Errorf("failed to read API document: %w", err)
	}
	newDoc, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("failed to read API document: %w", err)
	}

	differ := gojsondiff.New()
	delta, err := differ.Compare(oldDoc, newDoc)
	if err != nil {
		return fmt.Errorf("failed to compare documents: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintln(w, "The documents are identical.")
		return nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(oldDoc, &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       false,
	}

	text, err := formatter.NewAsciiFormatter(jdoc, config).Format(delta)
	if err != nil {
		return err
	}

	log.Debugf("document diff is %d bytes", len(text))
	fmt.Fprintln(w, text)
	return nil
}
