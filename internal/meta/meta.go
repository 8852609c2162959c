// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/apivet/apivet/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI
// arguments, loaded configuration, context, the resolved manifest path, and
// the starting working directory.
type Meta struct {
	Args         []string
	Config       config.Type
	Context      context.Context
	ManifestPath string
	StartingDir  string
}
