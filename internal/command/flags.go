// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/apivet/apivet/internal/config"
	"github.com/apivet/apivet/internal/output"
)

// NewDiffFlags constructs the mutually exclusive diff mode flags.
func NewDiffFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "diff",
			Usage: "diff two targets, each a document file, git reference or published version; with one target, diff it against the current source tree",
		},
		&cli.StringSliceFlag{
			Name:  "diff-from-files",
			Usage: "diff two prebuilt API description documents",
		},
		&cli.StringSliceFlag{
			Name:  "diff-from-references",
			Usage: "diff the public API between two git references",
		},
		&cli.StringFlag{
			Name:  "diff-from-published",
			Usage: "diff a published version (name@version or @version) against the current source tree",
		},
	}
}

// NewPolicyFlags constructs the deny gate and checkout safety flags.
func NewPolicyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "deny",
			Usage: "exit with an error if the diff contains items in the given category (all, added, changed, removed)",
		},
		&cli.BoolFlag{
			Name:        "force-checkouts",
			Usage:       "discard uncommitted local changes instead of aborting before a checkout",
			HideDefault: true,
		},
	}
}

// NewBuildFlags constructs the flags steering document building.
func NewBuildFlags() []cli.Flag {
	return []cli.Flag{
		NewManifestPathFlag(),
		&cli.StringFlag{
			Name:  "package",
			Usage: "package to document inside the module tree, as a relative path or a package name",
		},
		NewTargetDirFlag(),
	}
}

// NewManifestPathFlag constructs the manifest-path flag, with env and config
// file sources layered under the explicit flag.
func NewManifestPathFlag() *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "manifest-path",
		Usage: "path to the go.mod of the module to document",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("APIVET_MANIFEST_PATH"),
		),
		Value: "go.mod",
	}
	return ValueChainFlagFromConfigFile(config.File(), flag)
}

// NewTargetDirFlag constructs the target-dir flag.
func NewTargetDirFlag() *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "target-dir",
		Usage: "directory where API description documents are written; a temp dir when unset",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("APIVET_TARGET_DIR"),
		),
	}
	return ValueChainFlagFromConfigFile(config.File(), flag)
}

// NewOutputFlags constructs the rendering and diagnostics flags.
func NewOutputFlags() []cli.Flag {
	colorFlag := &cli.StringFlag{
		Name:  "color",
		Usage: "colorize diff output (auto, always, never)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("APIVET_COLOR"),
		),
		Value: string(output.ColorAuto),
		Validator: func(value string) error {
			_, err := output.ParseColorMode(value)
			return err
		},
	}
	colorFlag = ValueChainFlagFromConfigFile(config.File(), colorFlag)

	return []cli.Flag{
		colorFlag,
		&cli.StringFlag{
			Name:  "document",
			Usage: "list the public API from a prebuilt API description document instead of building one",
		},
		&cli.BoolFlag{
			Name:        "document-diff",
			Usage:       "print a raw JSON diff of the two API description documents instead of the item diff",
			HideDefault: true,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "enable verbose diagnostics",
			HideDefault: true,
		},
	}
}

// ValueChainFlagFromConfigFile adds a config file source to the given flag's
// Sources chain. A missing config file leaves the flag untouched.
func ValueChainFlagFromConfigFile(path string, flag *cli.StringFlag) *cli.StringFlag {
	if path == "" {
		return flag
	}

	src := yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
