// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/apivet/apivet/internal/config"
	"github.com/apivet/apivet/internal/deny"
	"github.com/apivet/apivet/internal/docdiff"
	"github.com/apivet/apivet/internal/extract"
	"github.com/apivet/apivet/internal/log"
	"github.com/apivet/apivet/internal/meta"
	"github.com/apivet/apivet/internal/output"
	"github.com/apivet/apivet/internal/public"
	"github.com/apivet/apivet/internal/target"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	sd, _ := os.Getwd()

	// allow short if-style local cfg; no actual outer cfg
	cfg, _ := config.Load() //nolint
	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "apivet",
		Usage: "list and diff the public API of a Go module",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "apivet version info",
				HideDefault: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd)
		},
	}

	app.Flags = append(app.Flags, NewDiffFlags()...)
	app.Flags = append(app.Flags, NewPolicyFlags()...)
	app.Flags = append(app.Flags, NewBuildFlags()...)
	app.Flags = append(app.Flags, NewOutputFlags()...)

	app.Metadata = map[string]interface{}{"meta": m}

	// Make sure flags are sorted for the --help text.
	sort.Slice(app.Flags, func(i, j int) bool {
		return app.Flags[i].Names()[0] < app.Flags[j].Names()[0]
	})

	return app, nil
}

// diffOperands inspects the diff mode flags and returns the selected mode's
// operands. Usage errors fire here, before any build work.
func diffOperands(cmd *cli.Command) (mode string, operands []string, err error) {
	type modeSpec struct {
		name     string
		operands []string
		min, max int
	}

	specs := []modeSpec{
		{name: "diff", operands: cmd.StringSlice("diff"), min: 1, max: 2},
		{name: "diff-from-files", operands: cmd.StringSlice("diff-from-files"), min: 2, max: 2},
		{name: "diff-from-references", operands: cmd.StringSlice("diff-from-references"), min: 2, max: 2},
		{name: "diff-from-published", min: 1, max: 1},
	}
	if published := cmd.String("diff-from-published"); published != "" {
		specs[3].operands = []string{published}
	}

	var selected []modeSpec
	for _, spec := range specs {
		if len(spec.operands) > 0 {
			selected = append(selected, spec)
		}
	}

	switch len(selected) {
	case 0:
		return "", nil, nil
	case 1:
	default:
		return "", nil, fmt.Errorf("--%s cannot be combined with --%s", selected[0].name, selected[1].name)
	}

	spec := selected[0]
	if len(spec.operands) < spec.min || len(spec.operands) > spec.max {
		if spec.min == spec.max {
			return "", nil, fmt.Errorf("--%s takes exactly %d targets", spec.name, spec.min)
		}
		return "", nil, fmt.Errorf("--%s takes %d to %d targets", spec.name, spec.min, spec.max)
	}

	return spec.name, spec.operands, nil
}

// resolveManifest anchors a relative manifest path to the directory the
// process started in.
func resolveManifest(startingDir, manifest string) string {
	if manifest == "" {
		manifest = "go.mod"
	}
	if filepath.IsAbs(manifest) || startingDir == "" {
		return manifest
	}
	return filepath.Join(startingDir, manifest)
}

// resolveRecipes maps the selected mode's operands onto two recipe slots.
// A nil slot means "build the current source tree".
func resolveRecipes(mode string, operands []string, manifestPath string) ([2]target.Recipe, error) {
	var slots [2]target.Recipe
	resolver := target.Resolver{ManifestPath: manifestPath}

	switch mode {
	case "diff":
		if len(operands) == 1 {
			// Single target diffs against the current tree.
			recipe, err := resolver.Resolve(operands[0])
			if err != nil {
				return slots, err
			}
			slots[0] = recipe
			return slots, nil
		}
		for n, operand := range operands {
			recipe, err := resolver.Resolve(operand)
			if err != nil {
				return slots, err
			}
			slots[n] = recipe
		}

	case "diff-from-files":
		slots[0] = target.FromFile{Path: operands[0]}
		slots[1] = target.FromFile{Path: operands[1]}

	case "diff-from-references":
		slots[0] = target.FromReference{Ref: operands[0]}
		slots[1] = target.FromReference{Ref: operands[1]}

	case "diff-from-published":
		published, err := resolver.ResolvePublished(operands[0])
		if err != nil {
			return slots, err
		}
		slots[0] = published
	}

	return slots, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	m, _ := cmd.Metadata["meta"].(meta.Meta)

	if verbose, _ := config.GetBool("verbose", false); cmd.Bool("verbose") || verbose {
		log.SetVerbose()
	}

	mode, operands, err := diffOperands(cmd)
	if err != nil {
		return err
	}

	// Deny rules come from the flag, or from the config file when diffing
	// without an explicit flag.
	denyValues := cmd.StringSlice("deny")
	if len(denyValues) == 0 && mode != "" {
		denyValues, _ = config.GetStringSlice("deny", nil)
	}
	rules, err := deny.ParseRules(denyValues)
	if err != nil {
		return err
	}
	if len(rules) > 0 && mode == "" {
		return errors.New("--deny can only be used when diffing")
	}
	if cmd.Bool("document-diff") && mode == "" {
		return errors.New("--document-diff can only be used when diffing")
	}
	if len(rules) > 0 && cmd.Bool("document-diff") {
		// The raw document diff replaces the item diff the rules gate on.
		return errors.New("--deny cannot be used together with --document-diff")
	}

	colorMode, err := output.ParseColorMode(cmd.String("color"))
	if err != nil {
		return err
	}
	renderer := output.NewRenderer(colorMode, os.Stdout)

	m.ManifestPath = resolveManifest(m.StartingDir, cmd.String("manifest-path"))

	p := pipeline{
		ManifestPath: m.ManifestPath,
		Package:      cmd.String("package"),
		TargetDir:    cmd.String("target-dir"),
		Force:        cmd.Bool("force-checkouts"),
	}

	// List mode: one collection, printed sorted.
	if mode == "" {
		var items []public.Item
		if document := cmd.String("document"); document != "" {
			items, err = extract.Items(document)
		} else {
			current, buildErr := p.currentTree()
			if buildErr != nil {
				return buildErr
			}
			items = current.items
		}
		if err != nil {
			return err
		}
		renderer.PrintItems(items)
		return nil
	}

	recipes, err := resolveRecipes(mode, operands, p.ManifestPath)
	if err != nil {
		return err
	}

	sides, err := p.materialize(ctx, recipes)
	if err != nil {
		return err
	}

	if cmd.Bool("document-diff") {
		return docdiff.Print(os.Stdout, sides[0].document, sides[1].document)
	}

	diff := public.Between(sides[0].items, sides[1].items)
	if err := renderer.PrintDiff(diff); err != nil {
		return err
	}

	return deny.Evaluate(diff, rules)
}
