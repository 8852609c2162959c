// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package registry downloads published module versions from a Go module
// proxy so their API can be built and compared against.
package registry

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/mod/module"

	"github.com/apivet/apivet/internal/cacheutil"
	"github.com/apivet/apivet/internal/log"
)

const defaultProxy = "https://proxy.golang.org"

// cacheSubdirs is where module archives live under the cache base dir.
var cacheSubdirs = []string{"modules"}

// Fetcher downloads module source archives. The zero value talks to the
// proxy named by GOPROXY, falling back to the public default.
type Fetcher struct {
	// Proxy overrides the proxy base URL. Mostly for tests.
	Proxy string

	// Client overrides the HTTP client.
	Client *http.Client
}

// Fetch downloads name@version and unpacks it into a fresh temp directory,
// returning the directory that holds the module's go.mod.
func (f Fetcher) Fetch(ctx context.Context, name, version string) (string, error) {
	if _, err := goversion.NewVersion(version); err != nil {
		return "", fmt.Errorf("invalid published version %q: %w", version, err)
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}

	escaped, err := module.EscapePath(name)
	if err != nil {
		return "", fmt.Errorf("invalid module name %q: %w", name, err)
	}

	proxy, err := f.proxyURL()
	if err != nil {
		return "", err
	}

	archive, err := f.download(ctx, proxy, escaped, name, version)
	if err != nil {
		return "", err
	}

	dest, err := os.MkdirTemp("", "apivet-mod-")
	if err != nil {
		return "", err
	}

	root, err := unpack(dest, archive)
	if err != nil {
		return "", fmt.Errorf("failed to unpack %s@%s: %w", name, version, err)
	}

	return root, nil
}

// download gets the module zip, consulting the local cache first so repeated
// diffs against the same published version skip the network.
func (f Fetcher) download(ctx context.Context, proxy, escaped, name, version string) ([]byte, error) {
	cacheKey := fmt.Sprintf("%s@%s.zip", name, version)
	if entry, ok := cacheutil.Read(cacheSubdirs, cacheKey); ok {
		log.Debugf("using cached archive for %s@%s", name, version)
		return entry.Data, nil
	}

	url := fmt.Sprintf("%s/%s/@v/%s.zip", strings.TrimSuffix(proxy, "/"), escaped, version)
	log.Infof("fetching %s@%s from %s", name, version, proxy)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s@%s: %w", name, version, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("registry returned %s for %s@%s: %s",
			resp.Status, name, version, strings.TrimSpace(string(body)))
	}

	archive, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s@%s: %w", name, version, err)
	}

	if cacheErr := cacheutil.Write(cacheSubdirs, cacheKey, archive); cacheErr != nil {
		log.WithError(cacheErr).Warnf("failed to cache %s@%s", name, version)
	}

	return archive, nil
}

func (f Fetcher) proxyURL() (string, error) {
	proxy := f.Proxy
	if proxy == "" {
		proxy = os.Getenv("GOPROXY")
	}
	// GOPROXY may be a comma or pipe separated list; use the first real URL.
	for _, part := range strings.FieldsFunc(proxy, func(c rune) bool { return c == ',' || c == '|' }) {
		part = strings.TrimSpace(part)
		switch part {
		case "", "direct", "off":
			continue
		}
		return part, nil
	}
	return defaultProxy, nil
}

// unpack extracts a module zip. Entries live under a single
// "name@version/" top-level directory; the returned path is that directory.
func unpack(dest string, archive []byte) (string, error) {
	reader, err := zip.NewReader(strings.NewReader(string(archive)), int64(len(archive)))
	if err != nil {
		return "", err
	}

	var root string
	for _, file := range reader.File {
		name := filepath.FromSlash(file.Name)
		if strings.Contains(file.Name, "..") {
			return "", fmt.Errorf("archive entry escapes destination: %s", file.Name)
		}

		top := strings.SplitN(file.Name, "/", 2)[0]
		if root == "" {
			root = top
		} else if top != root {
			return "", fmt.Errorf("archive has more than one top-level directory")
		}

		path := filepath.Join(dest, name)
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return "", err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", err
		}

		src, err := file.Open()
		if err != nil {
			return "", err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return "", err
		}
	}

	if root == "" {
		return "", fmt.Errorf("empty module archive")
	}

	return filepath.Join(dest, root), nil
}
