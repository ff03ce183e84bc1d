// Package envfile renders the build-argument file compose reads. The
// output is deterministic: same inputs, same bytes, in a fixed field
// order the compose templates rely on.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// proxyVars are passed through from the host so builds behind a
// corporate proxy can reach package mirrors. Lower case is checked
// before upper case for each name.
var proxyVars = []string{"http_proxy", "https_proxy", "all_proxy", "no_proxy"}

// Params carries everything the rendered file derives from.
type Params struct {
	Username  string
	UID, GID  int
	ImageName string // already resolved, with fallbacks applied
	ImageTag  string
	Suffix    string // instance namespace token, may be empty
	Home      string // host home directory
	GitRoot   string // repository root, empty when outside a work tree

	// Getenv looks up host environment variables; nil means os.Getenv.
	Getenv func(string) string
}

// Render produces the full .env content.
func Render(p Params) []byte {
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	var lines []string
	for _, name := range proxyVars {
		for _, v := range []string{name, strings.ToUpper(name)} {
			if val := getenv(v); val != "" {
				lines = append(lines, v+"="+val)
			}
		}
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}

	shell := getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}
	lines = append(lines,
		"SHELL="+shell,
		"USER="+p.Username,
		fmt.Sprintf("USER_UID=%d", p.UID),
		fmt.Sprintf("USER_GID=%d", p.GID),
		"",
		"IMAGE_NAME="+p.ImageName,
		"IMAGE_TAG="+p.ImageTag,
		"",
		"BUILD_TARGET=devenv",
	)

	n := DeriveNames(p.Username, p.Suffix)
	lines = append(lines,
		"",
		"SERVICE_PREPARE="+n.ServicePrepare,
		"SERVICE_MAIN="+n.ServiceMain,
		"",
		"VOLUME_LOCAL_SHARE="+n.VolumeLocalShare,
		"VOLUME_CONFIG="+n.VolumeConfig,
		"VOLUME_CACHE="+n.VolumeCache,
		"VOLUME_VSCODE_EXT="+n.VolumeVSCodeExt,
		"VOLUME_VSCODE_EXT_INSIDERS="+n.VolumeVSCodeExtInsiders,
		"",
		// Forward slashes keep the paths usable by Docker on Windows.
		"HOME="+filepath.ToSlash(p.Home),
	)

	if p.GitRoot != "" {
		lines = append(lines, "GIT_REPO_ROOT="+filepath.ToSlash(p.GitRoot))
	}

	return []byte(strings.Join(lines, "\n") + "\n")
}
