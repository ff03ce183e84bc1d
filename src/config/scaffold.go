package config

import (
	"fmt"
	"os"
)

// Starter content written when a custom file is absent. Both parse as
// valid documents whose merge contributes nothing, so a fresh checkout
// behaves identically to one with no customization.
const composeCustomTemplate = `# Custom docker-compose overrides
# Examples: environment, volumes, devices, ports, extra_hosts

services:
  devcontainer:
    environment: []
    volumes: []
    devices: []
`

const packagesCustomTemplate = `# Custom package overrides (merged with packages.default.yml)

base:
  packages: []

devenv:
  packages: []
`

// ScaffoldComposeCustom writes the compose override starter file if path
// does not exist. Returns true when the file was created.
func ScaffoldComposeCustom(path string) (bool, error) {
	return scaffold(path, composeCustomTemplate)
}

// ScaffoldPackagesCustom writes the package override starter file if
// path does not exist. Returns true when the file was created.
func ScaffoldPackagesCustom(path string) (bool, error) {
	return scaffold(path, packagesCustomTemplate)
}

func scaffold(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
