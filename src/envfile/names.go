package envfile

// Names are the compose service and volume identities for one
// devcontainer instance. A non-empty suffix namespaces every name so
// two checkouts of the same repository can run side by side.
type Names struct {
	ServicePrepare          string
	ServiceMain             string
	VolumeLocalShare        string
	VolumeConfig            string
	VolumeCache             string
	VolumeVSCodeExt         string
	VolumeVSCodeExtInsiders string
}

// DeriveNames builds the instance names for a user and suffix.
func DeriveNames(username, suffix string) Names {
	s := ""
	if suffix != "" {
		s = "-" + suffix
	}
	base := username + "-devcontainer"
	return Names{
		ServicePrepare:          base + "-prepare" + s,
		ServiceMain:             base + s,
		VolumeLocalShare:        base + "-local-share" + s,
		VolumeConfig:            base + "-config" + s,
		VolumeCache:             base + "-cache" + s,
		VolumeVSCodeExt:         username + "-vscode-extensions" + s,
		VolumeVSCodeExtInsiders: username + "-vscode-extensions-insiders" + s,
	}
}
