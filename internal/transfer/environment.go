package transfer

import (
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// Environment captures the environment variables that mark hosted cloud
// shells, where no local clipboard exists.
type Environment struct {
	GitpodWorkspaceID string `env:"GITPOD_WORKSPACE_ID"`
	CodespaceName     string `env:"CODESPACE_NAME"`
	CloudEnvID        string `env:"CLOUDENV_ENVIRONMENT_ID"`
	DevshellConfig    string `env:"DEVSHELL_GCLOUD_CONFIG"`
	BashrcGooglePath  string `env:"BASHRC_GOOGLE_PATH"`
	Home              string `env:"HOME"`
}

// DetectEnvironment reads the cloud markers from the process environment.
func DetectEnvironment() Environment {
	e, err := env.ParseAs[Environment]()
	if err != nil {
		log.Debug("could not parse environment", "err", err)
	}
	return e
}

// IsGitpod reports a Gitpod workspace.
func (e Environment) IsGitpod() bool {
	return e.GitpodWorkspaceID != ""
}

// IsCodespace reports a GitHub Codespace.
func (e Environment) IsCodespace() bool {
	return e.CodespaceName != "" && e.CloudEnvID != ""
}

// IsGoogleCloud reports a Google Cloud Shell.
func (e Environment) IsGoogleCloud() bool {
	return e.DevshellConfig != "" || e.BashrcGooglePath != ""
}

// IsCloud reports any hosted cloud shell.
func (e Environment) IsCloud() bool {
	return e.IsGitpod() || e.IsCodespace() || e.IsGoogleCloud()
}
