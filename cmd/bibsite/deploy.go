package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fleury/bibsite/internal/deploy"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deployCmd)
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Upload the built publications list to the web host",
	Long: `Upload the built publications list to the configured web host over
SSH, authenticating through the running ssh-agent.

Requires deploy.host and deploy.remote_path in the site config, and a
prior "bibsite build --out" (or output: in the config).`,
	RunE: runDeploy,
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if cfg.Deploy.Host == "" || cfg.Deploy.RemotePath == "" {
		exitWithError(ExitConfigError, "deploy.host and deploy.remote_path must be configured in %s", configPath)
	}
	if cfg.Output == "" {
		exitWithError(ExitConfigError, "output must be configured in %s so deploy knows what to upload", configPath)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		exitWithError(ExitDataError, "reading %s (run \"bibsite build\" first): %v", cfg.Output, err)
	}

	var opts []deploy.Option
	if cfg.Deploy.ProxyJump != "" {
		opts = append(opts, deploy.WithProxyJump(cfg.Deploy.ProxyJump))
	}
	if cfg.Deploy.ConnectTimeout > 0 {
		opts = append(opts, deploy.WithConnectTimeout(time.Duration(cfg.Deploy.ConnectTimeout)*time.Second))
	}

	client, err := deploy.NewClient(opts...)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer client.Close()

	if err := client.Upload(cfg.Deploy.Host, cfg.Deploy.RemotePath, data); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Deployed %s to %s:%s\n", cfg.Output, cfg.Deploy.Host, cfg.Deploy.RemotePath)
		return nil
	}
	return outputJSON(StatusResponse{Status: "deployed", Path: cfg.Deploy.RemotePath})
}
