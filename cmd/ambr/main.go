package main

import "github.com/project-ambr/ambr/cmd/ambr/cmd"

// ambr                          launch AMBR.py with defaults
// ambr -- --dry-run             launch, passing args to the script
// ambr launch --provisioner podman
// ambr validate [--list]
// ambr report
// ambr serve --port 8000
// ambr version

func main() {
	cmd.Execute()
}
