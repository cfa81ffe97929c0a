package commands

import (
	"fmt"

	"git.home.luguber.info/inful/bollard/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" optional:"" type:"path" help:"Site directory to initialize (default: current directory)"`
	Force bool   `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	dir := i.Dir
	if dir == "" {
		dir = "."
	}
	// Provide friendly user-facing messages on stdout.
	fmt.Println("Initializing bollard site")
	path, err := config.Init(dir, i.Force)
	if err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	fmt.Printf("Wrote configuration to %s\n", path)
	return nil
}
