package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a new script interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	name := "demo"
	if len(args) == 1 {
		name = args[0]
	}

	validateName := func(input string) error {
		var validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
		if validName.MatchString(input) {
			return nil
		}
		return fmt.Errorf("Invalid file name")
	}

	promptName := promptui.Prompt{
		Label:    "Script name",
		Default:  name,
		Validate: validateName,
	}
	promptTitle := promptui.Prompt{
		Label: "Recording title",
	}
	promptShell := promptui.Prompt{
		Label:   "Shell",
		Default: "bash",
	}
	promptSize := promptui.Prompt{
		Label:   "Terminal size (auto or WxH)",
		Default: "auto",
		Validate: func(input string) error {
			if input == "auto" || regexp.MustCompile(`^\d+x\d+$`).MatchString(input) {
				return nil
			}
			return fmt.Errorf("Expected auto or WxH, e.g. 80x24")
		},
	}

	name, err := promptName.Run()
	if err != nil {
		return err
	}
	title, err := promptTitle.Run()
	if err != nil {
		return err
	}
	shell, err := promptShell.Run()
	if err != nil {
		return err
	}
	size, err := promptSize.Run()
	if err != nil {
		return err
	}

	width, height := "auto", "auto"
	if size != "auto" {
		width, height, _ = strings.Cut(size, "x")
	}

	path := name + ".sc"
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	var b strings.Builder
	b.WriteString("---\n")
	if title != "" {
		fmt.Fprintf(&b, "title: %s\n", title)
	}
	fmt.Fprintf(&b, "shell: %s\n", shell)
	fmt.Fprintf(&b, "width: %s\n", width)
	fmt.Fprintf(&b, "height: %s\n", height)
	b.WriteString("---\n")
	b.WriteString("# Type text without running anything:\n")
	b.WriteString("%Welcome!\n")
	b.WriteString("\n")
	b.WriteString("# Run a command (pass --execute to capture real output):\n")
	b.WriteString("$ echo hello\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return err
	}
	fmt.Printf("Created %s. Record it with: scriptcast record --execute %s\n", path, path)
	return nil
}
