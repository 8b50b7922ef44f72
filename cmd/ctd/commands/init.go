package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agiangrant/ctdcore"
)

const sampleScenarioFile = "scenario.yaml"

func newInitCommand() *cobra.Command {
	var (
		force bool
		dir   string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default ctd.toml and a sample scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, dir, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to initialize")
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	out := cmd.OutOrStdout()
	configPath := filepath.Join(dir, ctdcore.ConfigFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := ctdcore.SaveConfig(configPath, ctdcore.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(out, "  ✓ Created %s\n", configPath)

	scenarioPath := filepath.Join(dir, sampleScenarioFile)
	if _, err := os.Stat(scenarioPath); errors.Is(err, os.ErrNotExist) || force {
		if err := os.WriteFile(scenarioPath, []byte(sampleScenario), 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", scenarioPath, err)
		}
		fmt.Fprintf(out, "  ✓ Created %s\n", scenarioPath)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  ctd replay %s   # play the sample session\n", scenarioPath)
	fmt.Fprintln(out, "  ctd demo                # try the widgets in the terminal")
	return nil
}

const sampleScenario = `# Scenario: build calls plus one input frame per entry.
version: v1.1.0
name: sample
frames:
  - widgets:
      - {id: agree, kind: checkbox, rect: [10, 10, 20, 20], text: I agree}
      - {id: name, kind: text_box, rect: [10, 40, 200, 24], placeholder: Name, overflow_x: auto}
      - {id: submit, kind: button, rect: [10, 80, 80, 24], text: Submit}

  - input: {x: 15, y: 15, down: true}
  - input: {down: false}

  - input: {x: 20, y: 50, down: true}
  - input: {down: false, text: Ada}

  - input: {x: 20, y: 90, down: true}
  - input: {down: false}
`
