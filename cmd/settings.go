package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"facturatie/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Instellingen beheren",
}

var settingsGetCmd = &cobra.Command{
	Use:       "get output",
	Short:     "Opgeslagen opslagmap tonen",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"output"},
	RunE:      runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:     "set output <map>",
	Short:   "Opslagmap voor facturen instellen",
	Example: `  facturatie settings set output ~/Documenten/Facturen`,
	Args:    cobra.ExactArgs(2),
	RunE:    runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	a, err := loadApp(false)
	if err != nil {
		return err
	}
	value := a.prefs.Get(settings.OutputPathKey)
	if value == "" {
		fmt.Println("(niet ingesteld)")
		return nil
	}
	fmt.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if args[0] != "output" {
		return fmt.Errorf("unknown setting %q (only output is supported)", args[0])
	}

	dir, err := filepath.Abs(args[1])
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("folder %s does not exist", dir)
	}

	a, err := loadApp(false)
	if err != nil {
		return err
	}
	a.prefs.Set(settings.OutputPathKey, dir)
	if err := a.prefs.Save(); err != nil {
		return err
	}
	fmt.Printf("Opslagmap ingesteld: %s\n", dir)
	fmt.Printf("Voorkeuren opgeslagen in %s\n", a.prefs.Path())
	return nil
}
