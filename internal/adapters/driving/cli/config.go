package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/wikivec-cli/internal/config"
)

// configPath resolves the config file location. Tests point it at a
// temporary file.
var configPath = config.DefaultPath

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit the configuration file.

Values are stored as TOML in ~/.wikivec/config.toml. Environment
variables override file values when commands load their settings.`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured values",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configured value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

For secret keys (github_token, openai_api_key) the value may be
omitted; it is then read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configured value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	values, err := config.ReadValues(path)
	if err != nil {
		return err
	}

	if len(values) == 0 {
		cmd.Println("No values set. Run 'wikivec config set <key> <value>'.")
		return nil
	}

	for _, key := range config.KnownKeys() {
		value, ok := values[key]
		if !ok {
			continue
		}
		cmd.Printf("%s = %s\n", key, displayValue(key, value))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !config.IsKnownKey(key) {
		return fmt.Errorf("%w: %s", config.ErrUnknownKey, key)
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	values, err := config.ReadValues(path)
	if err != nil {
		return err
	}

	value, ok := values[key]
	if !ok {
		cmd.Printf("%s is not set\n", key)
		return nil
	}
	cmd.Println(displayValue(key, value))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !config.IsKnownKey(key) {
		return fmt.Errorf("%w: %s", config.ErrUnknownKey, key)
	}

	var raw string
	switch {
	case len(args) == 2:
		raw = args[1]
	case config.IsSecretKey(key):
		cmd.Printf("Enter %s: ", key)
		raw = readSecret()
		cmd.Println()
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	value, err := config.ParseValue(key, raw)
	if err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := config.WriteValue(path, key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := args[0]

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := config.DeleteValue(path, key); err != nil {
		return err
	}
	cmd.Printf("Unset %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cmd.Println(path)
	return nil
}

// displayValue renders a stored value, masking secrets.
func displayValue(key string, value any) string {
	if config.IsSecretKey(key) {
		if s, ok := value.(string); ok {
			return maskSecret(s)
		}
	}
	switch v := value.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

// maskSecret hides all but the edges of a credential.
func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// readSecret reads a value from stdin without echo when attached to
// a terminal.
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
