package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/agentlink/pkg/errors"
)

const generatedHeader = `# agentlink configuration
#
# Every value below is the built-in default. Uncomment a line to change it.

`

// GenerateConfigContent renders the default configuration as TOML with
// every value commented out
func GenerateConfigContent() (string, error) {
	cfg, err := Default()
	if err != nil {
		return "", err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to marshal default configuration")
	}

	return generatedHeader + commentOutConfigValues(string(data)) + clientsExample, nil
}

const clientsExample = `
# Move a client's global configuration directory:
#
# [clients.claude]
# global_root = "~/.claude"
`

// commentOutConfigValues takes the TOML content and comments out all
// non-blank lines that are not section headers or comments already
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			result = append(result, line)
		case strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
