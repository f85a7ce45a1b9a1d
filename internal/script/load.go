package script

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/talkgraph/internal/ctxlog"
	"github.com/vk/talkgraph/internal/talk"
)

// Load reads the script file at path, picking the codec from the file
// extension: .hcl for HCL, .yaml or .yml for YAML.
func Load(ctx context.Context, path string) (*talk.RawScript, error) {
	logger := ctxlog.FromContext(ctx)
	ext := strings.ToLower(filepath.Ext(path))
	logger.Debug("loading script", "path", path, "format", ext)

	switch ext {
	case ".hcl":
		return LoadHCL(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported script format %q (want .hcl, .yaml or .yml)", ext)
	}
}
