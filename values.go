package cradle

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadValues decodes a YAML mapping and registers every leaf as a Value.
// Nested mappings are flattened with "." so
//
//	db:
//	  dsn: postgres://localhost/app
//	  pool: 10
//
// binds "db.dsn" and "db.pool". Sequences are leaves. Shared flags of the
// keys are left untouched.
func (c *Container) LoadValues(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}

	if doc == nil {
		return nil
	}

	values := make(map[string]any)
	if err := flatten("", doc, values); err != nil {
		return err
	}

	if err := c.RegisterValues(values); err != nil {
		return err
	}

	c.logger.Debug("values loaded", zap.Int("count", len(values)))

	return nil
}

// LoadValuesFile reads path and passes it to LoadValues.
func (c *Container) LoadValuesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}
	return c.LoadValues(data)
}

func flatten(prefix string, node any, out map[string]any) error {
	switch m := node.(type) {
	case map[string]any:
		for k, v := range m {
			if err := flatten(join(prefix, k), v, out); err != nil {
				return err
			}
		}
	case map[any]any:
		for k, v := range m {
			if err := flatten(join(prefix, fmt.Sprint(k)), v, out); err != nil {
				return err
			}
		}
	default:
		if prefix == "" {
			return fmt.Errorf("decode values: document must be a mapping, got %T", node)
		}
		out[prefix] = node
	}
	return nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
