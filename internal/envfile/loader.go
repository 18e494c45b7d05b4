// Package envfile reads .env files referenced by turbo.json dotEnv lists.
package envfile

import (
	"fmt"
	"os"
	"sort"

	"github.com/subosito/gotenv"
)

// Keys returns the keys defined in path, sorted. A missing file defines
// nothing and is not an error.
func Keys(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	env, err := gotenv.StrictParse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
