package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are read in order; later files override earlier ones.
var envFiles = []string{".env", ".env.local"}

func envFileDir(configPath string) string {
	return filepath.Dir(configPath)
}

// loadEnvFiles reads the dotenv files that exist in dir into a map.
func loadEnvFiles(dir string) (map[string]string, error) {
	merged := map[string]string{}
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		vals, err := godotenv.Read(p)
		if err != nil {
			return nil, err
		}
		for k, v := range vals {
			merged[k] = v
		}
	}
	return merged, nil
}
