package main

import (
	"fmt"
	"os"

	"github.com/ragstack/ragserve/internal/config"
)

// Manual harness for checking that environment variables override the
// config file. Run with: go run test/test_env_config.go
func main() {
	fmt.Println("=== Loading Defaults ===")

	cfg := config.NewConfig()
	fmt.Printf("Port: %d\n", cfg.Server.Port)
	fmt.Printf("Provider: %s\n", cfg.Provider.Kind)
	fmt.Printf("Store Path: %s\n", cfg.Store.Path)

	fmt.Println("\n=== Loading With Environment Overrides ===")

	os.Setenv("RAGSERVE_PORT", "9090")
	os.Setenv("RAGSERVE_STORE_PATH", "/tmp/kb-override.json")

	cfg2, err := config.LoadConfigWithPath(config.DefaultConfigFilename)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Port: %d\n", cfg2.Server.Port)
	fmt.Printf("Store Path: %s\n", cfg2.Store.Path)

	os.Unsetenv("RAGSERVE_PORT")
	os.Unsetenv("RAGSERVE_STORE_PATH")

	fmt.Println("\n=== Test Complete ===")
}
