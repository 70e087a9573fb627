package config

import (
	"fmt"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
)

// mustGetConfigHomeDir returns the full path to the directory that stores all
// config files. Uses a global so the lookup happens once.
func mustGetConfigHomeDir() string {
	if gscSyncHomeDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		gscSyncHomeDir = path.Join(home, MainDir)
	}
	return gscSyncHomeDir
}

// makeDir makes the given directory if it does not already exist.
func makeDir(dir string) error {
	_, err := os.Stat(dir)
	if os.IsNotExist(err) { // if it doesn't exist...
		if err = os.Mkdir(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory %v", dir)
		}
	} else if err != nil {
		return err
	}
	return nil
}
