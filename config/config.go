// Package config persists tool settings in a YAML file under the user's home
// directory: flag defaults keyed by flag name plus named site profiles.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var gscSyncHomeDir string
var Main *File

func init() {
	Main = NewConfigFileWithDir(mustGetConfigHomeDir(), MainFileFullName)
}

const (
	MainDir            = ".gscsync"
	MainFileNamePrefix = "config"
	MainFileNameExt    = "yaml"
	MainFileFullName   = MainFileNamePrefix + "." + MainFileNameExt
)

// FileNotFoundError denotes failing to find a configuration file.
type FileNotFoundError struct {
	name string
}

func (f FileNotFoundError) Error() string {
	return fmt.Sprintf("config file %q not found", f.name)
}

type KeyNotFoundError struct {
	configFile string
	key        string
}

func (k KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in config file %q", k.key, k.configFile)
}

// File wraps one YAML config file with lazy loading and typed key access.
type File struct {
	Dirname      string
	FileName     string
	FilePrefix   string
	FileExt      string
	FullPath     string
	data         map[string]interface{}
	dataIsLoaded bool
	mu           sync.Mutex
}

func NewConfigFileWithDir(dirName string, fileName string) *File {
	c := &File{Dirname: dirName, FileName: fileName}
	c.FullPath = path.Join(dirName, fileName)
	c.FileExt = strings.TrimLeft(path.Ext(fileName), ".")
	c.FilePrefix = strings.TrimSuffix(c.FileName, "."+c.FileExt)
	c.data = make(map[string]interface{})
	return c
}

// Get fetches the key from the config file into out, which must be a pointer.
// Values decode via mapstructure so both plain strings and nested profile
// maps are supported.
func (c *File) Get(key string, out interface{}) error {
	val := reflect.ValueOf(out)
	if val.Kind() != reflect.Ptr {
		return errors.New("out must be a pointer")
	}
	if err := c.ensureLoaded(); err != nil {
		return err
	}
	d, ok := c.data[key]
	if !ok {
		return KeyNotFoundError{c.FullPath, key}
	}
	if err := mapstructure.Decode(d, out); err != nil {
		return errors.Wrapf(err, "bad value for key %v in config file %v", key, c.FullPath)
	}
	return nil
}

func (c *File) Set(key string, val interface{}) error {
	if err := c.ensureLoaded(); err != nil {
		return err
	}
	c.data[key] = val
	return c.save()
}

func (c *File) Delete(key string) error {
	if err := c.ensureLoaded(); err != nil {
		return err
	}
	if _, keyExists := c.data[key]; !keyExists {
		return errors.New("key not found")
	}
	delete(c.data, key)
	return c.save()
}

func (c *File) GetAllKeys() ([]string, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	retval := make([]string, 0, len(c.data))
	for k := range c.data {
		retval = append(retval, k)
	}
	return retval, nil
}

// ensureLoaded loads the file data once. A missing file is not an error; it
// appears as an empty key set and is created on the first Set.
func (c *File) ensureLoaded() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dataIsLoaded {
		return nil
	}
	b, err := ioutil.ReadFile(c.FullPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.dataIsLoaded = true
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(b, &c.data); err != nil {
		return errors.Wrapf(err, "error parsing config file %v", c.FullPath)
	}
	c.dataIsLoaded = true
	return nil
}

func (c *File) save() error {
	b, err := yaml.Marshal(c.data)
	if err != nil {
		return errors.Wrapf(err, "error marshalling config file %v", c.FullPath)
	}
	if err := makeDir(c.Dirname); err != nil {
		return err
	}
	return ioutil.WriteFile(c.FullPath, b, 0644)
}
