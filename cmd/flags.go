package cmd

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/seoreports/gscsync/config"
	"github.com/seoreports/gscsync/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"profile": cliFlag{name: "profile", shortHand: "n",
		desc: "Name of a site profile saved with 'gscsync config profile add'.\n" +
			"Individual flags override profile values"},
	"site": cliFlag{name: "site", shortHand: "s",
		desc: "Search Console site property, e.g. https://example.com/ or sc-domain:example.com"},
	"credentials": cliFlag{name: "credentials", shortHand: "k",
		desc: "Path to the service account JSON key used for both the source API and BigQuery"},
	"project": cliFlag{name: "project", shortHand: "p",
		desc: "BigQuery project id"},
	"dataset": cliFlag{name: "dataset", shortHand: "D",
		desc: "BigQuery dataset holding the output tables"},
	"raw-table": cliFlag{name: "raw-table", shortHand: "t",
		desc: "Name of the append-only table for raw search analytics rows"},
	"appearance-table": cliFlag{name: "appearance-table", shortHand: "a",
		desc: "Name of the table for search appearance summary rows"},
	"alloc-table": cliFlag{name: "alloc-table", shortHand: "A",
		desc: "Name of the table for allocated search appearance metrics"},
	"country-dim-sql": cliFlag{name: "country-dim-sql", shortHand: "q",
		desc: "Two-column SQL returning (country code, country name) pairs used to expand\n" +
			"country codes in raw rows. Leave blank to store codes as-is"},
	"start-date": cliFlag{name: "start-date", shortHand: "G",
		desc: "Inclusive start of the extract window (YYYY-MM-DD). Defaults to 3 days\n" +
			"before today (UTC) to allow for source-side reporting lag"},
	"end-date": cliFlag{name: "end-date", shortHand: "E",
		desc: "Inclusive end of the extract window (YYYY-MM-DD). Defaults to today (UTC)"},
	"row-limit": cliFlag{name: "row-limit", shortHand: "r",
		desc: "Max rows requested per source API page"},
	"retry-seconds": cliFlag{name: "retry-seconds", shortHand: "R",
		desc: "Seconds to sleep between retries of a failed source page. Retries never\n" +
			"give up; only an access denial aborts the run"},
	"debug": cliFlag{name: "debug", shortHand: "d",
		desc: "Run the full extract but preview rows instead of writing to BigQuery"},
	"csv-test": cliFlag{name: "csv-test", shortHand: "c",
		desc: "Write rows previewed in debug mode to this CSV file"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\""},
	"force-profile": cliFlag{name: "force", shortHand: "f",
		desc: "Allow overwrite of an existing profile"},
}

// addFlag adds a flag to cobra.Command c, based on the type of targetVar
// (which must be a pointer). The name of the flag is looked up in map
// cliFlags. The default value comes from, in priority order: the GSCSYNC_*
// environment variable for the flag, the main config file, the supplied
// defaultValue. The flag is marked as required in Cobra based on the value of
// required. Supply a value for desc2 to append to the existing description
// found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, config.Main.Get)
	desc := sw.desc + desc2
	// Apply the flag.
	switch p := targetVar.(type) {
	case *string:
		c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
		// Signal that the flag was set so config or env defaults satisfy
		// required-flag checks.
		if sw.val != "" {
			mustSetFlag(c.Flags(), sw.name, sw.val)
		}
	case *bool:
		defaultBool := strings.ToLower(sw.val) == "true"
		c.Flags().BoolVarP(p, sw.name, sw.shortHand, defaultBool, desc)
	case *int:
		defaultInt := 0
		if sw.val != "" {
			var err error
			defaultInt, err = strconv.Atoi(sw.val)
			if err != nil {
				fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
				os.Exit(1)
			}
		}
		c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
		if sw.val != "" {
			mustSetFlag(c.Flags(), sw.name, sw.val)
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	if required { // if the flag is required...
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the default value of name from the environment, then the
// main config file, else applies the supplied defaultValue.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetConfig func(key string, out interface{}) error) cliFlag {
	s, ok := switches[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	err := fnGetConfig(s.name, &s.val)
	if errors.As(err, &config.KeyNotFoundError{}) || s.val == "" { // if there was no key found...
		s.val = defaultValue
	}
	// The environment variable wins over both the config file and the default.
	s.val = helper.ReadValueFromEnvWithDefault(helper.GetFlagEnvVarName(name), s.val)
	return s
}

func mustSetFlag(f *pflag.FlagSet, name string, val string) {
	if err := f.Set(name, val); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
