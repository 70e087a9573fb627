package cmd

import (
	"fmt"
	"sort"

	"github.com/seoreports/gscsync/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage site profiles and flag defaults",
	Long: `Manage the tool's config file (` + config.Main.FullPath + `).

Profiles bundle a site property with its warehouse target so a sync needs just
"--profile <name>". Defaults override the built-in default of any flag by
flag name.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
	initConfigProfile()
	initConfigDefault()
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage site profiles",
}

var profileAddForce bool
var profileAdd = config.Profile{}
var profileAddName string

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a site profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !profileAddForce {
			if _, err := config.Main.LoadProfile(profileAddName); err == nil {
				return fmt.Errorf("profile %q exists; use --force to overwrite", profileAddName)
			}
		}
		if err := config.Main.SaveProfile(profileAddName, profileAdd); err != nil {
			return err
		}
		fmt.Printf("saved profile %q\n", profileAddName)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := config.Main.ProfileNames()
		if err != nil {
			return err
		}
		sort.Strings(names)
		for _, name := range names {
			p, err := config.Main.LoadProfile(name)
			if err != nil {
				return err
			}
			fmt.Printf("%v: %v -> %v.%v\n", name, p.SiteURL, p.Project, p.Dataset)
		}
		return nil
	},
}

func initConfigProfile() {
	configCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
	profileAddCmd.Flags().SortFlags = false
	switches.addFlag(profileAddCmd, &profileAddName, "profile", "", true, "")
	switches.addFlag(profileAddCmd, &profileAdd.SiteURL, "site", "", true, "")
	switches.addFlag(profileAddCmd, &profileAdd.CredentialsFile, "credentials", "", false, "")
	switches.addFlag(profileAddCmd, &profileAdd.Project, "project", "", true, "")
	switches.addFlag(profileAddCmd, &profileAdd.Dataset, "dataset", "", true, "")
	switches.addFlag(profileAddCmd, &profileAdd.RawTable, "raw-table", "", false, "")
	switches.addFlag(profileAddCmd, &profileAdd.AppearanceTable, "appearance-table", "", false, "")
	switches.addFlag(profileAddCmd, &profileAdd.AllocTable, "alloc-table", "", false, "")
	switches.addFlag(profileAddCmd, &profileAdd.CountryDimSQL, "country-dim-sql", "", false, "")
	switches.addFlag(profileAddCmd, &profileAdd.RowLimit, "row-limit", "", false, "")
	switches.addFlag(profileAddCmd, &profileAdd.RetryIntervalSeconds, "retry-seconds", "", false, "")
	switches.addFlag(profileAddCmd, &profileAddForce, "force-profile", "", false, "")
}

var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Manage flag defaults",
}

var defaultAddCmd = &cobra.Command{
	Use:   "add <flag-name> <value>",
	Short: "Set the default value of a flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := switches[args[0]]; !ok {
			return fmt.Errorf("unknown flag %q", args[0])
		}
		return config.Main.Set(args[0], args[1])
	},
}

var defaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured flag defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := config.Main.GetAllKeys()
		if err != nil {
			return err
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == "profiles" {
				continue
			}
			var v string
			if err := config.Main.Get(k, &v); err != nil {
				continue
			}
			fmt.Printf("%v = %v\n", k, v)
		}
		return nil
	},
}

var defaultRemoveCmd = &cobra.Command{
	Use:   "remove <flag-name>",
	Short: "Remove the default value of a flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Main.Delete(args[0])
	},
}

func initConfigDefault() {
	configCmd.AddCommand(defaultCmd)
	defaultCmd.AddCommand(defaultAddCmd)
	defaultCmd.AddCommand(defaultListCmd)
	defaultCmd.AddCommand(defaultRemoveCmd)
}
