package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sysmod/magicmount/pkg/config"
	"github.com/sysmod/magicmount/pkg/filesystem"
	"github.com/sysmod/magicmount/pkg/modules"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed modules and their state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		infos, err := modules.NewScanner(filesystem.NewOS(), cfg.Modules.Dir).List()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			pterm.Info.Println("No modules installed")
			return nil
		}

		data := pterm.TableData{{"ID", "NAME", "VERSION", "STATE"}}
		for _, info := range infos {
			data = append(data, []string{info.ID, info.Name, info.Version, info.State.String()})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}
